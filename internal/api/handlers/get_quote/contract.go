package get_quote

import (
	"context"

	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
)

type QuoteService interface {
	Quote(ctx context.Context, req *models.QuoteRequest) (*models.Decision, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
