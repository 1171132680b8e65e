package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/infra/cache/slothold"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
)

// QuoteService подбор исполнителя и расчет цены
type QuoteService interface {
	Quote(ctx context.Context, req *models.QuoteRequest) (*models.Decision, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// MembershipRepository учет использования клубных карт
type MembershipRepository interface {
	RecordUsage(ctx context.Context, usage domain.MembershipUsage) error
}

// SlotHolder кратковременное удержание расписания исполнителя
type SlotHolder interface {
	Acquire(ctx context.Context, providerID int64, date time.Time) (*slothold.Hold, error)
	Release(ctx context.Context, hold *slothold.Hold) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики создания бронирований
type Metrics interface {
	ObserveBookingCreated(serviceID int64)
	ObserveMembershipSaving(amount float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
