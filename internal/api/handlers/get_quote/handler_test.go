package get_quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InstantBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
	"github.com/m04kA/SMC-InstantBookingService/pkg/logger"
)

type fakeQuoteService struct {
	req      *models.QuoteRequest
	decision *models.Decision
	err      error
}

func (f *fakeQuoteService) Quote(_ context.Context, req *models.QuoteRequest) (*models.Decision, error) {
	f.req = req
	return f.decision, f.err
}

const validBody = `{"serviceId": 5, "addressId": 9, "date": "2026-06-10", "startTime": "16:00", "durationHours": 2}`

func serve(svc *fakeQuoteService, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Quote(t *testing.T) {
	svc := &fakeQuoteService{decision: &models.Decision{
		ProviderID:      2,
		Date:            time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "16:00",
		DurationMinutes: 120,
		Interval:        domain.Interval{Start: 960, End: 1080},
		Breakdown: domain.PriceBreakdown{
			SubtotalBeforeFees: decimal.RequireFromString("80"),
			ServiceFee:         decimal.RequireFromString("8"),
			Tax:                decimal.RequireFromString("11.44"),
			Total:              decimal.RequireFromString("99.44"),
		},
		Membership: &models.MembershipApplication{
			MembershipID:   3,
			Percentage:     decimal.NewFromInt(20),
			DiscountAmount: decimal.RequireFromString("20"),
			OriginalTotal:  decimal.RequireFromString("124.3"),
		},
	}}

	rec := serve(svc, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(100), svc.req.CustomerID)

	var body QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.ProviderID)
	assert.Equal(t, "18:00", body.EndTime)
	assert.Equal(t, "80.00", body.SubtotalBeforeFees)
	assert.Equal(t, "99.44", body.Total)
	require.NotNil(t, body.Membership)
	assert.Equal(t, "20", body.Membership.DiscountPercentage)
	assert.Equal(t, "124.30", body.Membership.OriginalTotal)
}

func TestHandler_QuoteErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no candidates", quote.ErrNoCandidates, http.StatusConflict},
		{"no slot", quote.ErrNoAvailableSlot, http.StatusConflict},
		{"invalid", fmt.Errorf("%w: hours", quote.ErrInvalidInput), http.StatusBadRequest},
		{"past", quote.ErrTimeInPast, http.StatusBadRequest},
		{"addon", quote.ErrAddonNotFound, http.StatusBadRequest},
		{"serialization conflict", fmt.Errorf("%w: bookings", quote.ErrConflict), http.StatusConflict},
		{"internal", quote.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeQuoteService{err: tt.err}, validBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_InvalidBody(t *testing.T) {
	svc := &fakeQuoteService{}
	rec := serve(svc, `{"serviceId": 5, "date": "2026-06-10", "startTime": "25:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.req)
}
