package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InstantBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-InstantBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.BookingResponse
	err  error
}

func (f *fakeService) GetByID(context.Context, int64, int64) (*models.BookingResponse, error) {
	return f.resp, f.err
}

func serve(svc *fakeService, bookingID string, withUser bool) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_OK(t *testing.T) {
	svc := &fakeService{resp: &models.BookingResponse{ID: 1, ProviderID: 7, Price: models.PriceResponse{Total: "124.30"}}}

	rec := serve(svc, "1", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "124.30", body.Price.Total)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		withUser   bool
		err        error
		wantStatus int
	}{
		{"bad id", "abc", true, nil, http.StatusBadRequest},
		{"no user", "1", false, nil, http.StatusUnauthorized},
		{"not found", "1", true, bookings.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", "1", true, bookings.ErrAccessDenied, http.StatusForbidden},
		{"internal", "1", true, bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.bookingID, tt.withUser)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
