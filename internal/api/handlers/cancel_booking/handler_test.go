package cancel_booking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
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
	bookingID int64
	req       *models.CancelBookingRequest
	err       error
}

func (f *fakeService) Cancel(_ context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	f.bookingID = bookingID
	f.req = req
	return f.err
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/cancel", reader)
	req = mux.SetURLVars(req, map[string]string{"bookingId": "1"})
	req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_CancelWithReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"cancellationReason": "plans changed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.bookingID)
	assert.Equal(t, int64(100), svc.req.UserID)
	require.NotNil(t, svc.req.CancellationReason)
	assert.Equal(t, "plans changed", *svc.req.CancellationReason)
}

func TestHandler_CancelWithoutBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.req.CancellationReason)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", bookings.ErrAccessDenied, http.StatusForbidden},
		{"cannot cancel", bookings.ErrCannotCancel, http.StatusConflict},
		{"invalid", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_ReasonTooLong(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"cancellationReason": "`+strings.Repeat("a", 501)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.req)
}
