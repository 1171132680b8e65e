package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-InstantBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-InstantBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *getAvailableSlots.Response
	err  error
	got  *getAvailableSlots.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, serviceID, query string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services/"+serviceID+"/available-slots?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"serviceId": serviceID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_OK(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:            time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		ServiceID:       5,
		DurationMinutes: 120,
		Slots: []getAvailableSlots.Slot{
			{StartTime: "08:00", DurationMinutes: 120, AvailableProviders: 2, TotalProviders: 3},
		},
	}}

	rec := serve(uc, "5", "date=2026-06-10&durationHours=2")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, 2, uc.got.DurationHours)
	assert.Equal(t, int64(5), uc.got.ServiceID)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-06-10", body.Date)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "08:00", body.Slots[0].StartTime)
	assert.Equal(t, 2, body.Slots[0].AvailableProviders)
}

func TestHandler_DefaultDuration(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{Slots: []getAvailableSlots.Slot{}}}

	rec := serve(uc, "5", "date=2026-06-10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, uc.got.DurationHours)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceID  string
		query      string
		err        error
		wantStatus int
	}{
		{"bad service id", "abc", "date=2026-06-10", nil, http.StatusBadRequest},
		{"missing date", "5", "", nil, http.StatusBadRequest},
		{"bad date", "5", "date=10.06.2026", nil, http.StatusBadRequest},
		{"bad duration", "5", "date=2026-06-10&durationHours=two", nil, http.StatusBadRequest},
		{"date in past", "5", "date=2026-06-10", getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{"too far", "5", "date=2026-06-10", fmt.Errorf("%w: 60 days", getAvailableSlots.ErrDateTooFarInFuture), http.StatusBadRequest},
		{"internal", "5", "date=2026-06-10", getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.serviceID, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
