package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-InstantBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime          string `json:"startTime"`
	DurationMinutes    int    `json:"durationMinutes"`
	AvailableProviders int    `json:"availableProviders"`
	TotalProviders     int    `json:"totalProviders"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:          slot.StartTime.String(),
			DurationMinutes:    slot.DurationMinutes,
			AvailableProviders: slot.AvailableProviders,
			TotalProviders:     slot.TotalProviders,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// durationHours необязателен, по умолчанию один час
func ToUseCaseRequest(serviceID int64, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, errInvalidDate{err: err}
	}

	duration := domain.MinDurationHours
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, errInvalidDuration{err: err}
		}
	}

	return &getAvailableSlots.Request{
		ServiceID:     serviceID,
		Date:          date,
		DurationHours: duration,
	}, nil
}

type errInvalidDate struct{ err error }

func (e errInvalidDate) Error() string { return "invalid date: " + e.err.Error() }
func (e errInvalidDate) Unwrap() error { return e.err }

type errInvalidDuration struct{ err error }

func (e errInvalidDuration) Error() string { return "invalid durationHours: " + e.err.Error() }
func (e errInvalidDuration) Unwrap() error { return e.err }
