package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-InstantBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InstantBookingService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-InstantBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration  = "некорректная длительность, ожидается целое число часов"
	msgDateInPast       = "дата уже прошла"
	msgDateTooFar       = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationHours (optional, 1 by default)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем serviceId из URL
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /services/{id}/available-slots - Invalid service ID: %q", vars["serviceId"])
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Извлекаем date из query параметров
	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /services/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, dateStr, query.Get("durationHours"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/available-slots - Invalid query: %v", err)
		var durationErr errInvalidDuration
		if errors.As(err, &durationErr) {
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /services/{id}/available-slots - Date in past: service_id=%d, date=%s", serviceID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /services/{id}/available-slots - Date too far: service_id=%d, date=%s", serviceID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		default:
			h.logger.Error("GET /services/{id}/available-slots - Failed to get slots: service_id=%d, request_id=%s, error=%v",
				serviceID, middleware.GetRequestID(r.Context()), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/available-slots - Slots retrieved successfully: service_id=%d, date=%s, slots_count=%d",
		serviceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
