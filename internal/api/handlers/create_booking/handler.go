package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InstantBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InstantBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-InstantBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgTimeInPast         = "нельзя забронировать прошедшее время"
	msgAddonNotFound      = "дополнительная опция не найдена для услуги"
	msgNoProviders        = "нет доступных исполнителей"
	msgSlotNotAvailable   = "выбранное время занято"
	msgConflict           = "бронирование изменилось параллельно, повторите запрос"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrTimeInPast):
			h.logger.Warn("POST /bookings - Time in past: customer_id=%d, date=%s, time=%s",
				customerID, req.BookingDate, req.StartTime)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createBooking.ErrAddonNotFound):
			h.logger.Warn("POST /bookings - Addon not found: customer_id=%d, service_id=%d", customerID, req.ServiceID)
			handlers.RespondBadRequest(w, msgAddonNotFound)

		case errors.Is(err, createBooking.ErrNoProviders):
			h.logger.Warn("POST /bookings - No providers: customer_id=%d, service_id=%d", customerID, req.ServiceID)
			handlers.RespondConflict(w, msgNoProviders)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: customer_id=%d, service_id=%d", customerID, req.ServiceID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrConflict):
			h.logger.Warn("POST /bookings - Serialization conflict: customer_id=%d", customerID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, service_id=%d, error=%v",
				customerID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, provider_id=%d",
		result.ID, customerID, result.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
