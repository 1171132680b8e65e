package get_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InstantBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InstantBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные параметры расчета"
	msgTimeInPast         = "нельзя забронировать прошедшее время"
	msgAddonNotFound      = "дополнительная опция не найдена для услуги"
	msgNoProviders        = "нет доступных исполнителей"
	msgSlotNotAvailable   = "выбранное время занято"
	msgConflict           = "расписание изменилось параллельно, повторите запрос"
)

type Handler struct {
	service QuoteService
	logger  Logger
}

func NewHandler(service QuoteService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/quotes
// Подбирает исполнителя и рассчитывает цену без создания бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /quotes - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /quotes - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	decision, err := h.service.Quote(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrInvalidInput):
			h.logger.Warn("POST /quotes - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, quote.ErrTimeInPast):
			h.logger.Warn("POST /quotes - Time in past: customer_id=%d, date=%s, time=%s",
				customerID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, quote.ErrAddonNotFound):
			h.logger.Warn("POST /quotes - Addon not found: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgAddonNotFound)

		case errors.Is(err, quote.ErrNoCandidates):
			h.logger.Warn("POST /quotes - No providers: service_id=%d", req.ServiceID)
			handlers.RespondConflict(w, msgNoProviders)

		case errors.Is(err, quote.ErrNoAvailableSlot):
			h.logger.Warn("POST /quotes - All providers busy: service_id=%d, date=%s, time=%s",
				req.ServiceID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, quote.ErrConflict):
			h.logger.Warn("POST /quotes - Serialization conflict: customer_id=%d, error=%v", customerID, err)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /quotes - Failed to compute quote: customer_id=%d, service_id=%d, error=%v",
				customerID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotes - Quote computed: customer_id=%d, provider_id=%d, total=%s",
		customerID, decision.ProviderID, decision.Breakdown.Total.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromDecision(decision))
}
