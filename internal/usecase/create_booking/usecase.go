package create_booking

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/infra/cache/slothold"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
)

// maxHoldAttempts сколько исполнителей пробуем удержать, прежде чем сообщить о занятом слоте
const maxHoldAttempts = 3

// UseCase use case для мгновенного бронирования
type UseCase struct {
	quoteService   QuoteService
	bookingRepo    BookingRepository
	membershipRepo MembershipRepository
	slotHolder     SlotHolder
	txManager      TransactionManager
	metrics        Metrics
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	quoteService QuoteService,
	bookingRepo BookingRepository,
	membershipRepo MembershipRepository,
	slotHolder SlotHolder,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		quoteService:   quoteService,
		bookingRepo:    bookingRepo,
		membershipRepo: membershipRepo,
		slotHolder:     slotHolder,
		txManager:      txManager,
		metrics:        metrics,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования.
// Подбор, расчет и запись выполняются в одной сериализуемой транзакции:
// занятые интервалы читаются с FOR UPDATE, а пересечение на записи отсекает ограничение в БД.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%d, address=%d, date=%s, time=%s, hours=%d",
		req.CustomerID, req.ServiceID, req.AddressID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		result   *domain.Booking
		decision *models.Decision
		hold     *slothold.Hold
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Подбираем исполнителя, считаем цену и удерживаем его расписание
		d, h, err := uc.quoteAndHold(txCtx, req)
		if err != nil {
			return err
		}
		decision, hold = d, h

		// 2.2. Сохраняем бронирование со снимком цены
		booking := &domain.Booking{
			CustomerID:      decision.CustomerID,
			ProviderID:      decision.ProviderID,
			ServiceID:       decision.ServiceID,
			AddressID:       decision.AddressID,
			BookingDate:     decision.Date,
			StartTime:       decision.StartTime,
			DurationMinutes: decision.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Subtotal:        decision.Breakdown.SubtotalBeforeFees,
			ServiceFee:      decision.Breakdown.ServiceFee,
			Tax:             decision.Breakdown.Tax,
			Total:           decision.Breakdown.Total,
			DiscountAmount:  decision.DiscountAmount(),
			Notes:           req.Notes,
		}
		if decision.Membership != nil {
			booking.MembershipID = &decision.Membership.MembershipID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Warn("CreateBooking: failed to create booking: %v", err)
			return mapCreateError(err)
		}

		// 2.3. Учет использования клубной карты
		if decision.Membership != nil {
			usage := domain.MembershipUsage{
				MembershipID:   decision.Membership.MembershipID,
				BookingID:      created.ID,
				OriginalAmount: decision.Membership.OriginalTotal,
				DiscountAmount: decision.Membership.DiscountAmount,
			}
			if err := uc.membershipRepo.RecordUsage(txCtx, usage); err != nil {
				uc.logger.Error("CreateBooking: failed to record membership usage: %v", err)
				return mapUsageError(err)
			}
		}

		result = created
		return nil
	})

	// 3. Снимаем удержание после завершения транзакции
	if hold != nil {
		if releaseErr := uc.slotHolder.Release(context.WithoutCancel(ctx), hold); releaseErr != nil {
			uc.logger.Warn("CreateBooking: failed to release hold %s: %v", hold.Key, releaseErr)
		}
	}

	if err != nil {
		return nil, mapTxError(err)
	}

	if uc.metrics != nil {
		uc.metrics.ObserveBookingCreated(result.ServiceID)
		if decision.Membership != nil {
			uc.metrics.ObserveMembershipSaving(decision.Membership.DiscountAmount.InexactFloat64())
		}
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, provider=%d, total=%s",
		result.ID, result.ProviderID, result.Total.StringFixed(2))

	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		ProviderID:      result.ProviderID,
		ServiceID:       result.ServiceID,
		AddressID:       result.AddressID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Subtotal:        result.Subtotal,
		ServiceFee:      result.ServiceFee,
		Tax:             result.Tax,
		Total:           result.Total,
		DiscountAmount:  result.DiscountAmount,
		MembershipID:    result.MembershipID,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// quoteAndHold подбирает исполнителя по заблокированному снимку занятости и удерживает его день.
// Если день исполнителя удерживает другой запрос, исполнитель исключается и подбор повторяется.
func (uc *UseCase) quoteAndHold(ctx context.Context, req *Request) (*models.Decision, *slothold.Hold, error) {
	quoteReq := req.toQuoteRequest()

	for attempt := 1; ; attempt++ {
		decision, err := uc.quoteService.Quote(ctx, quoteReq)
		if err != nil {
			uc.logger.Warn("CreateBooking: quote failed: %v", err)
			return nil, nil, mapQuoteError(err)
		}

		hold, err := uc.slotHolder.Acquire(ctx, decision.ProviderID, decision.Date)
		if err == nil {
			return decision, hold, nil
		}

		if !errors.Is(err, slothold.ErrHeld) {
			// Redis недоступен: продолжаем, источник истины - ограничение в БД
			uc.logger.Warn("CreateBooking: slot hold unavailable, continuing without it: %v", err)
			return decision, nil, nil
		}

		uc.logger.Warn("CreateBooking: provider=%d on %s is held by another request (attempt %d/%d)",
			decision.ProviderID, decision.Date.Format(domain.DateFormat), attempt, maxHoldAttempts)
		if attempt == maxHoldAttempts {
			return nil, nil, ErrSlotNotAvailable
		}
		quoteReq.ExcludeProviderIDs = append(quoteReq.ExcludeProviderIDs, decision.ProviderID)
	}
}
