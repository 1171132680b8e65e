package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

// UseCase use case для получения доступных слотов по услуге
type UseCase struct {
	providerRepo ProviderRepository
	bookingRepo  BookingRepository
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	providerRepo ProviderRepository,
	bookingRepo BookingRepository,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &UseCase{
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Слот доступен, если хотя бы один исполнитель услуги свободен весь интервал.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s, duration=%dh",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в часовом поясе сервиса
	now := uc.timeProvider.Now().In(uc.settings.Location)

	// 3. Валидация даты с учетом горизонта бронирования
	if err := validateDate(req.Date, now, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	durationMinutes := domain.ClampDurationHours(req.DurationHours) * domain.MinutesPerHour

	response := &Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: durationMinutes,
		Slots:           []Slot{},
	}

	// 4. Исполнители услуги
	providers, err := uc.providerRepo.ListAvailableForService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list providers for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	if len(providers) == 0 {
		uc.logger.Info("GetAvailableSlots: no providers for service=%d", req.ServiceID)
		return response, nil
	}

	// 5. Занятость исполнителей на дату
	ids := make([]int64, len(providers))
	for i, p := range providers {
		ids[i] = p.ID
	}

	bookings, err := uc.bookingRepo.GetActiveByProvidersAndDate(ctx, ids, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	byProvider := make(map[int64][]*domain.Booking, len(providers))
	for _, b := range bookings {
		byProvider[b.ProviderID] = append(byProvider[b.ProviderID], b)
	}

	candidates := make([]domain.ProviderCandidate, len(providers))
	for i, p := range providers {
		candidates[i] = domain.NewProviderCandidate(p.ID, req.Date, byProvider[p.ID])
	}

	// 6. Сетка слотов и свободные исполнители в каждом
	starts := generateStarts(uc.settings, durationMinutes, req.Date, now)

	slots, err := buildSlots(starts, durationMinutes, candidates)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
	}
	response.Slots = slots

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s, providers=%d",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat), len(providers))

	return response, nil
}
