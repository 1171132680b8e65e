package quote

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/booking"
	membershipRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/membership"
	pricingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/pricing"
	"github.com/m04kA/SMC-InstantBookingService/internal/matching"
	"github.com/m04kA/SMC-InstantBookingService/internal/pricing"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
)

// Defaults значения, используемые когда для услуги нет правила ценообразования
type Defaults struct {
	HourlyPrice   decimal.Decimal
	ServiceFeePct decimal.Decimal
	DemandIndex   decimal.Decimal
}

// Service подбирает исполнителя и рассчитывает цену.
// Ничего не записывает: при вызове внутри транзакции занятые интервалы читаются с блокировкой.
type Service struct {
	providerRepo   ProviderRepository
	bookingRepo    BookingRepository
	pricingRepo    PricingRuleSource
	membershipRepo MembershipRepository
	engine         PriceEngine
	defaults       Defaults
	location       *time.Location
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса расчета
func NewService(
	providerRepo ProviderRepository,
	bookingRepo BookingRepository,
	pricingRepo PricingRuleSource,
	membershipRepo MembershipRepository,
	engine PriceEngine,
	defaults Defaults,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		providerRepo:   providerRepo,
		bookingRepo:    bookingRepo,
		pricingRepo:    pricingRepo,
		membershipRepo: membershipRepo,
		engine:         engine,
		defaults:       defaults,
		location:       location,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Quote подбирает свободного исполнителя и рассчитывает итоговую цену с учетом клубной карты
func (s *Service) Quote(ctx context.Context, req *models.QuoteRequest) (*models.Decision, error) {
	s.logger.Info("Quote: customer=%d, service=%d, date=%s, time=%s, hours=%d",
		req.CustomerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		s.logger.Warn("Quote: validation failed: %v", err)
		return nil, err
	}

	// 2. Запрошенный интервал (длительность приводится к [1, 8] часам)
	requested, err := req.BookingRequest().RequestedInterval()
	if err != nil {
		s.logger.Warn("Quote: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Нельзя бронировать прошедшие дату и время
	now := s.timeProvider.Now().In(s.location)
	if err := validateNotInPast(req.Date, requested.Start, now); err != nil {
		s.logger.Warn("Quote: %v", err)
		return nil, err
	}

	// 4. Кандидаты в порядке приоритета и их занятость на дату
	candidates, err := s.loadCandidates(ctx, req.ServiceID, req.Date)
	if err != nil {
		return nil, err
	}
	excludeProviders(candidates, req.ExcludeProviderIDs, requested)

	// 5. Подбор исполнителя
	providerID, err := matching.FindAvailableProvider(candidates, requested)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrNoCandidates):
			s.observeMatch(MatchResultNoCandidates)
			s.logger.Warn("Quote: no providers for service=%d", req.ServiceID)
		case errors.Is(err, matching.ErrNoAvailableSlot):
			s.observeMatch(MatchResultNoSlot)
			s.logger.Warn("Quote: all %d providers busy for %s on %s",
				len(candidates), requested, req.Date.Format(domain.DateFormat))
		}
		return nil, err
	}
	s.observeMatch(MatchResultMatched)

	// 6. Контекст ценообразования
	priceCtx, err := s.buildPriceContext(ctx, req, candidates, requested, now)
	if err != nil {
		return nil, err
	}

	// 7. Расчет цены
	breakdown, err := s.engine.ComputePrice(priceCtx)
	if err != nil {
		if errors.Is(err, pricing.ErrValidation) {
			s.logger.Warn("Quote: price context rejected: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("Quote: failed to compute price: %v", err)
		return nil, fmt.Errorf("%w: failed to compute price: %v", ErrInternal, err)
	}

	decision := &models.Decision{
		ProviderID:      providerID,
		CustomerID:      req.CustomerID,
		ServiceID:       req.ServiceID,
		AddressID:       req.AddressID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: requested.DurationMinutes(),
		Interval:        requested,
		Breakdown:       breakdown,
	}

	// 8. Скидка по клубной карте
	if err := s.applyMembership(ctx, decision, now); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveQuote(decision.Membership != nil)
	}

	s.logger.Info("Quote: provider=%d, total=%s, discount=%s",
		decision.ProviderID, decision.Breakdown.Total.StringFixed(2), decision.DiscountAmount().StringFixed(2))

	return decision, nil
}

// loadCandidates строит кандидатов из активных бронирований исполнителей на дату
func (s *Service) loadCandidates(ctx context.Context, serviceID int64, date time.Time) ([]domain.ProviderCandidate, error) {
	providers, err := s.providerRepo.ListAvailableForService(ctx, serviceID)
	if err != nil {
		s.logger.Error("Quote: failed to list providers for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	if len(providers) == 0 {
		return []domain.ProviderCandidate{}, nil
	}

	ids := make([]int64, len(providers))
	for i, p := range providers {
		ids[i] = p.ID
	}

	bookings, err := s.bookingRepo.GetActiveByProvidersAndDate(ctx, ids, date)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrTransaction) {
			s.logger.Warn("Quote: serialization conflict while reading bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrConflict, err)
		}
		s.logger.Error("Quote: failed to get bookings for %d providers: %v", len(ids), err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	byProvider := make(map[int64][]*domain.Booking, len(providers))
	for _, b := range bookings {
		byProvider[b.ProviderID] = append(byProvider[b.ProviderID], b)
	}

	// Порядок кандидатов совпадает с порядком исполнителей из справочника
	candidates := make([]domain.ProviderCandidate, len(providers))
	for i, p := range providers {
		candidates[i] = domain.NewProviderCandidate(p.ID, date, byProvider[p.ID])
	}

	return candidates, nil
}

// excludeProviders помечает исключенных исполнителей занятыми на весь запрошенный интервал.
// Для подбора они перестают быть свободными, для загрузки считаются занятыми.
func excludeProviders(candidates []domain.ProviderCandidate, excluded []int64, requested domain.Interval) {
	if len(excluded) == 0 {
		return
	}
	for i := range candidates {
		if slices.Contains(excluded, candidates[i].ID) {
			candidates[i].Busy = append(candidates[i].Busy, requested)
		}
	}
}

// buildPriceContext собирает входные данные для расчета цены
func (s *Service) buildPriceContext(
	ctx context.Context,
	req *models.QuoteRequest,
	candidates []domain.ProviderCandidate,
	requested domain.Interval,
	now time.Time,
) (domain.PriceContext, error) {
	rule, err := s.pricingRepo.GetRuleWithHierarchy(ctx, req.ServiceID)
	if err != nil && !errors.Is(err, pricingRepo.ErrRuleNotFound) {
		s.logger.Error("Quote: failed to get pricing rule for service=%d: %v", req.ServiceID, err)
		return domain.PriceContext{}, fmt.Errorf("%w: failed to get pricing rule: %v", ErrInternal, err)
	}

	// Если правило не найдено, используем значения по умолчанию
	if rule == nil {
		rule = &domain.PricingRule{
			BasePrice:     s.defaults.HourlyPrice,
			ServiceFeePct: s.defaults.ServiceFeePct,
			DemandIndex:   s.defaults.DemandIndex,
		}
		s.logger.Info("Quote: using default pricing for service=%d", req.ServiceID)
	}

	addonsTotal, err := s.pricingRepo.GetAddonsTotal(ctx, req.ServiceID, req.AddonIDs)
	if err != nil {
		if errors.Is(err, pricingRepo.ErrAddonNotFound) {
			s.logger.Warn("Quote: unknown addons %v for service=%d", req.AddonIDs, req.ServiceID)
			return domain.PriceContext{}, fmt.Errorf("%w: %v", ErrAddonNotFound, err)
		}
		s.logger.Error("Quote: failed to get addons for service=%d: %v", req.ServiceID, err)
		return domain.PriceContext{}, fmt.Errorf("%w: failed to get addons: %v", ErrInternal, err)
	}

	// Цена правила указана за час работы
	hours := decimal.NewFromInt(int64(requested.DurationMinutes() / domain.MinutesPerHour))
	basePrice := rule.BasePrice.Mul(hours)

	start := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, s.location).
		Add(time.Duration(requested.Start) * time.Minute)
	leadHours := start.Sub(now).Hours()
	if leadHours < 0 {
		leadHours = 0
	}

	jobs := req.JobsInCart
	if jobs == 0 {
		jobs = 1
	}

	var recurring *domain.RecurringDiscount
	if req.Recurring != nil {
		recurring = &domain.RecurringDiscount{Frequency: *req.Recurring}
	}

	return domain.PriceContext{
		BasePrice:     basePrice.InexactFloat64(),
		AddonsTotal:   addonsTotal.InexactFloat64(),
		DemandIndex:   rule.DemandIndex.InexactFloat64(),
		Utilization:   matching.Utilization(candidates, requested),
		DistanceKm:    req.DistanceKm,
		Month:         req.Date.Month(),
		LeadHours:     leadHours,
		JobsInCart:    jobs,
		Recurring:     recurring,
		ServiceFeePct: rule.ServiceFeePct.InexactFloat64(),
	}, nil
}

// applyMembership применяет скидку по действующей клубной карте клиента, если она есть
func (s *Service) applyMembership(ctx context.Context, decision *models.Decision, now time.Time) error {
	membership, err := s.membershipRepo.GetActiveByCustomer(ctx, decision.CustomerID, now)
	if err != nil {
		if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
			return nil
		}
		if errors.Is(err, membershipRepo.ErrTransaction) {
			s.logger.Warn("Quote: serialization conflict while reading membership: %v", err)
			return fmt.Errorf("%w: failed to get membership: %v", ErrConflict, err)
		}
		s.logger.Error("Quote: failed to get membership for customer=%d: %v", decision.CustomerID, err)
		return fmt.Errorf("%w: failed to get membership: %v", ErrInternal, err)
	}

	if !membership.IsUsableAt(now) {
		s.logger.Info("Quote: membership id=%d is not usable, skipping discount", membership.ID)
		return nil
	}

	original := decision.Breakdown
	discounted, discount, err := pricing.ApplyMembershipDiscount(original, membership.DiscountPercentage.InexactFloat64())
	if err != nil {
		// Некорректный процент в карте не должен блокировать бронирование
		s.logger.Warn("Quote: membership id=%d discount rejected: %v", membership.ID, err)
		return nil
	}

	// Скидка пересчитывается от промежуточной суммы по фиксированным ставкам сбора и налога.
	// Если ставки правила ниже, итог со скидкой может оказаться выше исходного: тогда скидку не применяем
	if discounted.Total.GreaterThan(original.Total) {
		s.logger.Warn("Quote: membership id=%d would raise total from %s to %s, skipping discount",
			membership.ID, original.Total.StringFixed(2), discounted.Total.StringFixed(2))
		return nil
	}

	decision.Breakdown = discounted
	decision.Membership = &models.MembershipApplication{
		MembershipID:   membership.ID,
		Percentage:     membership.DiscountPercentage,
		DiscountAmount: discount,
		OriginalTotal:  original.Total,
	}

	s.logger.Info("Quote: applied membership id=%d (%s%%), discount=%s",
		membership.ID, membership.DiscountPercentage.String(), discount.StringFixed(2))

	return nil
}

func (s *Service) observeMatch(result string) {
	if s.metrics != nil {
		s.metrics.ObserveMatch(result)
	}
}
