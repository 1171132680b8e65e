package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

// ProviderRepository справочник исполнителей
type ProviderRepository interface {
	ListAvailableForService(ctx context.Context, serviceID int64) ([]*domain.Provider, error)
}

// BookingRepository источник занятых интервалов
type BookingRepository interface {
	GetActiveByProvidersAndDate(ctx context.Context, providerIDs []int64, date time.Time) ([]*domain.Booking, error)
}

// PricingRuleSource источник правил ценообразования
type PricingRuleSource interface {
	GetRuleWithHierarchy(ctx context.Context, serviceID int64) (*domain.PricingRule, error)
	GetAddonsTotal(ctx context.Context, serviceID int64, addonIDs []int64) (decimal.Decimal, error)
}

// MembershipRepository поиск действующей клубной карты
type MembershipRepository interface {
	GetActiveByCustomer(ctx context.Context, customerID int64, now time.Time) (*domain.Membership, error)
}

// PriceEngine расчет цены
type PriceEngine interface {
	ComputePrice(ctx domain.PriceContext) (domain.PriceBreakdown, error)
}

// Metrics доменные метрики подбора и расчета
type Metrics interface {
	ObserveMatch(result string)
	ObserveQuote(withMembership bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
