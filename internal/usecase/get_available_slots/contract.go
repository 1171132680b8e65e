package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

// ProviderRepository справочник исполнителей
type ProviderRepository interface {
	ListAvailableForService(ctx context.Context, serviceID int64) ([]*domain.Provider, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveByProvidersAndDate получает бронирования исполнителей на дату, занимающие их время
	GetActiveByProvidersAndDate(ctx context.Context, providerIDs []int64, date time.Time) ([]*domain.Booking, error)
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
