package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

// Request модель запроса на мгновенное бронирование
type Request struct {
	CustomerID    int64            // ID клиента
	ServiceID     int64            // ID услуги
	AddressID     int64            // ID адреса клиента
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала (например, "10:00")
	DurationHours int              // Длительность в часах, приводится к [1, 8]
	AddonIDs      []int64          // Дополнительные опции
	DistanceKm    float64          // Расстояние до адреса
	JobsInCart    int              // Количество заказов в корзине
	Recurring     *domain.RecurringFrequency
	Notes         *string // Дополнительные заметки (опционально)
}

func (r *Request) toQuoteRequest() *models.QuoteRequest {
	return &models.QuoteRequest{
		CustomerID:    r.CustomerID,
		ServiceID:     r.ServiceID,
		AddressID:     r.AddressID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		DurationHours: r.DurationHours,
		AddonIDs:      r.AddonIDs,
		DistanceKm:    r.DistanceKm,
		JobsInCart:    r.JobsInCart,
		Recurring:     r.Recurring,
		Notes:         r.Notes,
	}
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	CustomerID      int64
	ProviderID      int64
	ServiceID       int64
	AddressID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	// Снимок цены на момент бронирования
	Subtotal       decimal.Decimal
	ServiceFee     decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	DiscountAmount decimal.Decimal
	MembershipID   *int64
	Notes          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
