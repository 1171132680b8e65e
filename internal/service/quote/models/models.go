package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

// QuoteRequest запрос на подбор исполнителя и расчет цены
type QuoteRequest struct {
	CustomerID    int64
	ServiceID     int64
	AddressID     int64
	Date          time.Time        // Дата (без времени)
	StartTime     types.TimeString // Время начала, "HH:MM"
	DurationHours int              // Приводится к [1, 8]
	AddonIDs      []int64
	DistanceKm    float64
	JobsInCart    int // 0 трактуется как 1
	Recurring     *domain.RecurringFrequency
	Notes         *string

	// ExcludeProviderIDs исполнители, которых нельзя выбирать (например, их день удерживает другой запрос)
	ExcludeProviderIDs []int64
}

// BookingRequest доменное представление запроса
func (r *QuoteRequest) BookingRequest() domain.BookingRequest {
	return domain.BookingRequest{
		ServiceID:     r.ServiceID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		DurationHours: r.DurationHours,
		AddressID:     r.AddressID,
		CustomerID:    r.CustomerID,
		Notes:         r.Notes,
	}
}

// MembershipApplication примененная скидка по клубной карте
type MembershipApplication struct {
	MembershipID   int64
	Percentage     decimal.Decimal
	DiscountAmount decimal.Decimal
	OriginalTotal  decimal.Decimal // Итог до скидки
}

// Decision результат: выбранный исполнитель и итоговая цена
type Decision struct {
	ProviderID      int64
	CustomerID      int64
	ServiceID       int64
	AddressID       int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Interval        domain.Interval
	Breakdown       domain.PriceBreakdown
	Membership      *MembershipApplication
}

// DiscountAmount возвращает сумму скидки или ноль
func (d *Decision) DiscountAmount() decimal.Decimal {
	if d.Membership == nil {
		return decimal.Zero
	}
	return d.Membership.DiscountAmount
}
