package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByCustomer BookingStatus = "cancelled_by_customer"
	StatusCancelledByProvider BookingStatus = "cancelled_by_provider"
	StatusNoShow              BookingStatus = "no_show"
)

// Booking represents a cleaning job assigned to a provider
type Booking struct {
	ID              int64
	CustomerID      int64
	ProviderID      int64
	ServiceID       int64
	AddressID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Price snapshot at booking time
	Subtotal       decimal.Decimal
	ServiceFee     decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	DiscountAmount decimal.Decimal
	MembershipID   *int64
	Notes          *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the provider's time
func (b *Booking) IsActive() bool {
	return !b.IsCancelled()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled by either side
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByCustomer || b.Status == StatusCancelledByProvider
}

// Interval returns the busy interval occupied by the booking
func (b *Booking) Interval() (Interval, error) {
	start, err := b.StartTime.Minutes()
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(start, start+b.DurationMinutes)
}

// Breakdown returns the stored price snapshot
func (b *Booking) Breakdown() PriceBreakdown {
	return PriceBreakdown{
		SubtotalBeforeFees: b.Subtotal,
		ServiceFee:         b.ServiceFee,
		Tax:                b.Tax,
		Total:              b.Total,
	}
}

// BookingRequest is an instant booking request as received from the customer
type BookingRequest struct {
	ServiceID     int64
	Date          time.Time
	StartTime     types.TimeString
	DurationHours int
	AddressID     int64
	CustomerID    int64
	Notes         *string
}

// ClampDurationHours limits a requested duration to [MinDurationHours, MaxDurationHours]
func ClampDurationHours(hours int) int {
	if hours < MinDurationHours {
		return MinDurationHours
	}
	if hours > MaxDurationHours {
		return MaxDurationHours
	}
	return hours
}

// RequestedInterval clamps the duration and derives the interval the booking would occupy
func (r BookingRequest) RequestedInterval() (Interval, error) {
	start, err := r.StartTime.Minutes()
	if err != nil {
		return Interval{}, err
	}
	hours := ClampDurationHours(r.DurationHours)
	return NewInterval(start, start+hours*MinutesPerHour)
}
