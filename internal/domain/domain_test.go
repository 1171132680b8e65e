package domain

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InstantBookingService/pkg/ptr"
)

func TestInterval_OverlapsHalfOpen(t *testing.T) {
	assert.False(t, Interval{0, 60}.Overlaps(Interval{60, 120}))
	assert.True(t, Interval{0, 61}.Overlaps(Interval{60, 120}))
	assert.True(t, Interval{540, 660}.Overlaps(Interval{600, 720}))
	assert.True(t, Interval{0, 1500}.Overlaps(Interval{1430, 1440}))
}

func TestInterval_OverlapsIsSymmetric(t *testing.T) {
	intervals := []Interval{
		{0, 60}, {30, 90}, {60, 120}, {0, 1440}, {1400, 1500}, {540, 660}, {600, 720}, {59, 61},
	}
	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "a=%s b=%s", a, b)
		}
	}
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(60, 60)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	i, err := NewInterval(1380, 1500)
	require.NoError(t, err)
	assert.Equal(t, 120, i.DurationMinutes())
}

func TestClampDurationHours(t *testing.T) {
	assert.Equal(t, 1, ClampDurationHours(0))
	assert.Equal(t, 1, ClampDurationHours(-3))
	assert.Equal(t, 4, ClampDurationHours(4))
	assert.Equal(t, 8, ClampDurationHours(10))
}

func TestBookingRequest_RequestedIntervalClampsDuration(t *testing.T) {
	req := BookingRequest{StartTime: "09:00", DurationHours: 10}

	interval, err := req.RequestedInterval()
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 540, End: 540 + 480}, interval)
}

func TestNewProviderCandidate_SkipsCancelledAndForeignBookings(t *testing.T) {
	bookings := []*Booking{
		{ProviderID: 1, StartTime: "10:00", DurationMinutes: 120, Status: StatusConfirmed},
		{ProviderID: 1, StartTime: "14:00", DurationMinutes: 60, Status: StatusCancelledByCustomer},
		{ProviderID: 2, StartTime: "08:00", DurationMinutes: 60, Status: StatusConfirmed},
		{ProviderID: 1, StartTime: "bad", DurationMinutes: 60, Status: StatusPending},
	}

	c := NewProviderCandidate(1, time.Time{}, bookings)

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, []Interval{{600, 720}}, c.Busy)
	assert.False(t, c.IsFreeFor(Interval{540, 660}))
	assert.True(t, c.IsFreeFor(Interval{720, 780}))
}

func TestNewProviderCandidate_ShiftsBookingsFromPreviousDay(t *testing.T) {
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	prev := date.AddDate(0, 0, -1)

	bookings := []*Booking{
		// 22:00 накануне на 4 часа, до 02:00
		{ProviderID: 1, BookingDate: prev, StartTime: "22:00", DurationMinutes: 240, Status: StatusConfirmed},
		// закончилась до полуночи
		{ProviderID: 1, BookingDate: prev, StartTime: "10:00", DurationMinutes: 120, Status: StatusConfirmed},
		// заканчивается ровно в полночь
		{ProviderID: 1, BookingDate: prev, StartTime: "20:00", DurationMinutes: 240, Status: StatusConfirmed},
		{ProviderID: 1, BookingDate: date, StartTime: "09:00", DurationMinutes: 60, Status: StatusPending},
	}

	c := NewProviderCandidate(1, date, bookings)

	assert.Equal(t, []Interval{{-120, 120}, {540, 600}}, c.Busy)
	assert.False(t, c.IsFreeFor(Interval{60, 180}))
	assert.True(t, c.IsFreeFor(Interval{120, 180}))
}

func TestPriceContext_ValidateReportsFirstNonFiniteField(t *testing.T) {
	c := PriceContext{
		BasePrice:     math.NaN(),
		DemandIndex:   1,
		DistanceKm:    math.Inf(1),
		Month:         time.June,
		JobsInCart:    1,
		ServiceFeePct: math.NaN(),
	}

	for i := 0; i < 20; i++ {
		err := c.Validate()
		require.ErrorIs(t, err, ErrInvalidPriceContext)
		assert.Contains(t, err.Error(), "basePrice is not a finite number")
	}
}

func TestPriceContext_Validate(t *testing.T) {
	valid := PriceContext{
		BasePrice:     100,
		DemandIndex:   1,
		Month:         time.June,
		LeadHours:     48,
		JobsInCart:    1,
		ServiceFeePct: 0.1,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *PriceContext)
	}{
		{"negative base price", func(c *PriceContext) { c.BasePrice = -1 }},
		{"fee above one", func(c *PriceContext) { c.ServiceFeePct = 1.5 }},
		{"negative fee", func(c *PriceContext) { c.ServiceFeePct = -0.1 }},
		{"nan base price", func(c *PriceContext) { c.BasePrice = math.NaN() }},
		{"infinite distance", func(c *PriceContext) { c.DistanceKm = math.Inf(1) }},
		{"month zero", func(c *PriceContext) { c.Month = 0 }},
		{"empty cart", func(c *PriceContext) { c.JobsInCart = 0 }},
		{"utilization above one", func(c *PriceContext) { c.Utilization = 1.2 }},
		{"unknown recurring", func(c *PriceContext) { c.Recurring = &RecurringDiscount{Frequency: "daily"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidPriceContext)
		})
	}
}

func TestMembership_IsUsableAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	base := Membership{
		DiscountPercentage: decimal.NewFromInt(20),
		Status:             MembershipActive,
		ActivatedAt:        ptr.Ptr(now.AddDate(0, -1, 0)),
		ExpiresAt:          ptr.Ptr(now.AddDate(0, 1, 0)),
	}
	assert.True(t, base.IsUsableAt(now))

	notActivated := base
	notActivated.ActivatedAt = nil
	assert.False(t, notActivated.IsUsableAt(now))

	expired := base
	expired.ExpiresAt = ptr.Ptr(now)
	assert.False(t, expired.IsUsableAt(now))

	suspended := base
	suspended.Status = MembershipSuspended
	assert.False(t, suspended.IsUsableAt(now))

	zero := base
	zero.DiscountPercentage = decimal.Zero
	assert.False(t, zero.IsUsableAt(now))
}
