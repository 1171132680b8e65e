package domain

import "time"

// Provider is a cleaner who can be assigned to bookings
type Provider struct {
	ID          int64
	UserID      int64 // account of the provider, used for access checks
	Name        string
	Priority    int // lower value is offered first
	IsAvailable bool
}

// ProviderCandidate is a provider with its busy intervals for one date.
// Built per request; never persisted.
type ProviderCandidate struct {
	ID   int64
	Busy []Interval
}

// NewProviderCandidate builds a candidate from the provider's bookings around a date.
// Busy intervals are expressed in minutes since midnight of date, so a booking from the
// previous day that runs past midnight becomes an interval with a negative start.
// Cancelled bookings, bookings with unreadable times and bookings that end before date
// starts are skipped.
func NewProviderCandidate(providerID int64, date time.Time, bookings []*Booking) ProviderCandidate {
	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.ProviderID != providerID || !b.IsActive() {
			continue
		}
		interval, err := b.Interval()
		if err != nil {
			continue
		}
		offset := daysBetween(date, b.BookingDate) * MinutesPerDay
		interval = Interval{Start: interval.Start + offset, End: interval.End + offset}
		if interval.End <= 0 {
			continue
		}
		busy = append(busy, interval)
	}
	return ProviderCandidate{ID: providerID, Busy: busy}
}

// daysBetween returns the number of calendar days from `from` to `to`, ignoring time of day
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// IsFreeFor reports whether none of the busy intervals overlaps the requested one
func (c ProviderCandidate) IsFreeFor(requested Interval) bool {
	for _, busy := range c.Busy {
		if busy.Overlaps(requested) {
			return false
		}
	}
	return true
}
