package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned when an interval has a negative start or a non-positive length.
var ErrInvalidInterval = errors.New("domain: invalid interval")

// Interval is a half-open time range [Start, End) in minutes since midnight.
// End may exceed MinutesPerDay for ranges that cross midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval validates and builds an Interval.
func NewInterval(start, end int) (Interval, error) {
	if start < 0 || end <= start {
		return Interval{}, fmt.Errorf("%w: [%d, %d)", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two intervals share at least one minute.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// DurationMinutes returns the interval length.
func (i Interval) DurationMinutes() int {
	return i.End - i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d)", i.Start, i.End)
}
