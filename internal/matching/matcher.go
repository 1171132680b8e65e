package matching

import (
	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

// FindAvailableProvider returns the first candidate, in the given order, whose busy
// intervals do not overlap the requested one. The order is the tie-break.
// Candidates must already exclude cancelled bookings and the requested interval
// must be built from a clamped duration.
func FindAvailableProvider(candidates []domain.ProviderCandidate, requested domain.Interval) (int64, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	for _, c := range candidates {
		if c.IsFreeFor(requested) {
			return c.ID, nil
		}
	}

	return 0, ErrNoAvailableSlot
}

// Utilization returns the share of candidates that are busy during the requested interval.
// Zero candidates yield zero.
func Utilization(candidates []domain.ProviderCandidate, requested domain.Interval) float64 {
	if len(candidates) == 0 {
		return 0
	}

	busy := 0
	for _, c := range candidates {
		if !c.IsFreeFor(requested) {
			busy++
		}
	}

	return float64(busy) / float64(len(candidates))
}

// CountFree returns how many candidates could take the requested interval
func CountFree(candidates []domain.ProviderCandidate, requested domain.Interval) int {
	free := 0
	for _, c := range candidates {
		if c.IsFreeFor(requested) {
			free++
		}
	}
	return free
}
