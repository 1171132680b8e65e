package domain

// Booking duration limits (hours)
const (
	MinDurationHours = 1
	MaxDurationHours = 8
)

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxAddonsPerBooking         = 20
	MaxJobsInCart               = 50
)

// Membership discount adjustment uses fixed rates, independent of the pricing rule
// the quote was computed with.
const (
	MembershipServiceFeeRate = "0.10"
	MembershipTaxRate        = "0.13"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, которые не занимают время исполнителя
// Используется для фильтрации при построении занятых интервалов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByCustomer,
	StatusCancelledByProvider,
}

// ActiveStatuses список статусов активных бронирований
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusNoShow,
}
