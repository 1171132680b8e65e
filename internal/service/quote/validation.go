package quote

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote/models"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *models.QuoteRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.AddressID <= 0 {
		return fmt.Errorf("%w: addressID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if len(req.AddonIDs) > domain.MaxAddonsPerBooking {
		return fmt.Errorf("%w: at most %d addons allowed", ErrInvalidInput, domain.MaxAddonsPerBooking)
	}
	for _, id := range req.AddonIDs {
		if id <= 0 {
			return fmt.Errorf("%w: addon id must be positive", ErrInvalidInput)
		}
	}

	if math.IsNaN(req.DistanceKm) || math.IsInf(req.DistanceKm, 0) || req.DistanceKm < 0 {
		return fmt.Errorf("%w: distanceKm must be a non-negative number", ErrInvalidInput)
	}

	if req.JobsInCart < 0 || req.JobsInCart > domain.MaxJobsInCart {
		return fmt.Errorf("%w: jobsInCart must be within [1, %d]", ErrInvalidInput, domain.MaxJobsInCart)
	}

	if req.Recurring != nil && !req.Recurring.IsValid() {
		return fmt.Errorf("%w: unknown recurring frequency %q", ErrInvalidInput, *req.Recurring)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast отклоняет прошедшие даты и, для сегодняшней даты, время начала раньше текущего.
// now должен быть в часовом поясе сервиса.
func validateNotInPast(date time.Time, startMinutes int, now time.Time) error {
	if isDateInPast(date, now) {
		return fmt.Errorf("%w: date %s", ErrTimeInPast, date.Format(domain.DateFormat))
	}

	if !isSameDay(date, now) {
		return nil
	}

	nowMinutes := now.Hour()*domain.MinutesPerHour + now.Minute()
	if startMinutes < nowMinutes {
		return fmt.Errorf("%w: start %02d:%02d is earlier than now", ErrTimeInPast,
			startMinutes/domain.MinutesPerHour, startMinutes%domain.MinutesPerHour)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Сравниваем только календарные даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
