package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/matching"
	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

const defaultStepMinutes = 30

// generateStarts генерирует начала слотов с начала рабочего дня с фиксированным шагом.
// Слот должен целиком помещаться в рабочий день.
// Для сегодняшней даты отбрасываются слоты, которые уже начались.
func generateStarts(settings Settings, durationMinutes int, requestDate, now time.Time) []int {
	starts := make([]int, 0)

	minStart := settings.WorkdayStart
	if isSameDay(requestDate, now) {
		nowMinutes := now.Hour()*domain.MinutesPerHour + now.Minute()
		if nowMinutes > minStart {
			minStart = nowMinutes
		}
	}

	step := settings.StepMinutes
	if step <= 0 {
		step = defaultStepMinutes
	}

	for start := settings.WorkdayStart; start+durationMinutes <= settings.WorkdayEnd; start += step {
		if start < minStart {
			continue
		}
		starts = append(starts, start)
	}

	return starts
}

// buildSlots вычисляет количество свободных исполнителей для каждого слота.
// Интервалы полуоткрытые: бронирование, которое заканчивается ровно в начале слота, его не занимает.
func buildSlots(starts []int, durationMinutes int, candidates []domain.ProviderCandidate) ([]Slot, error) {
	result := make([]Slot, 0, len(starts))

	for _, start := range starts {
		startTime, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}

		requested := domain.Interval{Start: start, End: start + durationMinutes}
		result = append(result, Slot{
			StartTime:          startTime,
			DurationMinutes:    durationMinutes,
			AvailableProviders: matching.CountFree(candidates, requested),
			TotalProviders:     len(candidates),
		})
	}

	return result, nil
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
