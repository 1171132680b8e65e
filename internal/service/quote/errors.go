package quote

import (
	"errors"

	"github.com/m04kA/SMC-InstantBookingService/internal/matching"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("quote: invalid input data")

	// ErrTimeInPast возвращается, когда запрошенные дата или время уже прошли
	ErrTimeInPast = errors.New("quote: requested time is in the past")

	// ErrAddonNotFound возвращается, когда дополнительная опция не относится к услуге
	ErrAddonNotFound = errors.New("quote: addon not found")

	// ErrNoCandidates нет исполнителей, оказывающих услугу
	ErrNoCandidates = matching.ErrNoCandidates

	// ErrNoAvailableSlot все исполнители заняты в запрошенный интервал
	ErrNoAvailableSlot = matching.ErrNoAvailableSlot

	// ErrConflict возвращается при конфликте сериализации с параллельной транзакцией, запрос можно повторить
	ErrConflict = errors.New("quote: concurrent transaction conflict")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("quote: internal error")
)

// Результаты подбора для метрик
const (
	MatchResultMatched      = "matched"
	MatchResultNoCandidates = "no_candidates"
	MatchResultNoSlot       = "no_slot"
)
