package matching

import "errors"

var (
	// ErrNoCandidates нет ни одного исполнителя, предлагающего услугу
	ErrNoCandidates = errors.New("matching: no providers available")
	// ErrNoAvailableSlot исполнители есть, но все заняты в запрошенный интервал
	ErrNoAvailableSlot = errors.New("matching: no provider is free for the requested interval")
)
