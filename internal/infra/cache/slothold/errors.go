package slothold

import "errors"

var (
	// ErrHeld возвращается, когда расписание исполнителя на дату уже удерживается другим запросом
	ErrHeld = errors.New("slothold: provider schedule is held by another request")

	// ErrRedis возвращается при ошибках обращения к Redis
	ErrRedis = errors.New("slothold: redis error")
)
