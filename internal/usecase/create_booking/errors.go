package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrTimeInPast возвращается, когда запрошенное время уже прошло
	ErrTimeInPast = errors.New("create_booking: requested time is in the past")

	// ErrAddonNotFound возвращается, когда дополнительная опция не относится к услуге
	ErrAddonNotFound = errors.New("create_booking: addon not found")

	// ErrNoProviders возвращается, когда услугу не оказывает ни один исполнитель
	ErrNoProviders = errors.New("create_booking: no providers available")

	// ErrSlotNotAvailable возвращается, когда все исполнители заняты в выбранное время
	// или интервал заняли параллельным запросом
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrConflict возвращается при конфликте сериализуемой транзакции, запрос можно повторить
	ErrConflict = errors.New("create_booking: concurrent update, retry the request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
