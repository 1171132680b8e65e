package booking

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда интервал исполнителя уже занят (сработал exclusion constraint)
	ErrSlotTaken = errors.New("booking.repository: provider interval already taken")

	// ErrTransaction возвращается при конфликте сериализации транзакций
	ErrTransaction = errors.New("booking.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrCannotCancel возвращается, когда бронирование уже нельзя отменить
	ErrCannotCancel = errors.New("booking.repository: booking cannot be cancelled")
)

// Коды ошибок PostgreSQL, которые имеют бизнес-смысл
const (
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

// wrapExecError превращает ошибки драйвера в ошибки репозитория
func wrapExecError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return fmt.Errorf("%w: %s: %v", ErrSlotTaken, op, err)
		case pqSerializationFailure:
			return fmt.Errorf("%w: %s: %v", ErrTransaction, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
