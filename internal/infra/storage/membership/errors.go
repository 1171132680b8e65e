package membership

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrMembershipNotFound возвращается, когда у клиента нет действующей карты
	ErrMembershipNotFound = errors.New("membership.repository: membership not found")

	// ErrTransaction возвращается при конфликте сериализации транзакций
	ErrTransaction = errors.New("membership.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("membership.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("membership.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("membership.repository: failed to scan row")
)

const pqSerializationFailure = "40001"

// wrapError превращает ошибки драйвера в ошибки репозитория.
// Конфликт сериализации отделяется от прочих ошибок: запрос можно повторить.
func wrapError(sentinel error, op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqSerializationFailure {
		return fmt.Errorf("%w: %s: %v", ErrTransaction, op, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, op, err)
}
