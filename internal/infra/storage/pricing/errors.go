package pricing

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило ценообразования не найдено ни на одном уровне
	ErrRuleNotFound = errors.New("pricing.repository: pricing rule not found")

	// ErrAddonNotFound возвращается, когда хотя бы одна из дополнительных опций не найдена для услуги
	ErrAddonNotFound = errors.New("pricing.repository: addon not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("pricing.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("pricing.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("pricing.repository: failed to scan row")
)
