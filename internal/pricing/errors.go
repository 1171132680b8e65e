package pricing

import "errors"

var (
	// ErrValidation некорректные входные данные для расчета цены
	ErrValidation = errors.New("pricing: validation error")
)
