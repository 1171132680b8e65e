package create_booking

import (
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/booking"
	membershipRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/membership"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/quote"
	"github.com/m04kA/SMC-InstantBookingService/pkg/txmanager"
)

// validateRequest проверяет обязательные поля до открытия транзакции.
// Полная проверка выполняется сервисом расчета.
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	return nil
}

// mapQuoteError переводит ошибки сервиса расчета в ошибки usecase
func mapQuoteError(err error) error {
	switch {
	case errors.Is(err, quote.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, quote.ErrTimeInPast):
		return fmt.Errorf("%w: %v", ErrTimeInPast, err)
	case errors.Is(err, quote.ErrAddonNotFound):
		return fmt.Errorf("%w: %v", ErrAddonNotFound, err)
	case errors.Is(err, quote.ErrNoCandidates):
		return ErrNoProviders
	case errors.Is(err, quote.ErrNoAvailableSlot):
		return ErrSlotNotAvailable
	case errors.Is(err, quote.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("%w: quote: %v", ErrInternal, err)
	}
}

// mapTxError переводит ошибки менеджера транзакций; ошибки из fn уже переведены
func mapTxError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrCommitTx):
		// На уровне SERIALIZABLE фиксация падает из-за конфликта сериализации
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, txmanager.ErrBeginTx):
		return fmt.Errorf("%w: %v", ErrInternal, err)
	default:
		return err
	}
}

// mapCreateError переводит ошибки записи бронирования в ошибки usecase
func mapCreateError(err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrSlotTaken):
		return ErrSlotNotAvailable
	case errors.Is(err, bookingRepo.ErrTransaction):
		return ErrConflict
	default:
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
}

// mapUsageError переводит ошибки учета клубной карты в ошибки usecase
func mapUsageError(err error) error {
	if errors.Is(err, membershipRepo.ErrTransaction) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return fmt.Errorf("%w: failed to record membership usage: %v", ErrInternal, err)
}
