package cancel_booking

import (
	"github.com/m04kA/SMC-InstantBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
// Кто отменяет, определяется по заголовку X-User-ID
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
	}
}
