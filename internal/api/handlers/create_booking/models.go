package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-InstantBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid booking date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateBookingRequest HTTP request model
// ID клиента берется из заголовка X-User-ID
type CreateBookingRequest struct {
	ServiceID     int64   `json:"serviceId" validate:"required,gt=0"`
	AddressID     int64   `json:"addressId" validate:"required,gt=0"`
	BookingDate   string  `json:"bookingDate" validate:"required"` // "2025-10-15"
	StartTime     string  `json:"startTime" validate:"required"`   // "10:00"
	DurationHours int     `json:"durationHours"`                   // приводится к [1, 8]
	AddonIDs      []int64 `json:"addonIds,omitempty" validate:"max=20,dive,gt=0"`
	DistanceKm    float64 `json:"distanceKm" validate:"gte=0"`
	JobsInCart    int     `json:"jobsInCart" validate:"gte=0"`
	Recurring     *string `json:"recurring,omitempty" validate:"omitempty,oneof=weekly biweekly monthly"`
	Notes         *string `json:"notes,omitempty"`
}

// PriceResponse снимок цены
type PriceResponse struct {
	Subtotal       string `json:"subtotal"`
	ServiceFee     string `json:"serviceFee"`
	Tax            string `json:"tax"`
	Total          string `json:"total"`
	DiscountAmount string `json:"discountAmount"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customerId"`
	ProviderID      int64         `json:"providerId"`
	ServiceID       int64         `json:"serviceId"`
	AddressID       int64         `json:"addressId"`
	BookingDate     string        `json:"bookingDate"`
	StartTime       string        `json:"startTime"`
	DurationMinutes int           `json:"durationMinutes"`
	Status          string        `json:"status"`
	Price           PriceResponse `json:"price"`
	MembershipID    *int64        `json:"membershipId,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	var recurring *domain.RecurringFrequency
	if r.Recurring != nil {
		freq := domain.RecurringFrequency(*r.Recurring)
		recurring = &freq
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		ServiceID:     r.ServiceID,
		AddressID:     r.AddressID,
		Date:          bookingDate,
		StartTime:     startTime,
		DurationHours: r.DurationHours,
		AddonIDs:      r.AddonIDs,
		DistanceKm:    r.DistanceKm,
		JobsInCart:    r.JobsInCart,
		Recurring:     recurring,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		ProviderID:      resp.ProviderID,
		ServiceID:       resp.ServiceID,
		AddressID:       resp.AddressID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Price: PriceResponse{
			Subtotal:       resp.Subtotal.StringFixed(2),
			ServiceFee:     resp.ServiceFee.StringFixed(2),
			Tax:            resp.Tax.StringFixed(2),
			Total:          resp.Total.StringFixed(2),
			DiscountAmount: resp.DiscountAmount.StringFixed(2),
		},
		MembershipID: resp.MembershipID,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
