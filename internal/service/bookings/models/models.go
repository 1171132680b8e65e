package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetCustomerBookingsRequest запрос на получение истории бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// Response модели

// PriceResponse снимок цены бронирования, суммы с двумя знаками после запятой
type PriceResponse struct {
	Subtotal       string `json:"subtotal"`
	ServiceFee     string `json:"serviceFee"`
	Tax            string `json:"tax"`
	Total          string `json:"total"`
	DiscountAmount string `json:"discountAmount"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customerId"`
	ProviderID      int64         `json:"providerId"`
	ServiceID       int64         `json:"serviceId"`
	AddressID       int64         `json:"addressId"`
	BookingDate     string        `json:"bookingDate"` // "2025-10-15"
	StartTime       string        `json:"startTime"`   // "10:00"
	DurationMinutes int           `json:"durationMinutes"`
	Status          string        `json:"status"`
	Price           PriceResponse `json:"price"`
	MembershipID    *int64        `json:"membershipId,omitempty"`
	Notes           *string       `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ProviderID:      b.ProviderID,
		ServiceID:       b.ServiceID,
		AddressID:       b.AddressID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Price: PriceResponse{
			Subtotal:       b.Subtotal.StringFixed(2),
			ServiceFee:     b.ServiceFee.StringFixed(2),
			Tax:            b.Tax.StringFixed(2),
			Total:          b.Total.StringFixed(2),
			DiscountAmount: b.DiscountAmount.StringFixed(2),
		},
		MembershipID:       b.MembershipID,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByCustomer,
		domain.StatusCancelledByProvider,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
