package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-InstantBookingService/pkg/logger"
	"github.com/m04kA/SMC-InstantBookingService/pkg/ptr"
)

const (
	customerUserID = int64(100)
	providerUserID = int64(500)
	strangerUserID = int64(999)
)

type fakeBookingRepo struct {
	bookings  map[int64]*domain.Booking
	getErr    error
	cancelErr error

	cancelledID     int64
	cancelledStatus domain.BookingStatus
	cancelledReason *string
	listStatus      *domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.listStatus = status
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason *string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelledID = id
	f.cancelledStatus = status
	f.cancelledReason = reason
	return nil
}

type fakeProviderRepo struct {
	providers map[int64]*domain.Provider
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id int64) (*domain.Provider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	return p, nil
}

func newTestService(status domain.BookingStatus) (*Service, *fakeBookingRepo) {
	cancelledAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID:              1,
		CustomerID:      customerUserID,
		ProviderID:      7,
		ServiceID:       5,
		AddressID:       9,
		BookingDate:     time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		DurationMinutes: 120,
		Status:          status,
		Subtotal:        decimal.RequireFromString("100"),
		ServiceFee:      decimal.RequireFromString("10"),
		Tax:             decimal.RequireFromString("14.3"),
		Total:           decimal.RequireFromString("124.3"),
	}
	if booking.IsCancelled() {
		booking.CancelledAt = &cancelledAt
	}

	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: booking}}
	providers := &fakeProviderRepo{providers: map[int64]*domain.Provider{
		7: {ID: 7, UserID: providerUserID, Name: "Anna", IsAvailable: true},
	}}

	return NewService(bookings, providers, logger.Nop()), bookings
}

func TestService_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{"customer", customerUserID, nil},
		{"assigned provider", providerUserID, nil},
		{"stranger", strangerUserID, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(domain.StatusConfirmed)

			resp, err := svc.GetByID(context.Background(), 1, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2026-06-10", resp.BookingDate)
			assert.Equal(t, "124.30", resp.Price.Total)
			assert.Equal(t, "0.00", resp.Price.DiscountAmount)
		})
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(domain.StatusConfirmed)

	_, err := svc.GetByID(context.Background(), 404, customerUserID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetByID_RepositoryError(t *testing.T) {
	svc, repo := newTestService(domain.StatusConfirmed)
	repo.getErr = fmt.Errorf("%w: connection reset", bookingRepo.ErrExecQuery)

	_, err := svc.GetByID(context.Background(), 1, customerUserID)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Cancel_ByCustomer(t *testing.T) {
	svc, repo := newTestService(domain.StatusConfirmed)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             customerUserID,
		CancellationReason: ptr.Ptr("plans changed"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.cancelledID)
	assert.Equal(t, domain.StatusCancelledByCustomer, repo.cancelledStatus)
	assert.Equal(t, "plans changed", *repo.cancelledReason)
}

func TestService_Cancel_ByProvider(t *testing.T) {
	svc, repo := newTestService(domain.StatusPending)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: providerUserID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByProvider, repo.cancelledStatus)
	assert.Nil(t, repo.cancelledReason)
}

func TestService_Cancel_AccessDenied(t *testing.T) {
	svc, repo := newTestService(domain.StatusConfirmed)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: strangerUserID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.cancelledID)
}

func TestService_Cancel_NotCancellable(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusNoShow,
		domain.StatusCancelledByCustomer,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo := newTestService(status)

			err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: customerUserID})
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Zero(t, repo.cancelledID)
		})
	}
}

func TestService_Cancel_StatusChangedConcurrently(t *testing.T) {
	svc, repo := newTestService(domain.StatusConfirmed)
	repo.cancelErr = bookingRepo.ErrCannotCancel

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: customerUserID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_Cancel_ReasonTooLong(t *testing.T) {
	svc, _ := newTestService(domain.StatusConfirmed)

	reason := make([]rune, domain.MaxCancellationReasonLength+1)
	for i := range reason {
		reason[i] = 'я'
	}

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             customerUserID,
		CancellationReason: ptr.Ptr(string(reason)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetCustomerBookings(t *testing.T) {
	svc, repo := newTestService(domain.StatusConfirmed)

	resp, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: customerUserID,
		Status:     ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	require.NotNil(t, repo.listStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.listStatus)
}

func TestService_GetCustomerBookings_InvalidStatus(t *testing.T) {
	svc, _ := newTestService(domain.StatusConfirmed)

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: customerUserID,
		Status:     ptr.Ptr("cancelled_by_user"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
