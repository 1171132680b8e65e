package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-InstantBookingService/internal/service/bookings/models"
)

// Service сервис для работы с созданными бронированиями
type Service struct {
	bookingRepo  BookingRepository
	providerRepo ProviderRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	providerRepo ProviderRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		providerRepo: providerRepo,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят клиент и назначенный исполнитель
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID {
		isProvider, err := s.isAssignedProvider(ctx, booking, userID)
		if err != nil {
			return nil, err
		}
		if !isProvider {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент отменяет своё бронирование (cancelled_by_customer),
// назначенный исполнитель - порученное ему (cancelled_by_provider).
// Отмена освобождает интервал исполнителя для новых бронирований.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	// Определяем статус отмены в зависимости от того, кто отменяет
	var cancelStatus domain.BookingStatus
	if booking.CustomerID == req.UserID {
		cancelStatus = domain.StatusCancelledByCustomer
	} else {
		isProvider, err := s.isAssignedProvider(ctx, booking, req.UserID)
		if err != nil {
			return err
		}
		if !isProvider {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByProvider
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		// Статус мог измениться между чтением и обновлением
		if errors.Is(err, bookingRepo.ErrCannotCancel) {
			s.logger.Warn("Cancel: booking id=%d changed status during cancellation", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// isAssignedProvider проверяет, что пользователь является исполнителем бронирования
func (s *Service) isAssignedProvider(ctx context.Context, booking *domain.Booking, userID int64) (bool, error) {
	provider, err := s.providerRepo.GetByID(ctx, booking.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			s.logger.Warn("isAssignedProvider: provider id=%d of booking id=%d not found", booking.ProviderID, booking.ID)
			return false, nil
		}
		s.logger.Error("isAssignedProvider: failed to get provider id=%d: %v", booking.ProviderID, err)
		return false, fmt.Errorf("%w: isAssignedProvider - failed to get provider: %v", ErrInternal, err)
	}

	return provider.UserID == userID, nil
}
