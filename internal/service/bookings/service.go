package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями после их создания
type Service struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только своё бронирование, администратор - любое.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, role domain.Role) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(userID) && !role.IsAdmin() {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, domain.ErrForbidden
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя, новые сначала.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetAllBookings получает все бронирования с фильтрацией (для администратора)
func (s *Service) GetAllBookings(ctx context.Context, req *models.GetAllBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAllBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		s.logger.Warn("GetAllBookings: empty period %s - %s", filter.From, filter.To)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("GetAllBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAllBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование. Отменить может только владелец.
// Отмена не берёт блокировку комнаты: переход BOOKED -> CANCELLED атомарен в БД.
func (s *Service) Cancel(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", id, userID)

	booking, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(userID) {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", userID, id)
		return nil, domain.ErrForbidden
	}

	if booking.IsCancelled() {
		s.logger.Warn("Cancel: booking id=%d already cancelled", id)
		return nil, domain.ErrAlreadyCancelled
	}

	if err := s.bookingRepo.Cancel(ctx, id); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrNotActive):
			s.logger.Warn("Cancel: booking id=%d was cancelled concurrently", id)
			return nil, domain.ErrAlreadyCancelled
		default:
			s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
	}

	now := s.timeProvider.Now()
	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	s.publish(ctx, "Cancel", events.TypeBookingCancelled, booking)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// CheckIn отмечает приход на встречу.
// Допускается только владельцем, для активного бронирования, один раз
// и только в окне [начало - 15 мин, начало + 30 мин].
func (s *Service) CheckIn(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("CheckIn: booking id=%d by user=%d", id, userID)

	booking, err := s.get(ctx, "CheckIn", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(userID) {
		s.logger.Warn("CheckIn: access denied for user=%d to booking id=%d", userID, id)
		return nil, domain.ErrForbidden
	}

	now := s.timeProvider.Now()
	if err := domain.CheckInDecision(booking, now); err != nil {
		s.logger.Warn("CheckIn: booking id=%d rejected: %v", id, err)
		return nil, err
	}

	// Условный UPDATE: при гонке двух check-in пройдёт только один
	if err := s.bookingRepo.MarkCheckedIn(ctx, id, now); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrAlreadyCheckedIn):
			s.logger.Warn("CheckIn: booking id=%d checked in or cancelled concurrently", id)
			return nil, domain.ErrAlreadyCheckedIn
		default:
			s.logger.Error("CheckIn: repository error for booking id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: CheckIn - repository error: %v", ErrInternal, err)
		}
	}

	booking.CheckedInAt = &now
	booking.UpdatedAt = now

	s.publish(ctx, "CheckIn", events.TypeBookingCheckedIn, booking)

	s.logger.Info("CheckIn: booking id=%d checked in at %s", id, now.Format("15:04:05"))
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// publish не возвращает ошибку: событие вторично по отношению к записи в БД
func (s *Service) publish(ctx context.Context, op string, eventType string, booking *domain.Booking) {
	event := events.FromBooking(eventType, booking, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("%s: failed to publish %s for booking id=%d: %v", op, eventType, booking.ID, err)
	}
}
