package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/events"
)

// UseCase принимает решение о бронировании комнаты.
//
// Порядок шагов: правила -> комната -> блокировка комнаты -> проверка пересечений -> запись.
// Проверка пересечений и запись выполняются в одной транзакции под блокировкой
// комнаты (Locker) и блокировкой строки комнаты в БД (FOR UPDATE), поэтому два
// конкурентных запроса на пересекающиеся интервалы одной комнаты не могут оба пройти.
// Запросы на разные комнаты друг друга не ждут.
type UseCase struct {
	roomRepo     RoomRepository
	bookingRepo  BookingRepository
	rules        RulesProvider
	locker       RoomLocker
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс офиса, в котором считаются минуты от полуночи.
func NewUseCase(
	roomRepo RoomRepository,
	bookingRepo BookingRepository,
	rules RulesProvider,
	locker RoomLocker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}

	return &UseCase{
		roomRepo:     roomRepo,
		bookingRepo:  bookingRepo,
		rules:        rules,
		locker:       locker,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет попытку бронирования.
// Бизнес-отказы возвращаются как *domain.RejectionError, отказы инфраструктуры
// оборачивают ErrInternal или ErrLockUnavailable.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, room=%d, start=%s, end=%s",
		req.UserID, req.RoomID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	created, err := uc.admit(ctx, req)
	uc.metrics.RecordAdmission(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, room=%d", created.ID, created.RoomID)

	// Публикация идёт после освобождения блокировки: сетевые вызовы под ней не делаем
	event := events.FromBooking(events.TypeBookingCreated, created, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", created.ID, err)
	}

	return toResponse(created), nil
}

func (uc *UseCase) admit(ctx context.Context, req *Request) (*domain.Booking, error) {
	// RECEIVED
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	interval := domain.Interval{
		Start: req.StartTime.In(uc.location),
		End:   req.EndTime.In(uc.location),
	}
	attendees := attendeesOrDefault(req.Attendees)

	// RECEIVED -> VALIDATED
	rule, err := uc.rules.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	if err := domain.ValidateInterval(interval, rule); err != nil {
		uc.logger.Warn("CreateBooking: interval rejected: %v", err)
		return nil, err
	}

	// VALIDATED -> ROOM_CHECKED
	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, uc.roomError(req.RoomID, err)
	}

	if err := checkRoom(room, attendees); err != nil {
		uc.logger.Warn("CreateBooking: room id=%d rejected: %v", room.ID, err)
		return nil, err
	}

	// ROOM_CHECKED -> LOCK_ACQUIRED
	lockStart := time.Now()
	release, err := uc.locker.Acquire(ctx, req.RoomID)
	uc.metrics.ObserveRoomLockWait(time.Since(lockStart), err == nil)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to acquire lock for room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: room=%d: %v", ErrLockUnavailable, req.RoomID, err)
	}
	defer release()

	var result *domain.Booking

	// LOCK_ACQUIRED -> OVERLAP_CHECKED -> COMMITTED
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Статус и вместимость могли измениться, пока ждали блокировку
		locked, err := uc.roomRepo.LockByID(txCtx, req.RoomID)
		if err != nil {
			return uc.roomError(req.RoomID, err)
		}

		if err := checkRoom(locked, attendees); err != nil {
			uc.logger.Warn("CreateBooking: room id=%d rejected under lock: %v", locked.ID, err)
			return err
		}

		conflicts, err := uc.bookingRepo.FindOverlapping(txCtx, req.RoomID, interval)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check overlaps for room id=%d: %v", req.RoomID, err)
			return fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: room id=%d slot conflicts with booking id=%d", req.RoomID, conflicts[0].ID)
			return domain.ErrSlotConflict
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:    req.UserID,
			RoomID:    req.RoomID,
			Attendees: attendees,
			StartTime: interval.Start,
			EndTime:   interval.End,
			Status:    domain.StatusBooked,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if _, ok := domain.AsRejection(err); ok || errors.Is(err, ErrInternal) {
			return nil, err
		}
		// Ошибки начала/коммита транзакции
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	return result, nil
}

func (uc *UseCase) roomError(roomID int64, err error) error {
	if errors.Is(err, roomRepo.ErrRoomNotFound) {
		uc.logger.Warn("CreateBooking: room id=%d not found", roomID)
		return domain.ErrRoomNotFound
	}
	uc.logger.Error("CreateBooking: failed to get room id=%d: %v", roomID, err)
	return fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeCommitted
	}
	if rej, ok := domain.AsRejection(err); ok {
		return string(rej.Reason)
	}
	if errors.Is(err, ErrLockUnavailable) {
		return outcomeLockUnavailable
	}
	return outcomeError
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		UserID:      b.UserID,
		RoomID:      b.RoomID,
		Attendees:   b.Attendees,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
		CheckedInAt: b.CheckedInAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
