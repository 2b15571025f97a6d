package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

// UseCase use case для получения сетки слотов комнаты на день
type UseCase struct {
	roomRepo     RoomRepository
	bookingRepo  BookingRepository
	rules        RulesProvider
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	bookingRepo BookingRepository,
	rules RulesProvider,
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
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: room=%d, date=%s", req.RoomID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// Дата трактуется как календарный день офиса
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)
	now := uc.timeProvider.Now().In(uc.location)

	// 2. Получаем комнату
	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("GetAvailableSlots: room id=%d not found", req.RoomID)
			return nil, domain.ErrRoomNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	// 3. Получаем правила
	rule, err := uc.rules.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	resp := &Response{
		RoomID:      room.ID,
		Date:        day,
		SlotMinutes: rule.SlotMinutes,
		RoomBlocked: room.IsBlocked(),
		Slots:       []Slot{},
	}

	if room.IsBlocked() {
		uc.logger.Info("GetAvailableSlots: room id=%d is blocked", room.ID)
		return resp, nil
	}

	// 4. Генерируем слоты
	intervals := generateTimeSlots(rule, day, now)
	if len(intervals) == 0 {
		return resp, nil
	}

	// 5. Получаем активные бронирования комнаты, пересекающие рабочий день
	filter := domain.BookingsFilter{
		RoomID: ptr.Ptr(room.ID),
		Status: ptr.Ptr(domain.StatusBooked),
		From:   ptr.Ptr(intervals[0].Start),
		To:     ptr.Ptr(intervals[len(intervals)-1].End),
	}

	bookings, err := uc.bookingRepo.GetAll(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Помечаем свободные слоты
	resp.Slots = markFreeSlots(intervals, bookings)

	uc.logger.Info("GetAvailableSlots: generated %d slots for room=%d, date=%s",
		len(resp.Slots), room.ID, day.Format(domain.DateFormat))

	return resp, nil
}
