package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

// UseCase отвечает, можно ли сейчас забронировать комнату на интервал.
// Результат носит рекомендательный характер: без блокировки и записи слот может
// быть занят до фактического бронирования.
type UseCase struct {
	roomRepo    RoomRepository
	bookingRepo BookingRepository
	rules       RulesProvider
	location    *time.Location
	logger      Logger
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
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		rules:       rules,
		location:    location,
		logger:      logger,
	}
}

// Execute проверяет доступность.
// Пустой или отрицательный интервал и отсутствующая комната возвращаются ошибкой,
// остальные отказы - ответом с Available=false и причиной.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: room=%d, start=%s, end=%s",
		req.RoomID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	if req.RoomID <= 0 {
		return nil, fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	interval := domain.Interval{
		Start: req.StartTime.In(uc.location),
		End:   req.EndTime.In(uc.location),
	}
	if interval.Duration() <= 0 {
		uc.logger.Warn("CheckAvailability: empty interval for room=%d", req.RoomID)
		return nil, domain.Reject(domain.ReasonInvalidDuration, "start must be before end")
	}

	resp := &Response{
		RoomID:    req.RoomID,
		StartTime: interval.Start,
		EndTime:   interval.End,
		Conflicts: []Conflict{},
	}

	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CheckAvailability: room id=%d not found", req.RoomID)
			return nil, domain.ErrRoomNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	if room.IsBlocked() {
		return unavailable(resp, domain.ErrRoomBlocked), nil
	}

	rule, err := uc.rules.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	if err := domain.ValidateInterval(interval, rule); err != nil {
		rej, ok := domain.AsRejection(err)
		if !ok {
			return nil, fmt.Errorf("%w: validate interval: %v", ErrInternal, err)
		}
		return unavailable(resp, rej), nil
	}

	bookings, err := uc.bookingRepo.FindOverlapping(ctx, req.RoomID, interval)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to find overlaps for room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to find overlaps: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		resp.Conflicts = append(resp.Conflicts, Conflict{
			BookingID: b.ID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}
	resp.Available = len(resp.Conflicts) == 0

	uc.logger.Info("CheckAvailability: room=%d available=%t conflicts=%d", req.RoomID, resp.Available, len(resp.Conflicts))
	return resp, nil
}

func unavailable(resp *Response, rej *domain.RejectionError) *Response {
	reason := rej.Reason
	message := rej.Message
	resp.Available = false
	resp.Reason = &reason
	resp.Message = &message
	return resp
}
