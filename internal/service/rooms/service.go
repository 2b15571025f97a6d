package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/rooms/models"
)

// Service сервис для управления комнатами
type Service struct {
	roomRepo  RoomRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(roomRepo RoomRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		roomRepo:  roomRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// List возвращает все комнаты
func (s *Service) List(ctx context.Context) (*models.RoomListResponse, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRoomList(rooms), nil
}

// GetByID возвращает комнату
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RoomResponse, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", id, err)
	}

	return models.FromDomainRoom(room), nil
}

// Create создает комнату (только администратор)
func (s *Service) Create(ctx context.Context, req *models.CreateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Create: name=%q, capacity=%d, floor=%q", req.Name, req.Capacity, req.Floor)

	room := &domain.Room{
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		Floor:    strings.TrimSpace(req.Floor),
		Status:   domain.RoomAvailable,
	}
	if req.Status != nil {
		room.Status = domain.RoomStatus(*req.Status)
	}

	if err := validateRoom(room); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.roomRepo.Create(ctx, room)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: room id=%d created", created.ID)
	return models.FromDomainRoom(created), nil
}

// Update частично обновляет комнату (только администратор).
// Строка комнаты блокируется на время обновления, поэтому смена статуса
// упорядочена с идущими в этот момент попытками бронирования.
// Уменьшение вместимости не затрагивает существующие бронирования.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Update: room id=%d", id)

	var result *domain.Room
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		room, err := s.roomRepo.LockByID(txCtx, id)
		if err != nil {
			return s.repoError("Update", id, err)
		}

		if req.Name != nil {
			room.Name = strings.TrimSpace(*req.Name)
		}
		if req.Capacity != nil {
			room.Capacity = *req.Capacity
		}
		if req.Floor != nil {
			room.Floor = strings.TrimSpace(*req.Floor)
		}
		if req.Status != nil {
			room.Status = domain.RoomStatus(*req.Status)
		}

		if err := validateRoom(room); err != nil {
			s.logger.Warn("Update: validation failed for room id=%d: %v", id, err)
			return err
		}

		updated, err := s.roomRepo.Update(txCtx, room)
		if err != nil {
			return s.repoError("Update", id, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) || errors.Is(err, domain.ErrRoomNotFound) {
			return nil, err
		}
		s.logger.Error("Update: transaction failed for room id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("Update: room id=%d updated, status=%s", id, result.Status)
	return models.FromDomainRoom(result), nil
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, roomRepo.ErrRoomNotFound) {
		s.logger.Warn("%s: room id=%d not found", op, id)
		return domain.ErrRoomNotFound
	}
	s.logger.Error("%s: repository error for room id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateRoom(room *domain.Room) error {
	if room.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(room.Name) > domain.MaxRoomNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxRoomNameLength)
	}
	if len(room.Floor) > domain.MaxRoomFloorLength {
		return fmt.Errorf("%w: floor must be at most %d characters", ErrInvalidInput, domain.MaxRoomFloorLength)
	}
	if room.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be a positive integer", ErrInvalidInput)
	}
	if !room.Status.IsValid() {
		return fmt.Errorf("%w: status must be AVAILABLE or BLOCKED", ErrInvalidInput)
	}
	return nil
}
