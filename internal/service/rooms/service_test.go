package rooms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/rooms/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

type fakeRooms struct {
	rooms     map[int64]*domain.Room
	nextID    int64
	lockCalls int
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{rooms: map[int64]*domain.Room{
		1: {ID: 1, Name: "Orion", Capacity: 6, Floor: "2", Status: domain.RoomAvailable},
	}, nextID: 1}
}

func (f *fakeRooms) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRooms) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	f.lockCalls++
	return f.GetByID(ctx, id)
}

func (f *fakeRooms) List(ctx context.Context) ([]*domain.Room, error) {
	res := make([]*domain.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		res = append(res, r)
	}
	return res, nil
}

func (f *fakeRooms) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	f.nextID++
	room.ID = f.nextID
	f.rooms[room.ID] = room
	return room, nil
}

func (f *fakeRooms) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if _, ok := f.rooms[room.ID]; !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	f.rooms[room.ID] = room
	return room, nil
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService(repo *fakeRooms) *Service {
	return NewService(repo, passThroughTx{}, logger.NewNop())
}

func TestService_Create(t *testing.T) {
	s := newService(newFakeRooms())

	resp, err := s.Create(context.Background(), &models.CreateRoomRequest{Name: "  Lyra ", Capacity: 4, Floor: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Lyra", resp.Name)
	assert.Equal(t, "AVAILABLE", resp.Status)
	assert.Equal(t, int64(2), resp.ID)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateRoomRequest
	}{
		{name: "empty name", req: models.CreateRoomRequest{Name: "  ", Capacity: 4}},
		{name: "long name", req: models.CreateRoomRequest{Name: strings.Repeat("a", 256), Capacity: 4}},
		{name: "zero capacity", req: models.CreateRoomRequest{Name: "A", Capacity: 0}},
		{name: "unknown status", req: models.CreateRoomRequest{Name: "A", Capacity: 2, Status: ptr.Ptr("CLOSED")}},
		{name: "long floor", req: models.CreateRoomRequest{Name: "A", Capacity: 2, Floor: strings.Repeat("1", 51)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := newService(newFakeRooms()).Create(context.Background(), &req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_UpdateBlocksRoomUnderLock(t *testing.T) {
	repo := newFakeRooms()
	s := newService(repo)

	resp, err := s.Update(context.Background(), 1, &models.UpdateRoomRequest{Status: ptr.Ptr("BLOCKED")})
	require.NoError(t, err)
	assert.Equal(t, "BLOCKED", resp.Status)
	assert.Equal(t, "Orion", resp.Name, "untouched fields are kept")
	assert.Equal(t, 1, repo.lockCalls)
	assert.True(t, repo.rooms[1].IsBlocked())
}

func TestService_UpdateErrors(t *testing.T) {
	s := newService(newFakeRooms())

	_, err := s.Update(context.Background(), 9, &models.UpdateRoomRequest{Capacity: ptr.Ptr(3)})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = s.Update(context.Background(), 1, &models.UpdateRoomRequest{Capacity: ptr.Ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_List(t *testing.T) {
	resp, err := newService(newFakeRooms()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "Orion", resp.Rooms[0].Name)
}
