package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fakeRooms map[int64]*domain.Room

func (f fakeRooms) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	r, ok := f[id]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	return r, nil
}

type fakeBookings []*domain.Booking

func (f fakeBookings) FindOverlapping(ctx context.Context, roomID int64, interval domain.Interval) ([]*domain.Booking, error) {
	var res []*domain.Booking
	for _, b := range f {
		if b.RoomID == roomID && b.IsActive() && interval.Overlaps(b.Interval()) {
			res = append(res, b)
		}
	}
	return res, nil
}

type staticRules struct{ rule domain.BookingRule }

func (r staticRules) Snapshot(ctx context.Context) (domain.BookingRule, error) { return r.rule, nil }

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func newUseCase() *UseCase {
	rooms := fakeRooms{
		1: {ID: 1, Name: "Orion", Capacity: 8, Status: domain.RoomAvailable},
		2: {ID: 2, Name: "Lyra", Capacity: 8, Status: domain.RoomBlocked},
	}
	bookings := fakeBookings{
		{ID: 10, RoomID: 1, StartTime: at(9, 0), EndTime: at(10, 0), Status: domain.StatusBooked},
		{ID: 11, RoomID: 1, StartTime: at(10, 30), EndTime: at(11, 30), Status: domain.StatusBooked},
		{ID: 12, RoomID: 1, StartTime: at(12, 0), EndTime: at(13, 0), Status: domain.StatusCancelled},
	}
	return NewUseCase(rooms, bookings, staticRules{rule: domain.DefaultBookingRule()}, time.UTC, logger.NewNop())
}

func TestExecute_Available(t *testing.T) {
	resp, err := newUseCase().Execute(context.Background(), &Request{RoomID: 1, StartTime: at(12, 0), EndTime: at(13, 0)})
	require.NoError(t, err)
	assert.True(t, resp.Available, "cancelled bookings do not block")
	assert.Nil(t, resp.Reason)
	assert.Empty(t, resp.Conflicts)
}

func TestExecute_ListsConflicts(t *testing.T) {
	resp, err := newUseCase().Execute(context.Background(), &Request{RoomID: 1, StartTime: at(9, 30), EndTime: at(11, 0)})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Nil(t, resp.Reason)
	require.Len(t, resp.Conflicts, 2)
	assert.Equal(t, int64(10), resp.Conflicts[0].BookingID)
	assert.Equal(t, int64(11), resp.Conflicts[1].BookingID)
}

func TestExecute_TouchingIsAvailable(t *testing.T) {
	resp, err := newUseCase().Execute(context.Background(), &Request{RoomID: 1, StartTime: at(10, 0), EndTime: at(10, 30)})
	require.NoError(t, err)
	assert.True(t, resp.Available)
}

func TestExecute_UnavailableWithReason(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		reason domain.RejectReason
	}{
		{name: "blocked room", req: Request{RoomID: 2, StartTime: at(12, 0), EndTime: at(13, 0)}, reason: domain.ReasonRoomBlocked},
		{name: "too long", req: Request{RoomID: 1, StartTime: at(12, 0), EndTime: at(15, 0)}, reason: domain.ReasonMaxDurationExceeded},
		{name: "outside hours", req: Request{RoomID: 1, StartTime: at(17, 30), EndTime: at(18, 30)}, reason: domain.ReasonOutsideWorkingHours},
		{name: "misaligned", req: Request{RoomID: 1, StartTime: at(12, 15), EndTime: at(13, 0)}, reason: domain.ReasonNotAlignedToSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			resp, err := newUseCase().Execute(context.Background(), &req)
			require.NoError(t, err)
			assert.False(t, resp.Available)
			require.NotNil(t, resp.Reason)
			assert.Equal(t, tt.reason, *resp.Reason)
			assert.NotEmpty(t, *resp.Message)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase()

	_, err := uc.Execute(context.Background(), &Request{RoomID: 1, StartTime: at(11, 0), EndTime: at(10, 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = uc.Execute(context.Background(), &Request{RoomID: 99, StartTime: at(10, 0), EndTime: at(11, 0)})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = uc.Execute(context.Background(), &Request{RoomID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
