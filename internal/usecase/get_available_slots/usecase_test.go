package get_available_slots

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

type fakeBookings struct {
	bookings []*domain.Booking
	filter   domain.BookingsFilter
}

func (f *fakeBookings) GetAll(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return f.bookings, nil
}

type staticRules struct{ rule domain.BookingRule }

func (r staticRules) Snapshot(ctx context.Context) (domain.BookingRule, error) { return r.rule, nil }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func newUseCase(bookings *fakeBookings, now time.Time) *UseCase {
	rooms := fakeRooms{
		1: {ID: 1, Name: "Orion", Capacity: 8, Status: domain.RoomAvailable},
		2: {ID: 2, Name: "Lyra", Capacity: 8, Status: domain.RoomBlocked},
	}
	uc := NewUseCase(rooms, bookings, staticRules{rule: domain.DefaultBookingRule()}, time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func TestExecute_FutureDay(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{
		{ID: 1, RoomID: 1, StartTime: at(2, 10, 0), EndTime: at(2, 11, 0), Status: domain.StatusBooked},
	}}
	uc := newUseCase(bookings, at(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: at(2, 0, 0)})
	require.NoError(t, err)

	// 09:00-18:00 по 30 минут
	require.Len(t, resp.Slots, 18)
	assert.True(t, resp.Slots[0].StartTime.Equal(at(2, 9, 0)))
	assert.True(t, resp.Slots[17].EndTime.Equal(at(2, 18, 0)))

	free := map[string]bool{}
	for _, s := range resp.Slots {
		free[s.StartTime.Format(domain.TimeFormat)] = s.Free
	}
	assert.True(t, free["09:30"])
	assert.False(t, free["10:00"])
	assert.False(t, free["10:30"])
	assert.True(t, free["11:00"], "slot touching the booking end is free")

	require.NotNil(t, bookings.filter.RoomID)
	assert.Equal(t, int64(1), *bookings.filter.RoomID)
	assert.Equal(t, domain.StatusBooked, *bookings.filter.Status)
}

func TestExecute_TodaySkipsStartedSlots(t *testing.T) {
	uc := newUseCase(&fakeBookings{}, at(1, 16, 10))

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: at(1, 0, 0)})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.True(t, resp.Slots[0].StartTime.Equal(at(1, 16, 30)))
}

func TestExecute_PastDayAndBlockedRoom(t *testing.T) {
	uc := newUseCase(&fakeBookings{}, at(3, 9, 0))

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: at(2, 0, 0)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	resp, err = uc.Execute(context.Background(), &Request{RoomID: 2, Date: at(4, 0, 0)})
	require.NoError(t, err)
	assert.True(t, resp.RoomBlocked)
	assert.Empty(t, resp.Slots)
}

func TestExecute_UnknownRoom(t *testing.T) {
	uc := newUseCase(&fakeBookings{}, at(1, 9, 0))

	_, err := uc.Execute(context.Background(), &Request{RoomID: 5, Date: at(2, 0, 0)})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = uc.Execute(context.Background(), &Request{RoomID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateTimeSlots_AlignsFirstSlot(t *testing.T) {
	rule := domain.BookingRule{WorkStartMinute: 9*60 + 10, WorkEndMinute: 11 * 60, MaxBookingMinutes: 60, SlotMinutes: 30}

	slots := generateTimeSlots(rule, at(2, 0, 0), at(1, 0, 0))
	require.Len(t, slots, 3)
	assert.True(t, slots[0].Start.Equal(at(2, 9, 30)))
}
