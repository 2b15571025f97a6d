package create_booking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/roomlock"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

type fixture struct {
	uc        *UseCase
	store     *memoryStore
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newFixture(t *testing.T, locker RoomLocker, rooms ...*domain.Room) *fixture {
	t.Helper()

	if len(rooms) == 0 {
		rooms = []*domain.Room{{ID: 1, Name: "Orion", Capacity: 10, Floor: "3", Status: domain.RoomAvailable}}
	}
	if locker == nil {
		locker = roomlock.NewLocalLocker(5 * time.Second)
	}

	store := newMemoryStore(rooms...)
	publisher := &recordingPublisher{}
	metrics := &recordingMetrics{}

	uc := NewUseCase(
		store,
		store,
		staticRules{rule: domain.DefaultBookingRule()},
		locker,
		passThroughTx{},
		publisher,
		metrics,
		time.UTC,
		logger.NewNop(),
	)

	return &fixture{uc: uc, store: store, publisher: publisher, metrics: metrics}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func request(roomID int64, start, end time.Time) *Request {
	return &Request{UserID: 42, RoomID: roomID, StartTime: start, EndTime: end}
}

func TestExecute_EndToEndScenario(t *testing.T) {
	f := newFixture(t, nil)

	req := request(1, at(10, 0), at(11, 0))
	req.Attendees = ptr.Ptr(3)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "BOOKED", resp.Status)
	assert.Equal(t, int64(1), resp.RoomID)
	assert.Equal(t, 3, resp.Attendees)
	assert.True(t, resp.StartTime.Equal(at(10, 0)))
	assert.Positive(t, resp.ID)

	_, err = f.uc.Execute(context.Background(), request(1, at(10, 30), at(11, 30)))
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, 409, rej.StatusClass())

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeBookingCreated, f.publisher.events[0].Type)
	assert.Equal(t, 1, f.metrics.count(outcomeCommitted))
	assert.Equal(t, 1, f.metrics.count(string(domain.ReasonSlotConflict)))
}

func TestExecute_TouchingIntervalsCoexist(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Execute(context.Background(), request(1, at(9, 0), at(10, 0)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request(1, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	assert.Len(t, f.store.activeBookings(1), 2)
}

func TestExecute_DefaultsAttendeesToOne(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.uc.Execute(context.Background(), request(1, at(9, 0), at(10, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Attendees)
}

func TestExecute_Rejections(t *testing.T) {
	rooms := []*domain.Room{
		{ID: 1, Name: "Small", Capacity: 4, Status: domain.RoomAvailable},
		{ID: 2, Name: "Repair", Capacity: 10, Status: domain.RoomBlocked},
	}

	tests := []struct {
		name      string
		roomID    int64
		start     time.Time
		end       time.Time
		attendees *int
		want      error
	}{
		{name: "capacity bound accepted", roomID: 1, start: at(9, 0), end: at(10, 0), attendees: ptr.Ptr(4)},
		{name: "capacity exceeded", roomID: 1, start: at(9, 0), end: at(10, 0), attendees: ptr.Ptr(5), want: domain.ErrCapacityExceeded},
		{name: "zero attendees", roomID: 1, start: at(9, 0), end: at(10, 0), attendees: ptr.Ptr(0), want: domain.ErrInvalidAttendees},
		{name: "room not found", roomID: 99, start: at(9, 0), end: at(10, 0), want: domain.ErrRoomNotFound},
		{name: "room blocked", roomID: 2, start: at(9, 0), end: at(10, 0), want: domain.ErrRoomBlocked},
		{name: "exactly max duration", roomID: 1, start: at(12, 0), end: at(14, 0)},
		{name: "one minute over max", roomID: 1, start: at(12, 0), end: at(14, 1), want: domain.ErrMaxDurationExceeded},
		{name: "misaligned start", roomID: 1, start: at(15, 15), end: at(16, 0), want: domain.ErrNotAlignedToSlot},
		{name: "before working hours", roomID: 1, start: at(8, 0), end: at(9, 0), want: domain.ErrOutsideWorkingHours},
		{name: "empty interval", roomID: 1, start: at(9, 0), end: at(9, 0), want: domain.ErrInvalidDuration},
		// Правила проверяются раньше комнаты
		{name: "rules before room lookup", roomID: 99, start: at(8, 0), end: at(9, 0), want: domain.ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, rooms...)

			req := request(tt.roomID, tt.start, tt.end)
			req.Attendees = tt.attendees

			_, err := f.uc.Execute(context.Background(), req)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.store.activeBookings(tt.roomID))
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 1, RoomID: 1, EndTime: at(10, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 0, RoomID: 1, StartTime: at(9, 0), EndTime: at(10, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CancellationFreesSlot(t *testing.T) {
	f := newFixture(t, nil)

	first, err := f.uc.Execute(context.Background(), request(1, at(9, 0), at(10, 0)))
	require.NoError(t, err)

	f.store.cancel(first.ID)

	second, err := f.uc.Execute(context.Background(), request(1, at(9, 0), at(10, 0)))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestExecute_ConcurrentAdmissionIsExclusive(t *testing.T) {
	const attempts = 32

	for round := 0; round < 20; round++ {
		f := newFixture(t, nil)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			success   int
			conflicts int
			start     = make(chan struct{})
		)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := f.uc.Execute(context.Background(), request(1, at(10, 0), at(11, 0)))

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					success++
				case errors.Is(err, domain.ErrSlotConflict):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}

		close(start)
		wg.Wait()

		require.Equal(t, 1, success, "round %d", round)
		require.Equal(t, attempts-1, conflicts, "round %d", round)
		require.Len(t, f.store.activeBookings(1), 1)
	}
}

func TestExecute_DifferentRoomsAreNotSerialized(t *testing.T) {
	locker := roomlock.NewLocalLocker(50 * time.Millisecond)
	f := newFixture(t, locker,
		&domain.Room{ID: 1, Name: "A", Capacity: 5, Status: domain.RoomAvailable},
		&domain.Room{ID: 2, Name: "B", Capacity: 5, Status: domain.RoomAvailable},
	)

	// Держим блокировку комнаты 1, как будто её обрабатывает другой запрос
	release, err := locker.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	_, err = f.uc.Execute(context.Background(), request(2, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request(1, at(10, 0), at(11, 0)))
	assert.ErrorIs(t, err, ErrLockUnavailable)
}

func TestExecute_LockFailureIsNotRejection(t *testing.T) {
	f := newFixture(t, failingLocker{})

	_, err := f.uc.Execute(context.Background(), request(1, at(10, 0), at(11, 0)))
	require.ErrorIs(t, err, ErrLockUnavailable)

	_, isRejection := domain.AsRejection(err)
	assert.False(t, isRejection)
	assert.Equal(t, 1, f.metrics.count(outcomeLockUnavailable))
	assert.Zero(t, f.store.lockCalls)
}

func TestExecute_StoreFailureLeavesNoState(t *testing.T) {
	f := newFixture(t, nil)
	f.store.createErr = errors.New("disk full")

	_, err := f.uc.Execute(context.Background(), request(1, at(10, 0), at(11, 0)))
	require.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.store.activeBookings(1))
	assert.Empty(t, f.publisher.events)
}

func TestExecute_RoomBlockedWhileWaitingForLock(t *testing.T) {
	f := newFixture(t, nil)

	store := &blockOnLockStore{memoryStore: f.store}
	f.uc.roomRepo = store

	_, err := f.uc.Execute(context.Background(), request(1, at(10, 0), at(11, 0)))
	assert.ErrorIs(t, err, domain.ErrRoomBlocked)
	assert.Empty(t, f.store.activeBookings(1))
}

// blockOnLockStore отдаёт комнату свободной при первом чтении и заблокированной под блокировкой
type blockOnLockStore struct {
	*memoryStore
}

func (s *blockOnLockStore) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.memoryStore.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Status = domain.RoomBlocked
	return room, nil
}

func TestExecute_SequentialAdmissionKeepsRoomOverlapFree(t *testing.T) {
	f := newFixture(t, nil,
		&domain.Room{ID: 1, Name: "A", Capacity: 5, Status: domain.RoomAvailable},
		&domain.Room{ID: 2, Name: "B", Capacity: 5, Status: domain.RoomAvailable},
	)
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		roomID := int64(rnd.Intn(2) + 1)
		startSlot := rnd.Intn(18)
		length := rnd.Intn(4) + 1
		start := at(9, 0).Add(time.Duration(startSlot*30) * time.Minute)
		end := start.Add(time.Duration(length*30) * time.Minute)

		resp, err := f.uc.Execute(context.Background(), request(roomID, start, end))
		if err == nil && rnd.Intn(4) == 0 {
			f.store.cancel(resp.ID)
		}

		for _, room := range []int64{1, 2} {
			active := f.store.activeBookings(room)
			for a := 0; a < len(active); a++ {
				for b := a + 1; b < len(active); b++ {
					require.False(t, active[a].Interval().Overlaps(active[b].Interval()),
						"bookings %d and %d overlap", active[a].ID, active[b].ID)
				}
			}
		}
	}
}
