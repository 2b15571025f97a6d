package create_booking

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/events"
)

// memoryStore хранит комнаты и бронирования в памяти.
// Мьютекс защищает только структуры данных, взаимного исключения
// попыток бронирования он не даёт: это задача locker'а.
type memoryStore struct {
	mu        sync.Mutex
	rooms     map[int64]*domain.Room
	bookings  []*domain.Booking
	nextID    int64
	createErr error
	lockCalls int
}

func newMemoryStore(rooms ...*domain.Room) *memoryStore {
	s := &memoryStore{rooms: make(map[int64]*domain.Room)}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memoryStore) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	s.mu.Lock()
	s.lockCalls++
	s.mu.Unlock()
	return s.GetByID(ctx, id)
}

func (s *memoryStore) FindOverlapping(ctx context.Context, roomID int64, interval domain.Interval) ([]*domain.Booking, error) {
	s.mu.Lock()
	var sameRoom []*domain.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			sameRoom = append(sameRoom, b)
		}
	}
	s.mu.Unlock()

	// Даём другим горутинам шанс вклиниться между проверкой и записью
	runtime.Gosched()

	return domain.Conflicts(interval, sameRoom), nil
}

func (s *memoryStore) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	cp := *b
	cp.ID = s.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.bookings = append(s.bookings, &cp)
	res := cp
	return &res, nil
}

func (s *memoryStore) cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.Status = domain.StatusCancelled
		}
	}
}

func (s *memoryStore) activeBookings(roomID int64) []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*domain.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.IsActive() {
			res = append(res, b)
		}
	}
	return res
}

type staticRules struct {
	rule domain.BookingRule
	err  error
}

func (r staticRules) Snapshot(ctx context.Context) (domain.BookingRule, error) {
	return r.rule, r.err
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type failingLocker struct{}

func (failingLocker) Acquire(ctx context.Context, roomID int64) (func(), error) {
	return nil, errors.New("dial tcp: connection refused")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) RecordAdmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *recordingMetrics) ObserveRoomLockWait(time.Duration, bool) {}

func (m *recordingMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}
