package roomlock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LocalLocker блокировки комнат внутри одного процесса.
// Записи для комнат создаются лениво и удаляются, когда их никто не ждёт.
type LocalLocker struct {
	mu      sync.Mutex
	rooms   map[int64]*roomEntry
	timeout time.Duration
}

type roomEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker создает локальный locker; timeout ограничивает ожидание (0 - только контекст)
func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{
		rooms:   make(map[int64]*roomEntry),
		timeout: timeout,
	}
}

// Acquire ждёт блокировку комнаты до истечения timeout или отмены ctx
func (l *LocalLocker) Acquire(ctx context.Context, roomID int64) (func(), error) {
	entry := l.ref(roomID)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	select {
	case entry.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-entry.sem
				l.unref(roomID, entry)
			})
		}, nil
	case <-ctx.Done():
		l.unref(roomID, entry)
		return nil, fmt.Errorf("%w: room=%d: %v", ErrLockTimeout, roomID, ctx.Err())
	}
}

func (l *LocalLocker) ref(roomID int64) *roomEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.rooms[roomID]
	if !ok {
		entry = &roomEntry{sem: make(chan struct{}, 1)}
		l.rooms[roomID] = entry
	}
	entry.refs++
	return entry
}

func (l *LocalLocker) unref(roomID int64, entry *roomEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.rooms, roomID)
	}
}

// size возвращает число комнат с живыми записями
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
