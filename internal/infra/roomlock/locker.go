package roomlock

import (
	"context"
	"errors"
)

var (
	// ErrLockTimeout возвращается, когда блокировку комнаты не удалось получить вовремя
	ErrLockTimeout = errors.New("roomlock: timed out waiting for room lock")

	// ErrLockBackend возвращается при недоступности хранилища блокировок
	ErrLockBackend = errors.New("roomlock: lock backend failure")
)

// Locker выдаёт эксклюзивную блокировку на комнату.
// release освобождает блокировку; повторный вызов release ничего не делает.
type Locker interface {
	Acquire(ctx context.Context, roomID int64) (release func(), err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
