package rules

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// RuleRepository интерфейс репозитория правил бронирования
type RuleRepository interface {
	Get(ctx context.Context) (*domain.BookingRule, error)
	Update(ctx context.Context, rule domain.BookingRule) (*domain.BookingRule, error)
	EnsureDefault(ctx context.Context, rule domain.BookingRule) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
