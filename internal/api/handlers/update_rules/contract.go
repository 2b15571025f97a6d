package update_rules

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

type RulesService interface {
	Update(ctx context.Context, rule domain.BookingRule) (*domain.BookingRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
