package get_rules

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

type RulesService interface {
	Snapshot(ctx context.Context) (domain.BookingRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
