package check_availability

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса проверки доступности
type Request struct {
	RoomID    int64
	StartTime time.Time
	EndTime   time.Time
}

// Response результат проверки.
// Если Available=false и Reason задан, интервал не прошёл правила или комната заблокирована;
// если Reason пуст, интервал занят и Conflicts перечисляет мешающие бронирования.
type Response struct {
	RoomID    int64
	StartTime time.Time
	EndTime   time.Time
	Available bool
	Reason    *domain.RejectReason
	Message   *string
	Conflicts []Conflict
}

// Conflict пересекающееся активное бронирование
type Conflict struct {
	BookingID int64
	StartTime time.Time
	EndTime   time.Time
}
