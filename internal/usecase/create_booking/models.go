package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64     // ID пользователя из токена
	RoomID    int64     // ID комнаты
	Attendees *int      // Количество участников (по умолчанию 1)
	StartTime time.Time // Начало интервала
	EndTime   time.Time // Конец интервала (не включается)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	UserID      int64
	RoomID      int64
	Attendees   int
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	CheckedInAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Исходы попытки бронирования для метрик
const (
	outcomeCommitted       = "committed"
	outcomeLockUnavailable = "lock_unavailable"
	outcomeError           = "error"
)
