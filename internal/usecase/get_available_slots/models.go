package get_available_slots

import "time"

// Request модель запроса сетки слотов комнаты на день
type Request struct {
	RoomID int64     // ID комнаты
	Date   time.Time // Дата (время игнорируется)
}

// Response модель ответа со слотами рабочего дня
type Response struct {
	RoomID      int64
	Date        time.Time
	SlotMinutes int
	RoomBlocked bool   // Заблокированная комната не отдаёт слотов
	Slots       []Slot // Слоты в порядке времени начала
}

// Slot временной слот рабочего дня
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Free      bool // Нет активных бронирований, пересекающих слот
}
