package events

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Типы событий бронирования
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingCheckedIn = "booking.checked_in"
)

// BookingEvent событие об изменении бронирования
type BookingEvent struct {
	Type        string     `json:"type"`
	BookingID   int64      `json:"bookingId"`
	RoomID      int64      `json:"roomId"`
	UserID      int64      `json:"userId"`
	Attendees   int        `json:"attendees"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	Status      string     `json:"status"`
	CheckedInAt *time.Time `json:"checkedInAt,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// FromBooking собирает событие из бронирования
func FromBooking(eventType string, b *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:        eventType,
		BookingID:   b.ID,
		RoomID:      b.RoomID,
		UserID:      b.UserID,
		Attendees:   b.Attendees,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
		CheckedInAt: b.CheckedInAt,
		OccurredAt:  occurredAt,
	}
}
