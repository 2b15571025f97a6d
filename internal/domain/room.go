package domain

import "time"

// RoomStatus represents the maintenance status of a room
type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomBlocked   RoomStatus = "BLOCKED"
)

// IsValid reports whether the status is known
func (s RoomStatus) IsValid() bool {
	return s == RoomAvailable || s == RoomBlocked
}

// Room represents a bookable meeting room
type Room struct {
	ID        int64
	Name      string
	Capacity  int
	Floor     string
	Status    RoomStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocked returns true if the room rejects all new bookings
func (r *Room) IsBlocked() bool {
	return r.Status == RoomBlocked
}

// CheckAttendees validates 1 <= attendees <= capacity
func (r *Room) CheckAttendees(attendees int) error {
	if attendees < 1 {
		return ErrInvalidAttendees
	}
	if attendees > r.Capacity {
		return Reject(ReasonCapacityExceeded, "attendees cannot exceed room capacity (%d)", r.Capacity)
	}
	return nil
}
