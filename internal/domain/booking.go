package domain

import "time"

// BookingStatus represents the status of a booking.
// BOOKED -> CANCELLED is the only transition.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "BOOKED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Booking represents a room reservation
type Booking struct {
	ID          int64
	UserID      int64
	RoomID      int64
	Attendees   int
	StartTime   time.Time
	EndTime     time.Time
	Status      BookingStatus
	CheckedInAt *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open interval the booking occupies
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive returns true if the booking takes part in overlap checks
func (b *Booking) IsActive() bool {
	return b.Status == StatusBooked
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsCheckedIn returns true if the check-in transition already happened
func (b *Booking) IsCheckedIn() bool {
	return b.CheckedInAt != nil
}

// IsOwnedBy returns true if userID owns the booking
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// BookingsFilter filters the admin booking listing
type BookingsFilter struct {
	RoomID *int64         // nil - all rooms
	UserID *int64         // nil - all users
	Status *BookingStatus // nil - any status
	From   *time.Time     // bookings ending after From
	To     *time.Time     // bookings starting before To
}
