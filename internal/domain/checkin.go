package domain

import "time"

// Check-in window relative to the booking start, both bounds inclusive
const (
	CheckInOpensBefore = 15 * time.Minute
	CheckInClosesAfter = 30 * time.Minute
)

// CheckInDecision returns nil if the booking may transition to checked in at now,
// otherwise the rejection explaining why not.
func CheckInDecision(b *Booking, now time.Time) error {
	if !b.IsActive() {
		return ErrNotBookedStatus
	}
	if b.IsCheckedIn() {
		return ErrAlreadyCheckedIn
	}

	opens := b.StartTime.Add(-CheckInOpensBefore)
	closes := b.StartTime.Add(CheckInClosesAfter)
	if now.Before(opens) || now.After(closes) {
		return ErrCheckInWindowClosed
	}

	return nil
}

// CanCheckIn reports whether the booking may be checked in at now
func CanCheckIn(b *Booking, now time.Time) bool {
	return CheckInDecision(b, now) == nil
}
