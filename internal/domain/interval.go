package domain

import "time"

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two intervals share any instant.
// Touching intervals ([9,10) and [10,11)) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return other.Start.Before(i.End) && other.End.After(i.Start)
}

// HasOverlap reports whether any active booking overlaps the interval
func HasOverlap(interval Interval, bookings []*Booking) bool {
	return len(Conflicts(interval, bookings)) > 0
}

// Conflicts returns the active bookings overlapping the interval
func Conflicts(interval Interval, bookings []*Booking) []*Booking {
	conflicts := make([]*Booking, 0)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if interval.Overlaps(b.Interval()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
