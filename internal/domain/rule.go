package domain

import "time"

// BookingRule is the global admission policy (one row, id=1).
// Minutes are counted from local midnight.
type BookingRule struct {
	WorkStartMinute   int
	WorkEndMinute     int
	MaxBookingMinutes int
	SlotMinutes       int
	UpdatedAt         time.Time
}

// DefaultBookingRule returns the rule seeded on first start: 09:00-18:00, max 120 min, 30 min slots
func DefaultBookingRule() BookingRule {
	return BookingRule{
		WorkStartMinute:   DefaultWorkStartMinute,
		WorkEndMinute:     DefaultWorkEndMinute,
		MaxBookingMinutes: DefaultMaxBookingMinutes,
		SlotMinutes:       DefaultSlotMinutes,
	}
}

// Validate checks the admin-supplied rule values
func (r BookingRule) Validate() error {
	if r.WorkStartMinute < MinWorkStartMinute || r.WorkStartMinute > MaxWorkStartMinute {
		return Reject(ReasonInvalidRules, "work_start_minute must be within %d..%d", MinWorkStartMinute, MaxWorkStartMinute)
	}
	if r.WorkEndMinute < MinWorkEndMinute || r.WorkEndMinute > MaxWorkEndMinute {
		return Reject(ReasonInvalidRules, "work_end_minute must be within %d..%d", MinWorkEndMinute, MaxWorkEndMinute)
	}
	if r.MaxBookingMinutes < MinMaxBookingMinutes || r.MaxBookingMinutes > MaxMaxBookingMinutes {
		return Reject(ReasonInvalidRules, "max_booking_minutes must be within %d..%d", MinMaxBookingMinutes, MaxMaxBookingMinutes)
	}
	if r.SlotMinutes < MinSlotMinutes || r.SlotMinutes > MaxSlotMinutes {
		return Reject(ReasonInvalidRules, "slot_minutes must be within %d..%d", MinSlotMinutes, MaxSlotMinutes)
	}
	if r.WorkStartMinute >= r.WorkEndMinute {
		return Reject(ReasonInvalidRules, "work_start_minute must be less than work_end_minute")
	}
	if r.MaxBookingMinutes%r.SlotMinutes != 0 {
		return Reject(ReasonInvalidRules, "max_booking_minutes must be a multiple of slot_minutes")
	}
	return nil
}

// MinutesSinceMidnight returns the wall-clock minute of day in t's location
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ValidateInterval checks a candidate interval against the rule.
// Checks run in order and the first failure wins:
// duration > 0, duration <= max, working hours, slot alignment.
func ValidateInterval(interval Interval, rule BookingRule) error {
	duration := interval.Duration()
	if duration <= 0 {
		return Reject(ReasonInvalidDuration, "start_time must be before end_time")
	}

	if duration > time.Duration(rule.MaxBookingMinutes)*time.Minute {
		return Reject(ReasonMaxDurationExceeded, "maximum booking duration is %d minutes", rule.MaxBookingMinutes)
	}

	startMin := MinutesSinceMidnight(interval.Start)
	endMin := minutesSinceStartDay(interval.Start, interval.End)
	if startMin < rule.WorkStartMinute || endMin > rule.WorkEndMinute {
		return Reject(ReasonOutsideWorkingHours, "booking must be within office working hours (%s-%s)",
			FormatMinuteOfDay(rule.WorkStartMinute), FormatMinuteOfDay(rule.WorkEndMinute))
	}

	if !onMinuteBoundary(interval.Start) || !onMinuteBoundary(interval.End) ||
		startMin%rule.SlotMinutes != 0 || endMin%rule.SlotMinutes != 0 {
		return Reject(ReasonNotAlignedToSlot, "bookings must align to %d-minute slots", rule.SlotMinutes)
	}

	return nil
}

// FormatMinuteOfDay formats 540 as "09:00"
func FormatMinuteOfDay(minute int) string {
	if minute == 24*60 {
		return "24:00"
	}
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute).Format(TimeFormat)
}

// minutesSinceStartDay counts t's minute of day from the calendar day of start,
// so an end at next midnight yields 1440 rather than 0
func minutesSinceStartDay(start, t time.Time) int {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := t.Date()
	days := int(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC).Sub(time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)) / (24 * time.Hour))
	return days*24*60 + MinutesSinceMidnight(t)
}

func onMinuteBoundary(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0
}
