package domain

// Default rule values
const (
	DefaultWorkStartMinute   = 9 * 60
	DefaultWorkEndMinute     = 18 * 60
	DefaultMaxBookingMinutes = 120
	DefaultSlotMinutes       = 30
	DefaultAttendees         = 1
)

// Rule validation bounds
const (
	MinWorkStartMinute   = 0
	MaxWorkStartMinute   = 24*60 - 1
	MinWorkEndMinute     = 1
	MaxWorkEndMinute     = 24 * 60
	MinMaxBookingMinutes = 15
	MaxMaxBookingMinutes = 24 * 60
	MinSlotMinutes       = 5
	MaxSlotMinutes       = 240
)

// Room validation bounds
const (
	MaxRoomNameLength  = 255
	MaxRoomFloorLength = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// RuleSingletonID is the primary key of the only booking_rules row
const RuleSingletonID = 1
