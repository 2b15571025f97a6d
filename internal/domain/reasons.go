package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// RejectReason machine-readable code of a business rejection
type RejectReason string

const (
	ReasonInvalidDuration     RejectReason = "INVALID_DURATION"
	ReasonMaxDurationExceeded RejectReason = "MAX_DURATION_EXCEEDED"
	ReasonOutsideWorkingHours RejectReason = "OUTSIDE_WORKING_HOURS"
	ReasonNotAlignedToSlot    RejectReason = "NOT_ALIGNED_TO_SLOT"
	ReasonInvalidAttendees    RejectReason = "INVALID_ATTENDEES"
	ReasonCapacityExceeded    RejectReason = "CAPACITY_EXCEEDED"
	ReasonRoomNotFound        RejectReason = "ROOM_NOT_FOUND"
	ReasonRoomBlocked         RejectReason = "ROOM_BLOCKED"
	ReasonSlotConflict        RejectReason = "SLOT_CONFLICT"

	ReasonBookingNotFound     RejectReason = "BOOKING_NOT_FOUND"
	ReasonForbidden           RejectReason = "FORBIDDEN"
	ReasonNotBookedStatus     RejectReason = "NOT_BOOKED_STATUS"
	ReasonAlreadyCheckedIn    RejectReason = "ALREADY_CHECKED_IN"
	ReasonCheckInWindowClosed RejectReason = "CHECKIN_WINDOW_CLOSED"
	ReasonAlreadyCancelled    RejectReason = "ALREADY_CANCELLED"
	ReasonInvalidRules        RejectReason = "INVALID_RULES"
)

// StatusClass returns the HTTP status class of the reason
func (r RejectReason) StatusClass() int {
	switch r {
	case ReasonRoomNotFound, ReasonBookingNotFound:
		return http.StatusNotFound
	case ReasonRoomBlocked, ReasonSlotConflict:
		return http.StatusConflict
	case ReasonForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// RejectionError is a business rejection carrying a reason code and a human message.
// errors.Is matches two rejections by reason code only.
type RejectionError struct {
	Reason  RejectReason
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Reason == e.Reason
}

// StatusClass returns the HTTP status class of the rejection
func (e *RejectionError) StatusClass() int {
	return e.Reason.StatusClass()
}

// Reject builds a rejection with a formatted message
func Reject(reason RejectReason, format string, v ...interface{}) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, v...)}
}

// AsRejection extracts a rejection from an error chain
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// Sentinels for errors.Is checks
var (
	ErrInvalidDuration     = &RejectionError{Reason: ReasonInvalidDuration, Message: "invalid booking duration"}
	ErrMaxDurationExceeded = &RejectionError{Reason: ReasonMaxDurationExceeded, Message: "maximum booking duration exceeded"}
	ErrOutsideWorkingHours = &RejectionError{Reason: ReasonOutsideWorkingHours, Message: "booking must be within office working hours"}
	ErrNotAlignedToSlot    = &RejectionError{Reason: ReasonNotAlignedToSlot, Message: "booking must align to slots"}
	ErrInvalidAttendees    = &RejectionError{Reason: ReasonInvalidAttendees, Message: "attendees must be a positive integer"}
	ErrCapacityExceeded    = &RejectionError{Reason: ReasonCapacityExceeded, Message: "attendees cannot exceed room capacity"}
	ErrRoomNotFound        = &RejectionError{Reason: ReasonRoomNotFound, Message: "room not found"}
	ErrRoomBlocked         = &RejectionError{Reason: ReasonRoomBlocked, Message: "room is blocked (maintenance)"}
	ErrSlotConflict        = &RejectionError{Reason: ReasonSlotConflict, Message: "time slot overlaps with an existing booking"}
	ErrBookingNotFound     = &RejectionError{Reason: ReasonBookingNotFound, Message: "booking not found"}
	ErrForbidden           = &RejectionError{Reason: ReasonForbidden, Message: "forbidden"}
	ErrNotBookedStatus     = &RejectionError{Reason: ReasonNotBookedStatus, Message: "only active bookings can be checked in"}
	ErrAlreadyCheckedIn    = &RejectionError{Reason: ReasonAlreadyCheckedIn, Message: "already checked in"}
	ErrCheckInWindowClosed = &RejectionError{Reason: ReasonCheckInWindowClosed, Message: "check-in window is closed for this booking"}
	ErrAlreadyCancelled    = &RejectionError{Reason: ReasonAlreadyCancelled, Message: "booking already cancelled"}
	ErrInvalidRules        = &RejectionError{Reason: ReasonInvalidRules, Message: "invalid rule values"}
)
