package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckInDecision_Window(t *testing.T) {
	start := at(10, 0)
	booking := &Booking{Status: StatusBooked, StartTime: start, EndTime: start.Add(time.Hour)}

	tests := []struct {
		name string
		now  time.Time
		err  error
	}{
		{name: "16 minutes before", now: start.Add(-16 * time.Minute), err: ErrCheckInWindowClosed},
		{name: "15 minutes before", now: start.Add(-15 * time.Minute)},
		{name: "14 minutes before", now: start.Add(-14 * time.Minute)},
		{name: "at start", now: start},
		{name: "29 minutes after", now: start.Add(29 * time.Minute)},
		{name: "30 minutes after", now: start.Add(30 * time.Minute)},
		{name: "31 minutes after", now: start.Add(31 * time.Minute), err: ErrCheckInWindowClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInDecision(booking, tt.now)
			if tt.err == nil {
				assert.NoError(t, err)
				assert.True(t, CanCheckIn(booking, tt.now))
				return
			}
			assert.ErrorIs(t, err, tt.err)
			assert.False(t, CanCheckIn(booking, tt.now))
		})
	}
}

func TestCheckInDecision_State(t *testing.T) {
	start := at(10, 0)
	checkedIn := start.Add(-5 * time.Minute)

	cancelled := &Booking{Status: StatusCancelled, StartTime: start}
	assert.ErrorIs(t, CheckInDecision(cancelled, start), ErrNotBookedStatus)

	already := &Booking{Status: StatusBooked, StartTime: start, CheckedInAt: &checkedIn}
	assert.ErrorIs(t, CheckInDecision(already, start), ErrAlreadyCheckedIn)

	// Повторная отметка вне окна всё равно ALREADY_CHECKED_IN
	assert.ErrorIs(t, CheckInDecision(already, start.Add(2*time.Hour)), ErrAlreadyCheckedIn)
}
