package get_room_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got  *checkAvailability.Request
	resp *checkAvailability.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	s.got = req
	return s.resp, s.err
}

func newRequest(roomID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+roomID+"/availability?"+query, nil)
	return mux.SetURLVars(req, map[string]string{"roomId": roomID})
}

func TestHandler_Conflicts(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &checkAvailability.Response{
		RoomID:    1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Available: false,
		Conflicts: []checkAvailability.Conflict{
			{BookingID: 5, StartTime: start, EndTime: start.Add(30 * time.Minute)},
		},
	}}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest("1", "start=2025-10-15T10:00:00Z&end=2025-10-15T11:00:00Z"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.True(t, uc.got.EndTime.Equal(start.Add(time.Hour)))

	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Available)
	assert.Nil(t, body.Reason)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, int64(5), body.Conflicts[0].BookingID)
}

func TestHandler_RuleReason(t *testing.T) {
	reason := domain.ReasonOutsideWorkingHours
	message := "outside"
	uc := &stubUseCase{resp: &checkAvailability.Response{RoomID: 1, Reason: &reason, Message: &message}}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest("1", "start=2025-10-15T06:00:00Z&end=2025-10-15T07:00:00Z"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Reason)
	assert.Equal(t, "OUTSIDE_WORKING_HOURS", *body.Reason)
	assert.Empty(t, body.Conflicts)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		roomID string
		query  string
		err    error
		status int
		code   string
	}{
		{name: "bad room", roomID: "x", query: "start=2025-10-15T10:00:00Z&end=2025-10-15T11:00:00Z", status: http.StatusBadRequest, code: handlers.CodeBadRequest},
		{name: "missing end", roomID: "1", query: "start=2025-10-15T10:00:00Z", status: http.StatusBadRequest, code: handlers.CodeBadRequest},
		{name: "empty interval", roomID: "1", query: "start=2025-10-15T10:00:00Z&end=2025-10-15T10:00:00Z", err: domain.ErrInvalidDuration, status: http.StatusBadRequest, code: "INVALID_DURATION"},
		{name: "room missing", roomID: "1", query: "start=2025-10-15T10:00:00Z&end=2025-10-15T11:00:00Z", err: domain.ErrRoomNotFound, status: http.StatusNotFound, code: "ROOM_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(&stubUseCase{err: tt.err}, nopLogger{}).Handle(rec, newRequest(tt.roomID, tt.query))

			assert.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}
