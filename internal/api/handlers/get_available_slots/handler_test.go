package get_available_slots

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
	getAvailableSlots "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_available_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got *getAvailableSlots.Request
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	return &getAvailableSlots.Response{
		RoomID:      req.RoomID,
		Date:        day,
		SlotMinutes: 30,
		Slots: []getAvailableSlots.Slot{
			{StartTime: start, EndTime: start.Add(30 * time.Minute), Free: true},
			{StartTime: start.Add(30 * time.Minute), EndTime: start.Add(time.Hour), Free: false},
		},
	}, nil
}

func newRequest(roomID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+roomID+"/slots?"+query, nil)
	return mux.SetURLVars(req, map[string]string{"roomId": roomID})
}

func TestHandler_Slots(t *testing.T) {
	uc := &stubUseCase{}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, newRequest("3", "date=2025-10-15"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.RoomID)

	var body SlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2025-10-15", body.Date)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "2025-10-15T09:00:00Z", body.Slots[0].StartTime)
	assert.True(t, body.Slots[0].Free)
	assert.False(t, body.Slots[1].Free)
}

func TestHandler_BadQuery(t *testing.T) {
	for _, query := range []string{"", "date=15.10.2025"} {
		uc := &stubUseCase{}
		rec := httptest.NewRecorder()

		NewHandler(uc, nopLogger{}).Handle(rec, newRequest("3", query))

		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Nil(t, uc.got)

		var body handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, handlers.CodeBadRequest, body.Code)
	}
}
