package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

func TestRespondRejection(t *testing.T) {
	tests := []struct {
		err    *domain.RejectionError
		status int
	}{
		{err: domain.ErrSlotConflict, status: http.StatusConflict},
		{err: domain.ErrRoomBlocked, status: http.StatusConflict},
		{err: domain.ErrRoomNotFound, status: http.StatusNotFound},
		{err: domain.ErrCapacityExceeded, status: http.StatusBadRequest},
		{err: domain.ErrForbidden, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Reason), func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondRejection(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, string(tt.err.Reason), body.Code)
			assert.Equal(t, tt.err.Message, body.Message)
		})
	}
}

func TestRespondInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondInternalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeInternal)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		RoomID int64 `json:"roomId"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"roomId": 3}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, int64(3), v.RoomID)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"roomId":`))
	assert.Error(t, DecodeJSON(r, &v))
}
