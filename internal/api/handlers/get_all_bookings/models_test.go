package get_all_bookings

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	query := url.Values{
		"roomId": {"2"},
		"userId": {"7"},
		"status": {"BOOKED"},
		"from":   {"2025-10-15T00:00:00Z"},
		"to":     {"2025-10-16T00:00:00Z"},
	}

	req, err := ToServiceRequest(query)
	require.NoError(t, err)

	require.NotNil(t, req.RoomID)
	assert.Equal(t, int64(2), *req.RoomID)
	require.NotNil(t, req.UserID)
	assert.Equal(t, int64(7), *req.UserID)
	require.NotNil(t, req.Status)
	assert.Equal(t, "BOOKED", *req.Status)
	require.NotNil(t, req.From)
	assert.True(t, req.From.Equal(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, req.To)
}

func TestToServiceRequest_Empty(t *testing.T) {
	req, err := ToServiceRequest(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, req.RoomID)
	assert.Nil(t, req.UserID)
	assert.Nil(t, req.Status)
	assert.Nil(t, req.From)
	assert.Nil(t, req.To)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	for _, query := range []url.Values{
		{"roomId": {"x"}},
		{"userId": {"1.5"}},
		{"from": {"2025-10-15"}},
		{"to": {"tomorrow"}},
	} {
		_, err := ToServiceRequest(query)
		assert.Error(t, err, query.Encode())
	}
}
