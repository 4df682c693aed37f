package get_barber_appointments

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	query := url.Values{}
	query.Set("date", "2026-03-10")
	query.Set("status", "confirmed")
	query.Set("includeInactive", "true")

	req, err := ToServiceRequest(7, 200, query)
	require.NoError(t, err)

	assert.Equal(t, int64(7), req.BarberID)
	assert.Equal(t, int64(200), req.UserID)
	require.NotNil(t, req.Date)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *req.Date)
	require.NotNil(t, req.Status)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeInactive)
}

func TestToServiceRequest_EmptyQuery(t *testing.T) {
	req, err := ToServiceRequest(7, 200, url.Values{})
	require.NoError(t, err)

	assert.Nil(t, req.Date)
	assert.Nil(t, req.Status)
	assert.False(t, req.IncludeInactive)
}

func TestToServiceRequest_InvalidDate(t *testing.T) {
	query := url.Values{}
	query.Set("date", "10.03.2026")

	_, err := ToServiceRequest(7, 200, query)
	require.Error(t, err)
}
