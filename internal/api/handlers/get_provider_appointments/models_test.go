package get_provider_appointments

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(4, 4, url.Values{
		"date":             {"2025-03-10"},
		"status":           {"confirmed"},
		"includeCancelled": {"true"},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *req.From)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), *req.To)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeCancelled)

	req, err = ToServiceRequest(4, 4, url.Values{
		"from": {"2025-03-10T09:00:00+03:00"},
		"to":   {"2025-03-12"},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), req.From.UTC())
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), *req.To)
	assert.Nil(t, req.Status)

	for _, bad := range []url.Values{
		{"date": {"10.03.2025"}},
		{"from": {"yesterday"}},
		{"includeCancelled": {"maybe"}},
	} {
		_, err := ToServiceRequest(4, 4, bad)
		assert.Error(t, err, bad.Encode())
	}
}
