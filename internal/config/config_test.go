package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "db"
port = 5433
user = "scheduler"
password = "secret"
dbname = "scheduling"

[logs]
level = "debug"

[provider_service]
url = "http://providers:8080"
timeout = 3

[patient_service]
url = "http://patients:8080"

[scheduling]
default_timezone = "Europe/Moscow"
offered_durations = [30, 60]

[public_booking]
rate_per_second = 0.5
burst = 3
trusted_proxies = ["10.0.0.0/8", "192.168.1.5"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout, "default kept")
	assert.Equal(t, "host=db port=5433 user=scheduler password=secret dbname=scheduling sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 3*time.Second, cfg.ProviderService.TimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.PatientService.TimeoutDuration())
	assert.Equal(t, []int{30, 60}, cfg.Scheduling.OfferedDurations)
	assert.Equal(t, 480, cfg.Scheduling.MaxAppointmentDurationMinutes)
	assert.Equal(t, 20*time.Millisecond, cfg.Scheduling.SerializationRetryBackoff())
	assert.Equal(t, 3, cfg.PublicBooking.Burst)

	proxies, err := cfg.PublicBooking.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.5/32"),
	}, proxies)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no provider service",
			content: "[database]\nhost = \"db\"\ndbname = \"x\"\n[patient_service]\nurl = \"http://p\"\n",
		},
		{
			name:    "bad timezone",
			content: strings.Replace(sampleConfig, `"Europe/Moscow"`, `"Nowhere/City"`, 1),
		},
		{
			name:    "duration above max",
			content: strings.Replace(sampleConfig, "[30, 60]", "[30, 600]", 1),
		},
		{
			name:    "max duration above hard limit",
			content: strings.Replace(sampleConfig, "[scheduling]", "[scheduling]\nmax_appointment_duration_minutes = 600", 1),
		},
		{
			name:    "negative retry backoff",
			content: strings.Replace(sampleConfig, "[scheduling]", "[scheduling]\nserialization_retry_backoff_ms = -5", 1),
		},
		{
			name:    "bad trusted proxy",
			content: strings.Replace(sampleConfig, `"192.168.1.5"`, `"proxy.local"`, 1),
		},
		{
			name:    "zero burst",
			content: strings.Replace(sampleConfig, "burst = 3", "burst = 0", 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
