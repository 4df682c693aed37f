package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
[database]
host = "localhost"
user = "postgres"
dbname = "scheduling"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, domain.DefaultSlotGranularityMinutes, cfg.Booking.SlotGranularityMinutes)
	assert.Equal(t, 5, cfg.Booking.CommitTimeoutSeconds)
	assert.Zero(t, cfg.Booking.AdvanceBookingDays)
	assert.Zero(t, cfg.Booking.MinBookingNoticeMinutes)
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[booking]
slot_granularity_minutes = 15
advance_booking_days = 14
min_booking_notice_minutes = 60
`))
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Booking.SlotGranularityMinutes)
	assert.Equal(t, 14, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, 60, cfg.Booking.MinBookingNoticeMinutes)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing database host", content: `
[database]
user = "postgres"
dbname = "scheduling"
`},
		{name: "granularity out of range", content: minimalConfig + `
[booking]
slot_granularity_minutes = 3
`},
		{name: "negative advance booking days", content: minimalConfig + `
[booking]
advance_booking_days = -1
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
