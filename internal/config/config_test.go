package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Timezone:         "America/Los_Angeles",
			DayStartHour:     9,
			DayEndHour:       17,
			HorizonDays:      14,
			HistoryDays:      7,
			DefaultSleepTime: "00:00",
			DefaultWakeTime:  "08:00",
		},
		Oracle: OracleConfig{
			ModelsRaw: "claude-haiku-4-5,claude-sonnet-4-5",
			Timeout:   1,
		},
		Storage: StorageConfig{Backend: "file", DataDir: "./user_data", EventFormat: "json"},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad timezone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }},
		{"inverted day window", func(c *Config) { c.Calendar.DayEndHour = 8 }},
		{"zero horizon", func(c *Config) { c.Calendar.HorizonDays = 0 }},
		{"bad sleep time", func(c *Config) { c.Calendar.DefaultSleepTime = "25:00" }},
		{"empty models", func(c *Config) { c.Oracle.ModelsRaw = " , " }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"unknown event format", func(c *Config) { c.Storage.EventFormat = "caldav" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOracleConfig_Models(t *testing.T) {
	t.Parallel()

	c := OracleConfig{ModelsRaw: " a , b,, c "}
	assert.Equal(t, []string{"a", "b", "c"}, c.Models())
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	h, m, err := ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	for _, bad := range []string{"24:00", "12:60", "noon", "8", "08:5x"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
