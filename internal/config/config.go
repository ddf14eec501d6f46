package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Calendar CalendarConfig `yaml:"calendar"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Voice    VoiceConfig    `yaml:"voice"`
	Log      LogConfig      `yaml:"log"`
}

// CalendarConfig holds interval-model and scheduling settings.
// All event arithmetic happens as wall-clock time in Timezone.
type CalendarConfig struct {
	Timezone         string `yaml:"timezone"           env:"CALENDAR_TIMEZONE"           env-default:"America/Los_Angeles"`
	DayStartHour     int    `yaml:"day_start_hour"     env:"CALENDAR_DAY_START_HOUR"     env-default:"9"`
	DayEndHour       int    `yaml:"day_end_hour"       env:"CALENDAR_DAY_END_HOUR"       env-default:"17"`
	HorizonDays      int    `yaml:"horizon_days"       env:"CALENDAR_HORIZON_DAYS"       env-default:"14"`
	HistoryDays      int    `yaml:"history_days"       env:"CALENDAR_HISTORY_DAYS"       env-default:"7"`
	DefaultSleepTime string `yaml:"default_sleep_time" env:"CALENDAR_DEFAULT_SLEEP_TIME" env-default:"00:00"`
	DefaultWakeTime  string `yaml:"default_wake_time"  env:"CALENDAR_DEFAULT_WAKE_TIME"  env-default:"08:00"`
}

// OracleConfig holds settings for the external scoring/optimization oracle.
// Models is an ordered priority list; on a quota-class failure the next
// identifier is tried.
type OracleConfig struct {
	APIKey     string        `yaml:"api_key"     env:"ORACLE_API_KEY"`
	ModelsRaw  string        `yaml:"models"      env:"ORACLE_MODELS"      env-default:"claude-haiku-4-5,claude-sonnet-4-5"`
	MaxTokens  int           `yaml:"max_tokens"  env:"ORACLE_MAX_TOKENS"  env-default:"4096"`
	Timeout    time.Duration `yaml:"timeout"     env:"ORACLE_TIMEOUT"     env-default:"60s"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"ORACLE_RETRY_DELAY" env-default:"2s"`
}

// Models returns the parsed ordered model identifier list.
func (c OracleConfig) Models() []string {
	parts := strings.Split(c.ModelsRaw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StorageConfig selects the cache/event persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"  env:"STORAGE_BACKEND" env-default:"file"`
	DataDir string `yaml:"data_dir" env:"STORAGE_DATA_DIR" env-default:"./user_data"`

	// EventFormat selects how per-user calendar files are read:
	// "json" for raw record dumps, "ics" for iCalendar files.
	EventFormat string `yaml:"event_format" env:"STORAGE_EVENT_FORMAT" env-default:"json"`
}

// DatabaseConfig holds PostgreSQL settings (used when storage.backend=postgres).
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// VoiceConfig holds voice check-in settings.
type VoiceConfig struct {
	ContextTTL time.Duration `yaml:"context_ttl" env:"VOICE_CONTEXT_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
