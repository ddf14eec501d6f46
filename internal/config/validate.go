package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Calendar.validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	if len(c.Oracle.Models()) == 0 {
		return fmt.Errorf("oracle: models list must not be empty")
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle: timeout must be > 0 (got %v)", c.Oracle.Timeout)
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage: data_dir must be set for the file backend")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database: dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("storage: unknown backend %q (want file or postgres)", c.Storage.Backend)
	}

	switch c.Storage.EventFormat {
	case "json", "ics":
	default:
		return fmt.Errorf("storage: unknown event_format %q (want json or ics)", c.Storage.EventFormat)
	}

	return nil
}

func (c *CalendarConfig) validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		return fmt.Errorf("day_start_hour must be in [0,23] (got %d)", c.DayStartHour)
	}
	if c.DayEndHour <= c.DayStartHour || c.DayEndHour > 24 {
		return fmt.Errorf("day_end_hour must be in (day_start_hour,24] (got %d)", c.DayEndHour)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be > 0 (got %d)", c.HorizonDays)
	}
	if c.HistoryDays < 0 {
		return fmt.Errorf("history_days must be >= 0 (got %d)", c.HistoryDays)
	}
	if _, _, err := ParseClock(c.DefaultSleepTime); err != nil {
		return fmt.Errorf("default_sleep_time: %w", err)
	}
	if _, _, err := ParseClock(c.DefaultWakeTime); err != nil {
		return fmt.Errorf("default_wake_time: %w", err)
	}
	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c CalendarConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseClock parses a 24-hour "HH:MM" string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour, minute, nil
}
