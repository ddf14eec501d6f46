// Package calendar implements the interval model: normalization of raw
// provider event records into CalendarEvent values and free-slot search.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Naive (offset-free) layouts accepted for wall-clock timestamps.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// offsetLayouts carry explicit zone information.
var offsetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04-07:00",
}

// ParseProviderTime parses a timestamp coming from the calendar provider.
//
// Provider offsets are real information (the provider reports instants),
// so an offset-bearing timestamp is converted through its offset into loc
// and treated as wall-clock there. A trailing "Z" is rewritten to an
// explicit zero offset first. Offset-free timestamps are taken as already
// being wall-clock in loc. A bare date parses to local midnight.
func ParseProviderTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseOracleTime parses a timestamp echoed back by the oracle.
//
// The oracle is instructed to emit offset-free local wall-clock times, so
// any offset suffix it attaches is decoration, not information: it is
// stripped and the remainder is parsed as wall-clock in loc. Converting
// through a spurious offset would shift the event across hours (or days)
// and break same-day validation.
func ParseOracleTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	s = stripOffset(s)

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// stripOffset removes a trailing "Z" or "±HH:MM" zone suffix, if present.
func stripOffset(s string) string {
	if strings.HasSuffix(s, "Z") {
		return strings.TrimSuffix(s, "Z")
	}
	// An offset suffix is exactly 6 chars: sign, HH, colon, MM. Only strip
	// when the sign sits past the date part, so "2026-01-13" stays intact.
	if len(s) > 6 {
		sign := s[len(s)-6]
		if (sign == '+' || sign == '-') && s[len(s)-3] == ':' && strings.Contains(s, "T") {
			return s[:len(s)-6]
		}
	}
	return s
}
