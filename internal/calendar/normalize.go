package calendar

import (
	"strings"
	"time"

	"github.com/daybalance/daybalance-backend/internal/domain"
)

// RawEvent is an untyped event record as supplied by the calendar
// provider collaborator. Providers disagree on field names and timestamp
// shapes; Normalize is the single place that handles the variants.
type RawEvent map[string]any

// defaultEventDuration is assumed when a record has no usable end time.
const defaultEventDuration = time.Hour

// Normalize converts one raw record into a CalendarEvent.
//
// Accepted timestamp encodings:
//   - a nested object under "start"/"end" with a "dateTime" or "date" key
//     (Google-style records), or
//   - a flat string under "start", "start_time" or "startTime" (and the
//     matching end variants).
//
// A record whose start cannot be parsed is skipped (ok=false), never an
// error: one malformed event must not abort the rest of the set. A
// missing, malformed or non-positive end is derived as start + 1h.
func Normalize(raw RawEvent, loc *time.Location) (domain.CalendarEvent, bool) {
	start, ok := extractTime(raw, loc, "start", "start_time", "startTime")
	if !ok {
		return domain.CalendarEvent{}, false
	}

	end, ok := extractTime(raw, loc, "end", "end_time", "endTime")
	if !ok || !end.After(start) {
		end = start.Add(defaultEventDuration)
	}

	return domain.CalendarEvent{
		ID:          stringField(raw, "id"),
		Title:       titleField(raw),
		Start:       start,
		End:         end,
		Description: stringField(raw, "description"),
		Kind:        kindField(raw),
		Source:      domain.EventSourceProvider,
	}, true
}

// NormalizeAll normalizes a batch, silently dropping unusable records.
func NormalizeAll(raws []RawEvent, loc *time.Location) []domain.CalendarEvent {
	out := make([]domain.CalendarEvent, 0, len(raws))
	for _, raw := range raws {
		if ev, ok := Normalize(raw, loc); ok {
			out = append(out, ev)
		}
	}
	return out
}

// extractTime tries each candidate key in order, accepting either the
// nested {"dateTime": ..., "date": ...} object or a flat string.
func extractTime(raw RawEvent, loc *time.Location, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		v, present := raw[key]
		if !present {
			continue
		}

		switch tv := v.(type) {
		case map[string]any:
			if s, ok := tv["dateTime"].(string); ok {
				if t, err := ParseProviderTime(s, loc); err == nil {
					return t, true
				}
				return time.Time{}, false
			}
			if s, ok := tv["date"].(string); ok {
				if t, err := ParseProviderTime(s, loc); err == nil {
					return t, true
				}
				return time.Time{}, false
			}
		case string:
			if t, err := ParseProviderTime(tv, loc); err == nil {
				return t, true
			}
			return time.Time{}, false
		}
	}
	return time.Time{}, false
}

func stringField(raw RawEvent, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func titleField(raw RawEvent) string {
	if s := stringField(raw, "title"); s != "" {
		return s
	}
	if s := stringField(raw, "summary"); s != "" {
		return s
	}
	return "Untitled"
}

// kindField reads the optional flexibility tag. Events default to fixed:
// only explicitly flexible entries may be rescheduled.
func kindField(raw RawEvent) domain.EventKind {
	for _, key := range []string{"kind", "flexibility"} {
		switch strings.ToLower(stringField(raw, key)) {
		case "malleable", "flexible":
			return domain.EventKindMalleable
		case "fixed":
			return domain.EventKindFixed
		}
	}
	return domain.EventKindFixed
}
