package domain

import "time"

// CalendarEvent is the normalized interval model for a single calendar
// entry. Start and End are wall-clock times in the user's configured
// location; all interval arithmetic happens in that one location.
//
// Events are value types: they are rebuilt from provider data on every
// request and never mutated in place — an update produces a new value.
type CalendarEvent struct {
	// ID is the provider's opaque identifier. Empty for synthetic
	// (suggested) events that have not been written back to the provider.
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Kind        EventKind
	Source      EventSource
}

// Duration returns the event length.
func (e CalendarEvent) Duration() time.Duration { return e.End.Sub(e.Start) }

// Date returns the calendar date of the event's start.
func (e CalendarEvent) Date() Date { return DateOf(e.Start) }

// Overlaps reports whether the half-open intervals [e.Start, e.End) and
// [start, end) intersect.
func (e CalendarEvent) Overlaps(start, end time.Time) bool {
	return start.Before(e.End) && end.After(e.Start)
}

// FreeSlot is a maximal gap between events, at least the requested
// minimum duration long. Computed on demand, never persisted.
type FreeSlot struct {
	Start time.Time
	End   time.Time
}

// Duration returns the slot length.
func (s FreeSlot) Duration() time.Duration { return s.End.Sub(s.Start) }
