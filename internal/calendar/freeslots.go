package calendar

import (
	"slices"
	"time"

	"github.com/daybalance/daybalance-backend/internal/domain"
)

// FreeSlots sweeps a day's events and returns every gap of at least
// minDuration within [dayStart, dayEnd].
//
// Events are sorted by start; a cursor walks forward from dayStart and a
// gap is emitted whenever the next event starts after the cursor. The
// cursor only ever advances, so overlapping source events never produce
// negative or duplicate gaps. With no events the whole window is one slot
// (when it clears the threshold).
func FreeSlots(events []domain.CalendarEvent, dayStart, dayEnd time.Time, minDuration time.Duration) []domain.FreeSlot {
	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b domain.CalendarEvent) int {
		return a.Start.Compare(b.Start)
	})

	var slots []domain.FreeSlot
	cursor := dayStart

	for _, ev := range sorted {
		if ev.Start.After(cursor) {
			gapEnd := ev.Start
			if gapEnd.After(dayEnd) {
				gapEnd = dayEnd
			}
			if gapEnd.Sub(cursor) >= minDuration {
				slots = append(slots, domain.FreeSlot{Start: cursor, End: gapEnd})
			}
		}
		if ev.End.After(cursor) {
			cursor = ev.End
		}
		if !cursor.Before(dayEnd) {
			return slots
		}
	}

	if dayEnd.Sub(cursor) >= minDuration {
		slots = append(slots, domain.FreeSlot{Start: cursor, End: dayEnd})
	}
	return slots
}

// EventsOnDate filters events whose start falls on the given date.
func EventsOnDate(events []domain.CalendarEvent, date domain.Date) []domain.CalendarEvent {
	out := make([]domain.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.Date() == date {
			out = append(out, ev)
		}
	}
	return out
}
