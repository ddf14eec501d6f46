package ics

import (
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"
)

// Safety cap per recurring event so a runaway RRULE cannot blow up the
// occurrence list.
const maxOccurrencesPerEvent = 1000

type occurrence struct {
	UID         string
	Summary     string
	Description string
	Kind        string
	Start       time.Time
	End         time.Time
}

// expand turns parsed events into concrete occurrences inside
// [rangeStart, rangeEnd), converted into loc.
func expand(events []parsedEvent, rangeStart, rangeEnd time.Time, loc *time.Location, log *slog.Logger) []occurrence {
	out := make([]occurrence, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" {
			if ev.Start.Before(rangeEnd) && ev.End.After(rangeStart) {
				out = append(out, makeOccurrence(ev, ev.Start, ev.End, loc))
			}
			continue
		}
		out = append(out, expandRecurring(ev, rangeStart, rangeEnd, loc, log)...)
	}
	return out
}

func expandRecurring(ev parsedEvent, rangeStart, rangeEnd time.Time, loc *time.Location, log *slog.Logger) []occurrence {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		log.Warn("skipping event with bad rrule", "uid", ev.UID, "rrule", ev.RawRRule, "error", err)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	starts := set.Between(rangeStart.In(ev.Start.Location()), rangeEnd.In(ev.Start.Location()), true)
	if len(starts) > maxOccurrencesPerEvent {
		log.Warn("truncating recurring event occurrences", "uid", ev.UID, "cap", maxOccurrencesPerEvent)
		starts = starts[:maxOccurrencesPerEvent]
	}

	duration := ev.End.Sub(ev.Start)
	out := make([]occurrence, 0, len(starts))
	for _, start := range starts {
		end := start.Add(duration)
		if ev.AllDay {
			day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			start, end = day, day.Add(24*time.Hour)
		}
		out = append(out, makeOccurrence(ev, start, end, loc))
	}
	return out
}

func makeOccurrence(ev parsedEvent, start, end time.Time, loc *time.Location) occurrence {
	return occurrence{
		UID:         ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Kind:        ev.Kind,
		Start:       start.In(loc),
		End:         end.In(loc),
	}
}
