// Package ics reads calendar events from iCalendar files. Parsed VEVENTs,
// including recurring ones, are expanded into concrete occurrences and
// handed to the interval model as raw records.
package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

const recordTimeLayout = "2006-01-02T15:04:05"

// Source reads <dataDir>/<userID>.ics and expands its events over a
// rolling window around today.
type Source struct {
	dataDir     string
	loc         *time.Location
	historyDays int
	horizonDays int
	log         *slog.Logger
	now         func() time.Time
}

func NewSource(dataDir string, loc *time.Location, historyDays, horizonDays int, logger *slog.Logger) *Source {
	return &Source{
		dataDir:     dataDir,
		loc:         loc,
		historyDays: historyDays,
		horizonDays: horizonDays,
		log:         logger.With("source", "ics"),
		now:         time.Now,
	}
}

// Events parses the user's ICS file and returns raw event records for
// every occurrence inside [today-historyDays, today+horizonDays).
// A missing file is domain.ErrNotFound.
func (s *Source) Events(ctx context.Context, userID string) ([]calendar.RawEvent, error) {
	path := filepath.Join(s.dataDir, userID+".ics")
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load ics for %q: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load ics for %q: %w", userID, err)
	}

	parsed, err := parseCalendar(body, s.loc, s.log)
	if err != nil {
		return nil, fmt.Errorf("parse ics for %q: %w", userID, err)
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	rangeStart := today.AddDate(0, 0, -s.historyDays)
	rangeEnd := today.AddDate(0, 0, s.horizonDays)

	occurrences := expand(parsed, rangeStart, rangeEnd, s.loc, s.log)

	records := make([]calendar.RawEvent, 0, len(occurrences))
	for _, occ := range occurrences {
		rec := calendar.RawEvent{
			"id":         occ.UID + "/" + occ.Start.Format(recordTimeLayout),
			"title":      occ.Summary,
			"start_time": occ.Start.Format(recordTimeLayout),
			"end_time":   occ.End.Format(recordTimeLayout),
		}
		if occ.Description != "" {
			rec["description"] = occ.Description
		}
		if occ.Kind != "" {
			rec["kind"] = occ.Kind
		}
		records = append(records, rec)
	}
	return records, nil
}

type parsedEvent struct {
	UID         string
	Summary     string
	Description string
	Kind        string
	Start       time.Time
	End         time.Time
	AllDay      bool
	RawRRule    string
	ExDates     []time.Time
}

func parseCalendar(body []byte, loc *time.Location, log *slog.Logger) ([]parsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]parsedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve, loc)
		if err != nil {
			// Skip the broken VEVENT, keep the rest of the calendar.
			log.Warn("skipping unparseable vevent", "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (parsedEvent, error) {
	var out parsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	// CATEGORIES carrying "flexible" or "malleable" marks an event the
	// optimizer may move.
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		for _, cat := range strings.Split(p.Value, ",") {
			switch strings.ToLower(strings.TrimSpace(cat)) {
			case "flexible", "malleable":
				out.Kind = "malleable"
			}
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("dtstart: %w", err)
	}
	out.Start = start.In(loc)

	if end, err := ve.GetEndAt(); err == nil {
		out.End = end.In(loc)
	} else {
		out.End = out.Start.Add(time.Hour)
	}

	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if !strings.Contains(dtStart.Value, "T") {
			out.AllDay = true
		}
		if params := dtStart.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				out.AllDay = true
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses a basic ICS date or date-time value.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
