// Package optimizer asks the oracle for schedule rearrangements and
// validates every proposal before surfacing it. The oracle is a
// suggestion generator, never a source of truth: each claim of
// conflict-freedom is re-verified here.
package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

// oracleClient walks the model fallback chain and decodes the winning
// JSON response into out.
type oracleClient interface {
	Complete(ctx context.Context, prompt string, out any) error
}

// Service implements schedule optimization.
type Service struct {
	log    *slog.Logger
	oracle oracleClient
	loc    *time.Location
}

// NewService creates a new optimizer service instance.
func NewService(logger *slog.Logger, oracle oracleClient, loc *time.Location) *Service {
	return &Service{
		log:    logger.With("service", "optimizer"),
		oracle: oracle,
		loc:    loc,
	}
}

// SleepWindow is the nightly interval the optimizer must keep clear.
type SleepWindow struct {
	SleepTime string // "HH:MM"
	WakeTime  string // "HH:MM"
}

// Optimize proposes moves for malleable events inside
// [windowStart, windowEnd). Fixed events are never moved; proposals that
// collide with them, cross day boundaries, or cannot be resolved to a
// known malleable event are dropped silently.
func (s *Service) Optimize(ctx context.Context, events []domain.CalendarEvent, windowStart, windowEnd time.Time, sleep SleepWindow) ([]domain.ScheduleChange, error) {
	var fixed, malleable []domain.CalendarEvent
	for _, e := range events {
		if !e.Overlaps(windowStart, windowEnd) {
			continue
		}
		if e.Kind == domain.EventKindMalleable {
			malleable = append(malleable, e)
		} else {
			fixed = append(fixed, e)
		}
	}

	if len(malleable) == 0 {
		return nil, nil
	}

	prompt := optimizePrompt(fixed, malleable, windowStart, windowEnd, sleep)

	var resp proposalsResponse
	if err := s.oracle.Complete(ctx, prompt, &resp); err != nil {
		return nil, fmt.Errorf("optimize schedule: %w", err)
	}

	changes := make([]domain.ScheduleChange, 0, len(resp.ProposedChanges))
	for _, p := range resp.ProposedChanges {
		change, ok := s.validate(ctx, p, fixed, malleable)
		if !ok {
			continue
		}
		changes = append(changes, change)
	}

	s.log.InfoContext(ctx, "optimization complete",
		slog.Int("proposals", len(resp.ProposedChanges)),
		slog.Int("accepted", len(changes)),
	)
	return changes, nil
}

// validate applies the constraint checks to one oracle proposal. A
// rejected proposal is logged and dropped, never an error: a partial
// valid result beats failing the whole request.
func (s *Service) validate(ctx context.Context, p proposalItem, fixed, malleable []domain.CalendarEvent) (domain.ScheduleChange, bool) {
	reject := func(reason string) (domain.ScheduleChange, bool) {
		s.log.DebugContext(ctx, "dropping proposal",
			slog.String("event_id", p.EventID),
			slog.String("event_title", p.EventTitle),
			slog.String("reason", reason),
		)
		return domain.ScheduleChange{}, false
	}

	action := domain.ChangeAction(p.Action)
	if action != domain.ChangeActionMove {
		// keep proposals carry no change and are never surfaced
		return domain.ScheduleChange{}, false
	}

	event, ok := resolveEvent(p, malleable)
	if !ok {
		return reject("unresolved event")
	}

	// Oracle-echoed timestamps are parsed as local wall-clock; any offset
	// decoration is stripped, not converted.
	proposedStart, err := calendar.ParseOracleTime(p.ProposedStart, s.loc)
	if err != nil {
		return reject("bad proposed_start")
	}
	proposedEnd, err := calendar.ParseOracleTime(p.ProposedEnd, s.loc)
	if err != nil {
		return reject("bad proposed_end")
	}
	if !proposedEnd.After(proposedStart) {
		return reject("inverted proposed interval")
	}

	if domain.DateOf(proposedStart) != event.Date() {
		return reject("cross-day move")
	}

	for _, f := range fixed {
		if f.Date() != domain.DateOf(proposedStart) {
			continue
		}
		if f.Overlaps(proposedStart, proposedEnd) {
			return reject("overlaps fixed event " + f.Title)
		}
	}

	return domain.ScheduleChange{
		EventID:       event.ID,
		EventTitle:    event.Title,
		Action:        domain.ChangeActionMove,
		CurrentStart:  event.Start,
		CurrentEnd:    event.End,
		ProposedStart: proposedStart,
		ProposedEnd:   proposedEnd,
		Reasoning:     p.Reasoning,
	}, true
}

// resolveEvent finds the malleable event a proposal refers to: direct id
// match first, then case-insensitive title match. Oracles that echo the
// title back instead of the id must still be usable.
func resolveEvent(p proposalItem, malleable []domain.CalendarEvent) (domain.CalendarEvent, bool) {
	if p.EventID != "" {
		for _, e := range malleable {
			if e.ID == p.EventID {
				return e, true
			}
		}
	}
	for _, title := range []string{p.EventTitle, p.EventID} {
		if title == "" {
			continue
		}
		for _, e := range malleable {
			if strings.EqualFold(e.Title, title) {
				return e, true
			}
		}
	}
	return domain.CalendarEvent{}, false
}
