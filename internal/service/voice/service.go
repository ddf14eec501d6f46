// Package voice manages voice check-in sessions: a short-lived per-user
// context of recent calendar events, matched against transcripts to
// produce stress signals for the burnout cache.
package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daybalance/daybalance-backend/internal/domain"
	"github.com/daybalance/daybalance-backend/internal/keystore"
)

// adjuster applies a stress signal to the user's cached predictions.
type adjuster interface {
	ApplyStressSignal(ctx context.Context, userID string, stressed bool, mentions []domain.StressMention) ([]domain.ScoreAdjustment, error)
}

// Session is the per-check-in context: the events the transcript may
// refer to. Entries expire on their own; a crashed client never leaks a
// session.
type Session struct {
	UserID    string
	Events    []domain.CalendarEvent
	StartedAt time.Time
}

// Service implements voice check-in operations.
type Service struct {
	log      *slog.Logger
	sessions *keystore.Store[Session]
	burnout  adjuster
}

// NewService creates a new voice service instance. Sessions live for ttl
// after creation.
func NewService(logger *slog.Logger, burnout adjuster, ttl time.Duration) *Service {
	return &Service{
		log:      logger.With("service", "voice"),
		sessions: keystore.New[Session](ttl),
		burnout:  burnout,
	}
}

// StartCheckin opens a session holding the events a transcript may
// mention and returns its id.
func (s *Service) StartCheckin(userID string, events []domain.CalendarEvent) string {
	sessionID := uuid.NewString()
	s.sessions.Put(sessionID, Session{
		UserID:    userID,
		Events:    events,
		StartedAt: time.Now(),
	})
	s.log.Info("checkin started", slog.String("user_id", userID), slog.String("session_id", sessionID))
	return sessionID
}

// EndCheckin discards a session. Ending an unknown or expired session is
// a no-op.
func (s *Service) EndCheckin(sessionID string) {
	s.sessions.Delete(sessionID)
}

// ProcessTranscript matches a transcript against the session's events
// and, when the transcript is stress-bearing, forwards the mentions to
// the burnout applier. domain.ErrNotFound when the session is unknown or
// has expired.
func (s *Service) ProcessTranscript(ctx context.Context, sessionID, transcript string, stressed bool) ([]domain.ScoreAdjustment, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
	}

	mentions := matchMentions(transcript, session.Events)
	if !stressed || len(mentions) == 0 {
		return nil, nil
	}

	adjustments, err := s.burnout.ApplyStressSignal(ctx, session.UserID, stressed, mentions)
	if err != nil {
		return nil, fmt.Errorf("apply stress signal: %w", err)
	}
	return adjustments, nil
}

// matchMentions finds events whose title appears in the transcript,
// case-insensitively. One mention per event occurrence; the applier
// dedupes dates.
func matchMentions(transcript string, events []domain.CalendarEvent) []domain.StressMention {
	lowered := strings.ToLower(transcript)

	var mentions []domain.StressMention
	for _, e := range events {
		title := strings.ToLower(strings.TrimSpace(e.Title))
		if title == "" {
			continue
		}
		if strings.Contains(lowered, title) {
			mentions = append(mentions, domain.StressMention{
				EventTitle: e.Title,
				EventDate:  e.Date(),
			})
		}
	}
	return mentions
}
