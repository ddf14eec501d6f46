package burnout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

// Result is a prediction tagged with its provenance: served from the
// persisted cache, or produced by an ephemeral single-date fallback that
// was never written back.
type Result struct {
	Prediction domain.BurnoutPrediction
	Cached     bool
}

// Predict returns the burnout prediction for one date, refreshing the
// user's cache first when the date is missing or the coverage window
// {today..today+horizon-1} has holes.
func (s *Service) Predict(ctx context.Context, userID string, date domain.Date) (Result, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cache, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	today := s.today()
	_, haveDate := cache.Predictions[date]
	needsRefresh := !haveDate || !cache.Covers(today, s.cfg.HorizonDays)

	var events []domain.CalendarEvent
	if needsRefresh {
		events, err = s.loadEvents(ctx, userID)
		if err != nil {
			return Result{}, err
		}

		if refreshErr := s.refresh(ctx, cache, events, today); refreshErr != nil {
			s.log.WarnContext(ctx, "batch refresh failed, falling back to single date",
				slog.String("user_id", userID),
				slog.String("error", refreshErr.Error()),
			)
			p, singleErr := s.predictSingle(ctx, cache, events, date)
			if singleErr != nil {
				return Result{}, fmt.Errorf("predict %s for %q: %w", date, userID, singleErr)
			}
			return Result{Prediction: p, Cached: false}, nil
		}

		if err := s.store.Save(ctx, cache); err != nil {
			return Result{}, fmt.Errorf("save cache for %q: %w", userID, err)
		}
	}

	if p, ok := cache.Predictions[date]; ok {
		return Result{Prediction: p, Cached: true}, nil
	}

	// Requested date lies outside the refreshed window (far future or
	// never-cached past). Serve it ephemerally without touching the cache.
	if events == nil {
		events, err = s.loadEvents(ctx, userID)
		if err != nil {
			return Result{}, err
		}
	}
	p, err := s.predictSingle(ctx, cache, events, date)
	if err != nil {
		return Result{}, fmt.Errorf("predict %s for %q: %w", date, userID, err)
	}
	return Result{Prediction: p, Cached: false}, nil
}

// Refresh forces a batch refresh of the user's cache regardless of
// current coverage.
func (s *Service) Refresh(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cache, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return err
	}

	events, err := s.loadEvents(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.refresh(ctx, cache, events, s.today()); err != nil {
		return fmt.Errorf("refresh cache for %q: %w", userID, err)
	}
	if err := s.store.Save(ctx, cache); err != nil {
		return fmt.Errorf("save cache for %q: %w", userID, err)
	}
	return nil
}

// Cache returns the user's current cache without triggering a refresh.
func (s *Service) Cache(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Load(ctx, userID)
}

func (s *Service) loadEvents(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	raw, err := s.events.Events(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil // no calendar yet, predict over an empty schedule
		}
		return nil, fmt.Errorf("load events for %q: %w", userID, err)
	}
	return calendar.NormalizeAll(raw, s.loc), nil
}

// refresh issues one ordered batch request covering every day in
// {today..today+horizon-1} and merges the results into the cache.
// Already-cached past dates are kept; they feed the next batch's
// historical context. New results win on overlapping dates.
//
// The batch is deliberately a single oracle call: day k's score must be
// decided with days before it already on the table. Splitting this into
// per-day calls would lose the cumulative semantics.
func (s *Service) refresh(ctx context.Context, cache *domain.BurnoutCache, events []domain.CalendarEvent, today domain.Date) error {
	history := cache.RecentPredictions(today, s.cfg.HistoryDays)
	prompt := batchPrompt(cache, events, history, today, s.cfg.HorizonDays, s.loc)

	var resp predictionsResponse
	if err := s.oracle.Complete(ctx, prompt, &resp); err != nil {
		return err
	}

	merged := 0
	for _, item := range resp.Predictions {
		date, err := domain.ParseDate(item.Date)
		if err != nil {
			s.log.WarnContext(ctx, "dropping prediction with bad date", slog.String("date", item.Date))
			continue
		}
		// Score is clamped and status re-derived; oracle statuses are
		// never trusted.
		cache.Predictions[date] = domain.NewPrediction(date, item.Score, item.Reasoning)
		merged++
	}

	if !cache.Covers(today, s.cfg.HorizonDays) {
		return fmt.Errorf("oracle batch left coverage holes (%d merged)", merged)
	}

	cache.GeneratedAt = s.now().In(s.loc)
	s.log.InfoContext(ctx, "cache refreshed",
		slog.String("user_id", cache.UserID),
		slog.Int("predictions", merged),
	)
	return nil
}

// predictSingle asks for exactly one date. The result is validated the
// same way as batch output but never persisted.
func (s *Service) predictSingle(ctx context.Context, cache *domain.BurnoutCache, events []domain.CalendarEvent, date domain.Date) (domain.BurnoutPrediction, error) {
	history := cache.RecentPredictions(date, s.cfg.HistoryDays)
	prompt := singlePrompt(cache, events, history, date)

	var resp predictionsResponse
	if err := s.oracle.Complete(ctx, prompt, &resp); err != nil {
		return domain.BurnoutPrediction{}, err
	}
	if len(resp.Predictions) == 0 {
		return domain.BurnoutPrediction{}, fmt.Errorf("oracle returned no prediction for %s", date)
	}

	// Prefer the entry for the requested date, settle for the first.
	item := resp.Predictions[0]
	for _, cand := range resp.Predictions {
		if cand.Date == string(date) {
			item = cand
			break
		}
	}
	return domain.NewPrediction(date, item.Score, item.Reasoning), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
