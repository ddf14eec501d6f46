package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/daybalance/daybalance-backend/internal/domain"
)

// Adjustment weights for stress mentions. The first-mentioned date (by
// calendar order) carries more weight than follow-on mentions.
const (
	firstStressDelta = 5
	laterStressDelta = 3
)

// ApplyStressSignal bumps cached scores for dates mentioned in a
// stress-bearing voice check-in. Distinct mentioned dates sorted
// ascending get +5 for the first and +3 for each subsequent one. Dates
// without an existing prediction are skipped; this applier amends the
// cache, it never creates entries. All adjustments are persisted in one
// cache rewrite.
func (s *Service) ApplyStressSignal(ctx context.Context, userID string, stressed bool, mentions []domain.StressMention) ([]domain.ScoreAdjustment, error) {
	if !stressed || len(mentions) == 0 {
		return nil, nil
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cache, err := s.store.Load(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil // nothing cached, nothing to amend
		}
		return nil, err
	}

	dates := distinctDates(mentions)
	adjustments := make([]domain.ScoreAdjustment, 0, len(dates))

	for i, date := range dates {
		delta := laterStressDelta
		if i == 0 {
			delta = firstStressDelta
		}

		old, ok := cache.Predictions[date]
		if !ok {
			continue
		}

		updated := domain.NewPrediction(date, float64(old.Score+delta), old.Reasoning)
		cache.Predictions[date] = updated

		adjustments = append(adjustments, domain.ScoreAdjustment{
			Date:     date,
			Delta:    delta,
			OldScore: old.Score,
			NewScore: updated.Score,
			Status:   updated.Status,
		})
	}

	if len(adjustments) == 0 {
		return nil, nil
	}

	if err := s.store.Save(ctx, cache); err != nil {
		return nil, fmt.Errorf("save adjusted cache for %q: %w", userID, err)
	}

	s.log.InfoContext(ctx, "applied stress adjustments",
		slog.String("user_id", userID),
		slog.Int("adjusted", len(adjustments)),
	)
	return adjustments, nil
}

func distinctDates(mentions []domain.StressMention) []domain.Date {
	seen := make(map[domain.Date]struct{}, len(mentions))
	dates := make([]domain.Date, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := seen[m.EventDate]; ok {
			continue
		}
		seen[m.EventDate] = struct{}{}
		dates = append(dates, m.EventDate)
	}
	slices.Sort(dates)
	return dates
}
