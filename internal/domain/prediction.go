package domain

import (
	"math"
	"slices"
	"time"
)

// Score band thresholds. A score s maps to:
// s <= 30 stable, s <= 50 building, s <= 70 high-risk, else critical.
const (
	scoreStableMax   = 30
	scoreBuildingMax = 50
	scoreHighRiskMax = 70

	// ScoreMin and ScoreMax bound every stored burnout score.
	ScoreMin = 0
	ScoreMax = 100
)

// StatusForScore derives the categorical status for a score.
// This is the only way a BurnoutStatus may be produced; statuses coming
// from the oracle are overwritten with this value.
func StatusForScore(score int) BurnoutStatus {
	switch {
	case score <= scoreStableMax:
		return BurnoutStatusStable
	case score <= scoreBuildingMax:
		return BurnoutStatusBuilding
	case score <= scoreHighRiskMax:
		return BurnoutStatusHighRisk
	default:
		return BurnoutStatusCritical
	}
}

// ClampScore rounds a raw oracle score to the nearest integer and clamps
// it into [ScoreMin, ScoreMax].
func ClampScore(raw float64) int {
	score := int(math.Round(raw))
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// BurnoutPrediction is one day's predicted burnout level.
// Invariant: Status == StatusForScore(Score). Constructing through
// NewPrediction (or re-deriving via Normalized) keeps this true.
type BurnoutPrediction struct {
	Date      Date
	Score     int
	Status    BurnoutStatus
	Reasoning string
}

// NewPrediction builds a prediction from a raw oracle score, clamping the
// score and deriving the status.
func NewPrediction(date Date, rawScore float64, reasoning string) BurnoutPrediction {
	score := ClampScore(rawScore)
	return BurnoutPrediction{
		Date:      date,
		Score:     score,
		Status:    StatusForScore(score),
		Reasoning: reasoning,
	}
}

// Normalized returns a copy with the status re-derived from the score.
func (p BurnoutPrediction) Normalized() BurnoutPrediction {
	p.Score = ClampScore(float64(p.Score))
	p.Status = StatusForScore(p.Score)
	return p
}

// BurnoutCache is the per-user prediction cache.
//
// Coverage invariant: immediately after a successful refresh the key set
// of Predictions is a superset of {today .. today+13}. Past dates are
// left in place, never pruned.
type BurnoutCache struct {
	UserID      string
	GeneratedAt time.Time
	SleepTime   string // "HH:MM"
	WakeTime    string // "HH:MM"
	Predictions map[Date]BurnoutPrediction
}

// NewBurnoutCache creates an empty cache for a user.
func NewBurnoutCache(userID string) *BurnoutCache {
	return &BurnoutCache{
		UserID:      userID,
		Predictions: make(map[Date]BurnoutPrediction),
	}
}

// Covers reports whether the cache holds predictions for every date in
// [from, from+days).
func (c *BurnoutCache) Covers(from Date, days int) bool {
	for i := 0; i < days; i++ {
		if _, ok := c.Predictions[from.AddDays(i)]; !ok {
			return false
		}
	}
	return true
}

// RecentPredictions returns up to limit predictions dated strictly before
// the given date, in chronological order ending at the most recent.
func (c *BurnoutCache) RecentPredictions(before Date, limit int) []BurnoutPrediction {
	dates := make([]Date, 0, len(c.Predictions))
	for d := range c.Predictions {
		if d.Before(before) {
			dates = append(dates, d)
		}
	}
	slices.Sort(dates)
	if len(dates) > limit {
		dates = dates[len(dates)-limit:]
	}
	out := make([]BurnoutPrediction, 0, len(dates))
	for _, d := range dates {
		out = append(out, c.Predictions[d])
	}
	return out
}
