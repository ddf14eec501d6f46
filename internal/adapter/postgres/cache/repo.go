// Package cache implements the burnout cache store using PostgreSQL.
// One row per user; the prediction map is stored as jsonb.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/daybalance/daybalance-backend/internal/adapter/postgres"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

const table = "burnout_cache"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides burnout cache persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// New creates a new burnout cache repository. Timestamps read back from
// the database are interpreted in loc.
func New(pool *pgxpool.Pool, loc *time.Location) *Repo {
	return &Repo{pool: pool, loc: loc}
}

type predictionRecord struct {
	Score     int    `json:"score"`
	Status    string `json:"status"`
	Reasoning string `json:"reasoning"`
}

// Load returns the cached predictions for userID.
// domain.ErrNotFound when the user has no cache row.
func (r *Repo) Load(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
	sql, args, err := psql.
		Select("user_id", "generated_at", "sleep_time", "wake_time", "predictions").
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load query: %w", err)
	}

	var (
		cache           domain.BurnoutCache
		generatedAt     time.Time
		predictionsJSON []byte
	)
	row := r.pool.QueryRow(ctx, sql, args...)
	if err := row.Scan(&cache.UserID, &generatedAt, &cache.SleepTime, &cache.WakeTime, &predictionsJSON); err != nil {
		return nil, postgres.MapError(err, "burnout_cache", userID)
	}
	cache.GeneratedAt = generatedAt.In(r.loc)

	var records map[string]predictionRecord
	if err := json.Unmarshal(predictionsJSON, &records); err != nil {
		return nil, fmt.Errorf("decode predictions for %q: %w", userID, err)
	}

	cache.Predictions = make(map[domain.Date]domain.BurnoutPrediction, len(records))
	for rawDate, rec := range records {
		date, err := domain.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse prediction date %q: %w", rawDate, err)
		}
		// Stored status is advisory only, the score decides.
		cache.Predictions[date] = domain.NewPrediction(date, float64(rec.Score), rec.Reasoning)
	}

	return &cache, nil
}

// Save upserts the full cache row for cache.UserID.
func (r *Repo) Save(ctx context.Context, cache *domain.BurnoutCache) error {
	records := make(map[string]predictionRecord, len(cache.Predictions))
	for date, p := range cache.Predictions {
		records[string(date)] = predictionRecord{
			Score:     p.Score,
			Status:    p.Status.String(),
			Reasoning: p.Reasoning,
		}
	}
	predictionsJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode predictions for %q: %w", cache.UserID, err)
	}

	sql, args, err := psql.
		Insert(table).
		Columns("user_id", "generated_at", "sleep_time", "wake_time", "predictions").
		Values(cache.UserID, cache.GeneratedAt, cache.SleepTime, cache.WakeTime, predictionsJSON).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			generated_at = EXCLUDED.generated_at,
			sleep_time = EXCLUDED.sleep_time,
			wake_time = EXCLUDED.wake_time,
			predictions = EXCLUDED.predictions`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "burnout_cache", cache.UserID)
	}
	return nil
}

// Delete removes the cache row for userID. Deleting an absent row is not
// an error.
func (r *Repo) Delete(ctx context.Context, userID string) error {
	sql, args, err := psql.
		Delete(table).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "burnout_cache", userID)
	}
	return nil
}
