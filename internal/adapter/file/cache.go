// Package file implements flat-file storage adapters: a per-user JSON
// burnout cache store and a raw calendar event source. Intended for
// single-node deployments where postgres is not available.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/daybalance/daybalance-backend/internal/domain"
)

const generatedAtLayout = "2006-01-02T15:04:05"

// CacheStore persists one burnout cache per user as
// <dataDir>/<userID>_burnout_cache.json.
type CacheStore struct {
	dataDir string
	loc     *time.Location
}

func NewCacheStore(dataDir string, loc *time.Location) *CacheStore {
	return &CacheStore{dataDir: dataDir, loc: loc}
}

type predictionDTO struct {
	Score     int    `json:"score"`
	Status    string `json:"status"`
	Reasoning string `json:"reasoning"`
}

type cacheDTO struct {
	UserID      string                   `json:"user_id"`
	GeneratedAt string                   `json:"generated_at"`
	SleepTime   string                   `json:"sleep_time"`
	WakeTime    string                   `json:"wake_time"`
	Predictions map[string]predictionDTO `json:"predictions"`
}

func (s *CacheStore) path(userID string) string {
	return filepath.Join(s.dataDir, userID+"_burnout_cache.json")
}

// Load reads the cache for userID. Returns domain.ErrNotFound when no
// cache file exists yet.
func (s *CacheStore) Load(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load cache for %q: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load cache for %q: %w", userID, err)
	}

	var dto cacheDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode cache for %q: %w", userID, err)
	}
	return s.toDomain(dto)
}

// Save atomically replaces the cache file for cache.UserID.
func (s *CacheStore) Save(ctx context.Context, cache *domain.BurnoutCache) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	data, err := json.MarshalIndent(fromDomain(cache), "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache for %q: %w", cache.UserID, err)
	}

	// Write to a temp file in the same directory, then rename. Readers
	// never observe a partially written cache.
	tmp, err := os.CreateTemp(s.dataDir, cache.UserID+"_burnout_cache.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(cache.UserID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

func (s *CacheStore) toDomain(dto cacheDTO) (*domain.BurnoutCache, error) {
	generatedAt, err := time.ParseInLocation(generatedAtLayout, dto.GeneratedAt, s.loc)
	if err != nil {
		return nil, fmt.Errorf("parse generated_at %q: %w", dto.GeneratedAt, err)
	}

	predictions := make(map[domain.Date]domain.BurnoutPrediction, len(dto.Predictions))
	for rawDate, p := range dto.Predictions {
		date, err := domain.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse prediction date %q: %w", rawDate, err)
		}
		// Stored status is advisory only, the score decides.
		predictions[date] = domain.NewPrediction(date, float64(p.Score), p.Reasoning)
	}

	return &domain.BurnoutCache{
		UserID:      dto.UserID,
		GeneratedAt: generatedAt,
		SleepTime:   dto.SleepTime,
		WakeTime:    dto.WakeTime,
		Predictions: predictions,
	}, nil
}

func fromDomain(cache *domain.BurnoutCache) cacheDTO {
	predictions := make(map[string]predictionDTO, len(cache.Predictions))
	for date, p := range cache.Predictions {
		predictions[string(date)] = predictionDTO{
			Score:     p.Score,
			Status:    p.Status.String(),
			Reasoning: p.Reasoning,
		}
	}
	return cacheDTO{
		UserID:      cache.UserID,
		GeneratedAt: cache.GeneratedAt.Format(generatedAtLayout),
		SleepTime:   cache.SleepTime,
		WakeTime:    cache.WakeTime,
		Predictions: predictions,
	}
}
