// Package burnout manages the per-user burnout prediction cache: coverage
// checks, batched oracle refreshes with cumulative context, single-date
// fallbacks, and voice stress adjustments.
package burnout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

// cacheStore persists one burnout cache per user.
type cacheStore interface {
	Load(ctx context.Context, userID string) (*domain.BurnoutCache, error)
	Save(ctx context.Context, cache *domain.BurnoutCache) error
}

// eventSource supplies raw calendar records for a user.
type eventSource interface {
	Events(ctx context.Context, userID string) ([]calendar.RawEvent, error)
}

// oracleClient walks the model fallback chain and decodes the winning
// JSON response into out.
type oracleClient interface {
	Complete(ctx context.Context, prompt string, out any) error
}

// Service implements burnout cache operations.
type Service struct {
	log    *slog.Logger
	store  cacheStore
	events eventSource
	oracle oracleClient
	cfg    config.CalendarConfig
	loc    *time.Location
	now    func() time.Time

	// Cache read-modify-write is serialized per user. Concurrent requests
	// for the same user would otherwise race a refresh and break the
	// coverage and cumulative-order guarantees.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewService creates a new burnout service instance.
func NewService(
	logger *slog.Logger,
	store cacheStore,
	events eventSource,
	oracle oracleClient,
	cfg config.CalendarConfig,
	loc *time.Location,
) *Service {
	return &Service{
		log:       logger.With("service", "burnout"),
		store:     store,
		events:    events,
		oracle:    oracle,
		cfg:       cfg,
		loc:       loc,
		now:       time.Now,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing cache access for userID.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// today returns the current date in the configured location.
func (s *Service) today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

// loadOrInit loads the user's cache, creating an empty one with the
// configured default sleep window when none exists yet.
func (s *Service) loadOrInit(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
	cache, err := s.store.Load(ctx, userID)
	if err == nil {
		return cache, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	cache = domain.NewBurnoutCache(userID)
	cache.SleepTime = s.cfg.DefaultSleepTime
	cache.WakeTime = s.cfg.DefaultWakeTime
	return cache, nil
}
