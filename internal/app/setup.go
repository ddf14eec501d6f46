package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daybalance/daybalance-backend/internal/adapter/file"
	"github.com/daybalance/daybalance-backend/internal/adapter/ics"
	"github.com/daybalance/daybalance-backend/internal/adapter/postgres"
	pgcache "github.com/daybalance/daybalance-backend/internal/adapter/postgres/cache"
	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/internal/domain"
	"github.com/daybalance/daybalance-backend/internal/oracle"
	"github.com/daybalance/daybalance-backend/internal/service/burnout"
	"github.com/daybalance/daybalance-backend/internal/service/optimizer"
	"github.com/daybalance/daybalance-backend/internal/service/suggest"
	"github.com/daybalance/daybalance-backend/internal/service/voice"
)

// cacheStore is the persistence surface shared by the file and postgres
// backends.
type cacheStore interface {
	Load(ctx context.Context, userID string) (*domain.BurnoutCache, error)
	Save(ctx context.Context, cache *domain.BurnoutCache) error
}

// eventSource supplies raw calendar records for a user.
type eventSource interface {
	Events(ctx context.Context, userID string) ([]calendar.RawEvent, error)
}

// Components holds the wired application graph shared by the commands.
type Components struct {
	Cfg      *config.Config
	Log      *slog.Logger
	Location *time.Location

	Burnout   *burnout.Service
	Optimizer *optimizer.Service
	Suggest   *suggest.Service
	Voice     *voice.Service

	events eventSource
	pool   *pgxpool.Pool
}

// Events loads a user's raw calendar records and normalizes them into
// the interval model. A user with no calendar file gets an empty slice.
func (c *Components) Events(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	raws, err := c.events.Events(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return calendar.NormalizeAll(raws, c.Location), nil
}

// Setup loads dependencies for the selected storage backend and wires
// the service graph.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	loc := cfg.Calendar.Location()
	c := &Components{Cfg: cfg, Log: logger, Location: loc}

	var store cacheStore

	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		c.pool = pool
		store = pgcache.New(pool, loc)
	case "file":
		store = file.NewCacheStore(cfg.Storage.DataDir, loc)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// Event records always come from per-user files; only the cache
	// moves into postgres.
	var events eventSource
	switch cfg.Storage.EventFormat {
	case "ics":
		events = ics.NewSource(cfg.Storage.DataDir, loc, cfg.Calendar.HistoryDays, cfg.Calendar.HorizonDays, logger)
	case "json":
		events = file.NewEventSource(cfg.Storage.DataDir)
	default:
		return nil, fmt.Errorf("unknown event format %q", cfg.Storage.EventFormat)
	}
	c.events = events

	client := oracle.NewAnthropicClient(cfg.Oracle, logger)
	chain := oracle.NewChain(client, cfg.Oracle.Models(), cfg.Oracle.RetryDelay, logger)

	c.Burnout = burnout.NewService(logger, store, events, chain, cfg.Calendar, loc)
	c.Optimizer = optimizer.NewService(logger, chain, loc)
	c.Suggest = suggest.NewService(logger, loc)
	c.Voice = voice.NewService(logger, c.Burnout, cfg.Voice.ContextTTL)

	return c, nil
}

// Close releases backend resources.
func (c *Components) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
