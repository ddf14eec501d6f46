// Command optimize asks the scheduling oracle for rearrangements of a
// user's malleable events inside a date window and prints the proposals
// that survive validation as JSON. Fixed events are never moved.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/daybalance/daybalance-backend/internal/app"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/internal/domain"
	"github.com/daybalance/daybalance-backend/internal/service/optimizer"
	"github.com/daybalance/daybalance-backend/pkg/ctxutil"
)

func main() {
	userID := flag.String("user", "", "user identifier (required)")
	fromArg := flag.String("from", "", "window start date, YYYY-MM-DD (default today)")
	days := flag.Int("days", 1, "window length in days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if *userID == "" {
		logger.Error("missing required -user flag")
		os.Exit(1)
	}
	if *days < 1 {
		logger.Error("-days must be at least 1")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithUserID(ctx, *userID)

	components, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("setup", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	from := domain.DateOf(time.Now().In(components.Location))
	if *fromArg != "" {
		from, err = domain.ParseDate(*fromArg)
		if err != nil {
			logger.Error("bad -from flag", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	events, err := components.Events(ctx, *userID)
	if err != nil {
		logger.Error("load events", slog.String("user_id", *userID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	sleep := optimizer.SleepWindow{
		SleepTime: cfg.Calendar.DefaultSleepTime,
		WakeTime:  cfg.Calendar.DefaultWakeTime,
	}
	if cache, err := components.Burnout.Cache(ctx, *userID); err == nil {
		sleep.SleepTime = cache.SleepTime
		sleep.WakeTime = cache.WakeTime
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("load cache", slog.String("user_id", *userID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	windowStart := from.Time(components.Location)
	windowEnd := from.AddDays(*days).Time(components.Location)

	changes, err := components.Optimizer.Optimize(ctx, events, windowStart, windowEnd, sleep)
	if err != nil {
		logger.Error("optimize failed", slog.String("user_id", *userID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("optimization complete",
		slog.String("user_id", *userID),
		slog.Int("changes", len(changes)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(changes); err != nil {
		logger.Error("encode changes", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
