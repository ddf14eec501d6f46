// Command refresher keeps prediction caches warm. It runs as a daemon
// and refreshes the caches of the listed users on a cron schedule, so
// interactive predictions are served from the cache instead of waiting
// on the oracle.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/daybalance/daybalance-backend/internal/app"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/pkg/ctxutil"
)

func main() {
	usersArg := flag.String("users", "", "comma-separated user identifiers to refresh (required)")
	schedule := flag.String("schedule", "0 5 * * *", "cron schedule for refresh runs")
	runNow := flag.Bool("now", false, "run one refresh immediately on startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	users := splitUsers(*usersArg)
	if len(users) == 0 {
		logger.Error("missing required -users flag")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("setup", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	refresh := func() { refreshAll(ctx, components, users) }

	if *runNow {
		refresh()
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, refresh); err != nil {
		logger.Error("bad -schedule flag", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("refresher started",
		slog.String("version", app.BuildVersion()),
		slog.String("schedule", *schedule),
		slog.Int("users", len(users)),
	)
	c.Start()

	<-ctx.Done()
	logger.Info("shutting down, waiting for running jobs")
	<-c.Stop().Done()
}

func refreshAll(ctx context.Context, components *app.Components, users []string) {
	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
	for _, userID := range users {
		runCtx, cancel := context.WithTimeout(ctxutil.WithUserID(ctx, userID), 5*time.Minute)
		err := components.Burnout.Refresh(runCtx, userID)
		cancel()
		if err != nil {
			components.Log.ErrorContext(ctx, "refresh failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			continue
		}
		components.Log.InfoContext(ctx, "cache refreshed", slog.String("user_id", userID))
	}
}

func splitUsers(raw string) []string {
	var users []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			users = append(users, p)
		}
	}
	return users
}
