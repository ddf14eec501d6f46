// Command checkin applies a voice check-in transcript to a user's
// prediction cache. The stress verdict comes from an upstream voice
// classifier and is passed in via -stressed; this command matches the
// transcript against the user's event titles and bumps the affected
// days' scores. Adjustments are printed as JSON.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/daybalance/daybalance-backend/internal/app"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/pkg/ctxutil"
)

func main() {
	userID := flag.String("user", "", "user identifier (required)")
	transcript := flag.String("transcript", "", "check-in transcript (default: read from stdin)")
	stressed := flag.Bool("stressed", false, "upstream classifier's stress verdict")
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

	text := *transcript
	if text == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("read transcript from stdin", slog.String("error", err.Error()))
			os.Exit(1)
		}
		text = string(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = ctxutil.WithUserID(ctx, *userID)

	components, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("setup", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	events, err := components.Events(ctx, *userID)
	if err != nil {
		logger.Error("load events", slog.String("user_id", *userID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessionID := components.Voice.StartCheckin(*userID, events)
	defer components.Voice.EndCheckin(sessionID)

	adjustments, err := components.Voice.ProcessTranscript(ctx, sessionID, text, *stressed)
	if err != nil {
		logger.Error("process transcript", slog.String("user_id", *userID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("check-in processed",
		slog.String("user_id", *userID),
		slog.Bool("stressed", *stressed),
		slog.Int("adjustments", len(adjustments)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(adjustments); err != nil {
		logger.Error("encode adjustments", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
