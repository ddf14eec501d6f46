// Command predict prints the burnout prediction for one user and date,
// refreshing the user's prediction cache first when needed. The result
// is written to stdout as JSON.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/daybalance/daybalance-backend/internal/app"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/internal/domain"
	"github.com/daybalance/daybalance-backend/pkg/ctxutil"
)

func main() {
	userID := flag.String("user", "", "user identifier (required)")
	dateArg := flag.String("date", "", "date to predict, YYYY-MM-DD (default today)")
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithUserID(ctx, *userID)

	components, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("setup", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	date := domain.DateOf(time.Now().In(components.Location))
	if *dateArg != "" {
		date, err = domain.ParseDate(*dateArg)
		if err != nil {
			logger.Error("bad -date flag", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	result, err := components.Burnout.Predict(ctx, *userID, date)
	if err != nil {
		logger.Error("predict failed",
			slog.String("user_id", *userID),
			slog.String("date", date.String()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	out := struct {
		Date      domain.Date          `json:"date"`
		Score     int                  `json:"score"`
		Status    domain.BurnoutStatus `json:"status"`
		Reasoning string               `json:"reasoning,omitempty"`
		Cached    bool                 `json:"cached"`
	}{
		Date:      result.Prediction.Date,
		Score:     result.Prediction.Score,
		Status:    result.Prediction.Status,
		Reasoning: result.Prediction.Reasoning,
		Cached:    result.Cached,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
