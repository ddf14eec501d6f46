// Command slots prints a user's free time for one date: the gaps between
// events inside the working-day window, plus suggested nap and meal
// blocks that fit those gaps. Output is JSON on stdout.
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
	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/internal/domain"
	"github.com/daybalance/daybalance-backend/pkg/ctxutil"
)

type slotOut struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type eventOut struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func main() {
	userID := flag.String("user", "", "user identifier (required)")
	dateArg := flag.String("date", "", "date to inspect, YYYY-MM-DD (default today)")
	minDuration := flag.Duration("min", 30*time.Minute, "minimum gap length to report")
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
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

	events, err := components.Events(ctx, *userID)
	if err != nil {
		logger.Error("load events", slog.String("user_id", *userID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	midnight := date.Time(components.Location)
	dayStart := midnight.Add(time.Duration(cfg.Calendar.DayStartHour) * time.Hour)
	dayEnd := midnight.Add(time.Duration(cfg.Calendar.DayEndHour) * time.Hour)

	dayEvents := calendar.EventsOnDate(events, date)
	free := calendar.FreeSlots(dayEvents, dayStart, dayEnd, *minDuration)
	naps := components.Suggest.NapTimes(events, date)
	meals := components.Suggest.MealWindows(events, date)

	out := struct {
		Date      domain.Date `json:"date"`
		FreeSlots []slotOut   `json:"free_slots"`
		Naps      []eventOut  `json:"naps"`
		Meals     []eventOut  `json:"meals"`
	}{Date: date, FreeSlots: []slotOut{}, Naps: []eventOut{}, Meals: []eventOut{}}

	for _, s := range free {
		out.FreeSlots = append(out.FreeSlots, slotOut{Start: s.Start, End: s.End})
	}
	for _, e := range naps {
		out.Naps = append(out.Naps, eventOut{Title: e.Title, Start: e.Start, End: e.End})
	}
	for _, e := range meals {
		out.Meals = append(out.Meals, eventOut{Title: e.Title, Start: e.Start, End: e.End})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
