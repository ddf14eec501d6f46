package burnout

import (
	"fmt"
	"strings"
	"time"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

const promptTimeLayout = "15:04"

// batchPrompt builds the single ordered request covering every day of the
// refresh window. History and upcoming days are both chronological so the
// model can carry accumulated load forward day by day.
func batchPrompt(cache *domain.BurnoutCache, events []domain.CalendarEvent, history []domain.BurnoutPrediction, today domain.Date, days int, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("You are a burnout risk assessor. Rate the burnout risk for each of the ")
	fmt.Fprintf(&b, "%d days below on a scale of 0-100 ", days)
	b.WriteString("(0-30 stable, 31-50 building, 51-70 high-risk, 71-100 critical).\n\n")

	fmt.Fprintf(&b, "The user sleeps from %s to %s.\n\n", cache.SleepTime, cache.WakeTime)

	if len(history) > 0 {
		b.WriteString("Previous burnout scores, oldest first:\n")
		for _, p := range history {
			fmt.Fprintf(&b, "- %s: %d (%s)\n", p.Date, p.Score, p.Status)
		}
		b.WriteString("\n")
	}

	b.WriteString("Upcoming schedule, in order:\n")
	for i := 0; i < days; i++ {
		date := today.AddDays(i)
		writeDaySchedule(&b, date, events)
	}

	b.WriteString("\nBurnout accumulates: a heavy day after several heavy days scores higher than ")
	b.WriteString("the same day after rest. Score the days in order, letting each day's score ")
	b.WriteString("reflect the load already accumulated on the days before it, including the ")
	b.WriteString("previous scores listed above. Recovery on light days is gradual, not instant.\n\n")

	writeResponseContract(&b, days)
	return b.String()
}

// singlePrompt asks for exactly one date. Used as a fallback when the
// batch request fails; the result is served but never cached.
func singlePrompt(cache *domain.BurnoutCache, events []domain.CalendarEvent, history []domain.BurnoutPrediction, date domain.Date) string {
	var b strings.Builder

	b.WriteString("You are a burnout risk assessor. Rate the burnout risk for the day below ")
	b.WriteString("on a scale of 0-100 (0-30 stable, 31-50 building, 51-70 high-risk, 71-100 critical).\n\n")

	fmt.Fprintf(&b, "The user sleeps from %s to %s.\n\n", cache.SleepTime, cache.WakeTime)

	if len(history) > 0 {
		b.WriteString("Previous burnout scores, oldest first:\n")
		for _, p := range history {
			fmt.Fprintf(&b, "- %s: %d (%s)\n", p.Date, p.Score, p.Status)
		}
		b.WriteString("\n")
	}

	b.WriteString("Schedule:\n")
	writeDaySchedule(&b, date, events)
	b.WriteString("\n")

	writeResponseContract(&b, 1)
	return b.String()
}

func writeDaySchedule(b *strings.Builder, date domain.Date, events []domain.CalendarEvent) {
	fmt.Fprintf(b, "%s:\n", date)
	onDate := calendar.EventsOnDate(events, date)
	if len(onDate) == 0 {
		b.WriteString("  (no events)\n")
		return
	}
	for _, e := range onDate {
		fmt.Fprintf(b, "  %s-%s %s", e.Start.Format(promptTimeLayout), e.End.Format(promptTimeLayout), e.Title)
		if e.Description != "" {
			fmt.Fprintf(b, " (%s)", e.Description)
		}
		b.WriteString("\n")
	}
}

func writeResponseContract(b *strings.Builder, days int) {
	b.WriteString("Respond with ONLY a JSON object, no prose, in exactly this form:\n")
	b.WriteString(`{"predictions": [{"date": "YYYY-MM-DD", "score": 0, "status": "stable", "reasoning": "..."}]}`)
	b.WriteString("\n")
	fmt.Fprintf(b, "The predictions array must contain exactly %d entries, one per day, in chronological order.\n", days)
}
