package optimizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/daybalance/daybalance-backend/internal/domain"
)

const promptTimeLayout = "2006-01-02T15:04:05"

// proposalsResponse is the JSON schema the oracle must answer with.
type proposalsResponse struct {
	ProposedChanges []proposalItem `json:"proposed_changes"`
}

type proposalItem struct {
	EventID       string `json:"event_id"`
	EventTitle    string `json:"event_title"`
	Action        string `json:"action"`
	CurrentStart  string `json:"current_start"`
	CurrentEnd    string `json:"current_end"`
	ProposedStart string `json:"proposed_start"`
	ProposedEnd   string `json:"proposed_end"`
	Reasoning     string `json:"reasoning"`
}

func optimizePrompt(fixed, malleable []domain.CalendarEvent, windowStart, windowEnd time.Time, sleep SleepWindow) string {
	var b strings.Builder

	b.WriteString("You are a schedule optimizer. Rearrange the movable events below to reduce ")
	b.WriteString("burnout risk: spread dense clusters apart, protect breaks, keep mornings lighter when possible.\n\n")

	fmt.Fprintf(&b, "Window: %s to %s.\n", windowStart.Format(promptTimeLayout), windowEnd.Format(promptTimeLayout))
	fmt.Fprintf(&b, "The user sleeps from %s to %s; never schedule into that window.\n\n", sleep.SleepTime, sleep.WakeTime)

	b.WriteString("FIXED events (must not move, must not be overlapped):\n")
	if len(fixed) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, e := range fixed {
		writeEventLine(&b, e)
	}

	b.WriteString("\nMOVABLE events (may be rescheduled):\n")
	for _, e := range malleable {
		writeEventLine(&b, e)
	}

	b.WriteString("\nHard rules for every move:\n")
	b.WriteString("1. Keep the event on its original date.\n")
	b.WriteString("2. Do not overlap any FIXED event.\n")
	b.WriteString("3. Preserve the event's original duration.\n")
	b.WriteString("4. Stay out of the sleep window.\n\n")

	b.WriteString("Respond with ONLY a JSON object, no prose, in exactly this form:\n")
	b.WriteString(`{"proposed_changes": [{"event_id": "...", "event_title": "...", "action": "move", ` +
		`"current_start": "YYYY-MM-DDTHH:MM:SS", "current_end": "YYYY-MM-DDTHH:MM:SS", ` +
		`"proposed_start": "YYYY-MM-DDTHH:MM:SS", "proposed_end": "YYYY-MM-DDTHH:MM:SS", "reasoning": "..."}]}`)
	b.WriteString("\nUse action \"keep\" for events that should stay where they are.\n")

	return b.String()
}

func writeEventLine(b *strings.Builder, e domain.CalendarEvent) {
	fmt.Fprintf(b, "  id=%s %s to %s %s\n", e.ID, e.Start.Format(promptTimeLayout), e.End.Format(promptTimeLayout), e.Title)
}
