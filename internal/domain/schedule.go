package domain

import "time"

// ScheduleChange is a validated rescheduling of a single malleable event.
// Only proposals that survive the optimizer's constraint checks become
// ScheduleChange values; raw oracle proposals never leave the optimizer.
type ScheduleChange struct {
	EventID       string
	EventTitle    string
	Action        ChangeAction
	CurrentStart  time.Time
	CurrentEnd    time.Time
	ProposedStart time.Time
	ProposedEnd   time.Time
	Reasoning     string
}

// StressMention is one calendar event believed to be mentioned in a
// stress-bearing voice check-in transcript.
type StressMention struct {
	EventTitle string
	EventDate  Date
}

// ScoreAdjustment records the outcome of applying a voice stress signal
// to one cached prediction.
type ScoreAdjustment struct {
	Date     Date
	Delta    int
	OldScore int
	NewScore int
	Status   BurnoutStatus
}
