package suggest

import (
	"time"

	"github.com/google/uuid"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

const (
	napDuration = 25 * time.Minute
	maxNaps     = 2

	// Afternoon nap window. Earlier naps fight morning alertness, later
	// ones push bedtime back.
	napWindowStartHour = 13
	napWindowEndHour   = 17
)

// NapTimes suggests up to two nap events on the given date, placed in
// afternoon free slots. Returned events are synthetic: suggested source,
// malleable kind, fresh ids.
func (s *Service) NapTimes(events []domain.CalendarEvent, date domain.Date) []domain.CalendarEvent {
	day := date.Time(s.loc)
	winStart := day.Add(napWindowStartHour * time.Hour)
	winEnd := day.Add(napWindowEndHour * time.Hour)

	onDate := calendar.EventsOnDate(events, date)
	slots := calendar.FreeSlots(onDate, winStart, winEnd, napDuration)

	naps := make([]domain.CalendarEvent, 0, maxNaps)
	for _, slot := range slots {
		if len(naps) == maxNaps {
			break
		}
		naps = append(naps, domain.CalendarEvent{
			ID:          uuid.NewString(),
			Title:       "Nap",
			Start:       slot.Start,
			End:         slot.Start.Add(napDuration),
			Description: "Suggested rest break",
			Kind:        domain.EventKindMalleable,
			Source:      domain.EventSourceSuggested,
		})
	}
	return naps
}
