package suggest

import (
	"time"

	"github.com/google/uuid"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

const mealDuration = 30 * time.Minute

type mealWindow struct {
	title     string
	startHour int
	startMin  int
	endHour   int
	endMin    int
}

// Standard meal windows; a meal is placed in the first free gap that
// fits inside its window.
var mealWindows = []mealWindow{
	{title: "Breakfast", startHour: 7, endHour: 10},
	{title: "Lunch", startHour: 11, startMin: 30, endHour: 14},
	{title: "Dinner", startHour: 17, startMin: 30, endHour: 20, endMin: 30},
}

// MealWindows suggests up to one event per meal on the given date.
// A meal whose window is fully booked is skipped, never squeezed in.
func (s *Service) MealWindows(events []domain.CalendarEvent, date domain.Date) []domain.CalendarEvent {
	day := date.Time(s.loc)
	onDate := calendar.EventsOnDate(events, date)

	meals := make([]domain.CalendarEvent, 0, len(mealWindows))
	for _, w := range mealWindows {
		winStart := day.Add(time.Duration(w.startHour)*time.Hour + time.Duration(w.startMin)*time.Minute)
		winEnd := day.Add(time.Duration(w.endHour)*time.Hour + time.Duration(w.endMin)*time.Minute)

		slots := calendar.FreeSlots(onDate, winStart, winEnd, mealDuration)
		if len(slots) == 0 {
			continue
		}

		meals = append(meals, domain.CalendarEvent{
			ID:          uuid.NewString(),
			Title:       w.title,
			Start:       slots[0].Start,
			End:         slots[0].Start.Add(mealDuration),
			Description: "Suggested meal window",
			Kind:        domain.EventKindMalleable,
			Source:      domain.EventSourceSuggested,
		})
	}
	return meals
}
