// Package suggest derives restorative event suggestions (naps, meal
// windows) from the free gaps in a day's schedule. Suggestions are
// deterministic: no oracle involvement, the free-slot sweep decides.
package suggest

import (
	"log/slog"
	"time"
)

// Service implements suggestion operations.
type Service struct {
	log *slog.Logger
	loc *time.Location
}

// NewService creates a new suggestion service instance.
func NewService(logger *slog.Logger, loc *time.Location) *Service {
	return &Service{
		log: logger.With("service", "suggest"),
		loc: loc,
	}
}
