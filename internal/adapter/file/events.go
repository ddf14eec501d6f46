package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

// EventSource reads raw provider event records from
// <dataDir>/<userID>_calendars.json. The file holds either a bare JSON
// array of records or an object with an "events" array.
type EventSource struct {
	dataDir string
}

func NewEventSource(dataDir string) *EventSource {
	return &EventSource{dataDir: dataDir}
}

// Events returns the stored raw records for userID. A missing file is
// domain.ErrNotFound.
func (s *EventSource) Events(ctx context.Context, userID string) ([]calendar.RawEvent, error) {
	path := filepath.Join(s.dataDir, userID+"_calendars.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load calendars for %q: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load calendars for %q: %w", userID, err)
	}

	var records []calendar.RawEvent
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Events []calendar.RawEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode calendars for %q: %w", userID, err)
	}
	return wrapped.Events, nil
}
