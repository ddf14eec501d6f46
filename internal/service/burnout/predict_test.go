package burnout

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/config"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

func testConfig() config.CalendarConfig {
	return config.CalendarConfig{
		Timezone:         "America/Los_Angeles",
		DayStartHour:     9,
		DayEndHour:       17,
		HorizonDays:      14,
		HistoryDays:      7,
		DefaultSleepTime: "00:00",
		DefaultWakeTime:  "08:00",
	}
}

func newTestService(t *testing.T, store *cacheStoreMock, events *eventSourceMock, orc *oracleClientMock) *Service {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	svc := NewService(slog.New(slog.NewTextHandler(os.Stderr, nil)), store, events, orc, testConfig(), loc)
	svc.now = func() time.Time {
		return time.Date(2026, 2, 1, 10, 0, 0, 0, loc)
	}
	return svc
}

// fullBatch fills out with one prediction per day of the window starting
// at from, all carrying the given score.
func fullBatch(from domain.Date, days int, score float64) func(ctx context.Context, prompt string, out any) error {
	return func(ctx context.Context, prompt string, out any) error {
		resp := out.(*predictionsResponse)
		for i := 0; i < days; i++ {
			resp.Predictions = append(resp.Predictions, predictionItem{
				Date:      string(from.AddDays(i)),
				Score:     score,
				Status:    "stable", // deliberately wrong for most scores
				Reasoning: "steady load",
			})
		}
		return nil
	}
}

func coveredCache(userID string, from domain.Date, days int) *domain.BurnoutCache {
	c := domain.NewBurnoutCache(userID)
	c.SleepTime = "00:00"
	c.WakeTime = "08:00"
	for i := 0; i < days; i++ {
		d := from.AddDays(i)
		c.Predictions[d] = domain.NewPrediction(d, 25, "calm")
	}
	return c
}

func TestPredict_CacheHit(t *testing.T) {
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return coveredCache(userID, "2026-02-01", 14), nil
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error { return nil },
	}
	events := &eventSourceMock{}
	orc := &oracleClientMock{}

	svc := newTestService(t, store, events, orc)
	res, err := svc.Predict(context.Background(), "alice", "2026-02-05")
	require.NoError(t, err)

	assert.True(t, res.Cached)
	assert.Equal(t, 25, res.Prediction.Score)
	assert.Empty(t, orc.CompleteCalls(), "covered cache must not hit the oracle")
	assert.Empty(t, store.SaveCalls())
}

func TestPredict_MissingDateTriggersBatchRefresh(t *testing.T) {
	var saved *domain.BurnoutCache
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return nil, domain.ErrNotFound
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error {
			saved = cache
			return nil
		},
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) {
			return []calendar.RawEvent{
				{"title": "Sprint review", "start_time": "2026-02-01T13:00:00", "end_time": "2026-02-01T14:00:00"},
			}, nil
		},
	}
	orc := &oracleClientMock{CompleteFunc: fullBatch("2026-02-01", 14, 64)}

	svc := newTestService(t, store, events, orc)
	res, err := svc.Predict(context.Background(), "alice", "2026-02-01")
	require.NoError(t, err)

	assert.True(t, res.Cached)
	assert.Equal(t, 64, res.Prediction.Score)
	assert.Equal(t, domain.BurnoutStatusHighRisk, res.Prediction.Status, "oracle's claimed status must be overridden")

	require.Len(t, orc.CompleteCalls(), 1, "one batch request covers the whole window")
	require.NotNil(t, saved)
	assert.True(t, saved.Covers("2026-02-01", 14))
	assert.False(t, saved.GeneratedAt.IsZero())
}

func TestPredict_ClampsOracleScores(t *testing.T) {
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return nil, domain.ErrNotFound
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error { return nil },
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) { return nil, nil },
	}
	orc := &oracleClientMock{CompleteFunc: fullBatch("2026-02-01", 14, 150.7)}

	svc := newTestService(t, store, events, orc)
	res, err := svc.Predict(context.Background(), "alice", "2026-02-03")
	require.NoError(t, err)

	assert.Equal(t, 100, res.Prediction.Score)
	assert.Equal(t, domain.BurnoutStatusCritical, res.Prediction.Status)
}

func TestPredict_RefreshKeepsPastDates(t *testing.T) {
	existing := domain.NewBurnoutCache("alice")
	existing.SleepTime = "00:00"
	existing.WakeTime = "08:00"
	existing.Predictions["2026-01-25"] = domain.NewPrediction("2026-01-25", 40, "old entry")

	var saved *domain.BurnoutCache
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return existing, nil
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error {
			saved = cache
			return nil
		},
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) { return nil, nil },
	}
	orc := &oracleClientMock{CompleteFunc: fullBatch("2026-02-01", 14, 30)}

	svc := newTestService(t, store, events, orc)
	_, err := svc.Predict(context.Background(), "alice", "2026-02-01")
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Contains(t, saved.Predictions, domain.Date("2026-01-25"), "past predictions survive a refresh")
	assert.True(t, saved.Covers("2026-02-01", 14))
}

func TestPredict_BatchFailureFallsBackToSingleDate(t *testing.T) {
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return nil, domain.ErrNotFound
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error {
			t.Fatal("fallback result must not be persisted")
			return nil
		},
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) { return nil, nil },
	}

	call := 0
	orc := &oracleClientMock{
		CompleteFunc: func(ctx context.Context, prompt string, out any) error {
			call++
			if call == 1 {
				return errors.New("all models exhausted")
			}
			resp := out.(*predictionsResponse)
			resp.Predictions = []predictionItem{{Date: "2026-02-01", Score: 58, Reasoning: "fallback"}}
			return nil
		},
	}

	svc := newTestService(t, store, events, orc)
	res, err := svc.Predict(context.Background(), "alice", "2026-02-01")
	require.NoError(t, err)

	assert.False(t, res.Cached)
	assert.Equal(t, 58, res.Prediction.Score)
	assert.Equal(t, 2, call)
}

func TestPredict_IncompleteBatchFallsBack(t *testing.T) {
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return nil, domain.ErrNotFound
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error {
			t.Fatal("incomplete batch must not be persisted")
			return nil
		},
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) { return nil, nil },
	}

	call := 0
	orc := &oracleClientMock{
		CompleteFunc: func(ctx context.Context, prompt string, out any) error {
			call++
			if call == 1 {
				// Batch answer covering only 5 of 14 days.
				return fullBatch("2026-02-01", 5, 33)(ctx, prompt, out)
			}
			resp := out.(*predictionsResponse)
			resp.Predictions = []predictionItem{{Date: "2026-02-10", Score: 47, Reasoning: "single"}}
			return nil
		},
	}

	svc := newTestService(t, store, events, orc)
	res, err := svc.Predict(context.Background(), "alice", "2026-02-10")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 47, res.Prediction.Score)
}

func TestPredict_AllPathsExhausted(t *testing.T) {
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return nil, domain.ErrNotFound
		},
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) { return nil, nil },
	}
	oracleErr := errors.New("all models exhausted")
	orc := &oracleClientMock{
		CompleteFunc: func(ctx context.Context, prompt string, out any) error { return oracleErr },
	}

	svc := newTestService(t, store, events, orc)
	_, err := svc.Predict(context.Background(), "alice", "2026-02-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, oracleErr)
}

func TestPredict_BatchPromptCarriesHistoryAndOrder(t *testing.T) {
	cache := coveredCache("alice", "2026-01-25", 7) // history only, window not covered
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) { return cache, nil },
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error { return nil },
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) {
			return []calendar.RawEvent{
				{"title": "Workshop", "start_time": "2026-02-02T09:00:00", "end_time": "2026-02-02T12:00:00"},
			}, nil
		},
	}
	orc := &oracleClientMock{CompleteFunc: fullBatch("2026-02-01", 14, 30)}

	svc := newTestService(t, store, events, orc)
	_, err := svc.Predict(context.Background(), "alice", "2026-02-01")
	require.NoError(t, err)

	require.Len(t, orc.CompleteCalls(), 1)
	prompt := orc.CompleteCalls()[0].Prompt

	assert.Contains(t, prompt, "Previous burnout scores")
	assert.Contains(t, prompt, "2026-01-25: 25")
	assert.Contains(t, prompt, "09:00-12:00 Workshop")
	// Days appear in chronological order.
	first := string(domain.Date("2026-02-01"))
	last := string(domain.Date("2026-02-14"))
	assert.Less(t, strings.Index(prompt, first), strings.Index(prompt, last))
}

func TestRefresh_ForcesBatchEvenWhenCovered(t *testing.T) {
	var saved *domain.BurnoutCache
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return coveredCache(userID, "2026-02-01", 14), nil
		},
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error {
			saved = cache
			return nil
		},
	}
	events := &eventSourceMock{
		EventsFunc: func(ctx context.Context, userID string) ([]calendar.RawEvent, error) { return nil, nil },
	}
	orc := &oracleClientMock{CompleteFunc: fullBatch("2026-02-01", 14, 55)}

	svc := newTestService(t, store, events, orc)
	require.NoError(t, svc.Refresh(context.Background(), "alice"))

	require.Len(t, orc.CompleteCalls(), 1)
	require.NotNil(t, saved)
	assert.Equal(t, 55, saved.Predictions["2026-02-01"].Score)
}

