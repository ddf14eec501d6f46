package burnout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybalance/daybalance-backend/internal/domain"
)

func stressedCache(userID string) *domain.BurnoutCache {
	c := domain.NewBurnoutCache(userID)
	c.SleepTime = "00:00"
	c.WakeTime = "08:00"
	c.Predictions["2026-02-02"] = domain.NewPrediction("2026-02-02", 40, "meetings")
	c.Predictions["2026-02-03"] = domain.NewPrediction("2026-02-03", 68, "deadline")
	c.Predictions["2026-02-04"] = domain.NewPrediction("2026-02-04", 98, "crunch")
	return c
}

func TestApplyStressSignal_WeightsByDateOrder(t *testing.T) {
	cache := stressedCache("alice")
	var saves int
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) { return cache, nil },
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error {
			saves++
			return nil
		},
	}
	svc := newTestService(t, store, &eventSourceMock{}, &oracleClientMock{})

	// Scrambled mention order with a duplicate; calendar order decides
	// which date gets the bigger bump.
	mentions := []domain.StressMention{
		{EventTitle: "deadline", EventDate: "2026-02-03"},
		{EventTitle: "standup", EventDate: "2026-02-02"},
		{EventTitle: "crunch", EventDate: "2026-02-04"},
		{EventTitle: "deadline again", EventDate: "2026-02-03"},
	}

	adjustments, err := svc.ApplyStressSignal(context.Background(), "alice", true, mentions)
	require.NoError(t, err)
	require.Len(t, adjustments, 3)

	assert.Equal(t, domain.Date("2026-02-02"), adjustments[0].Date)
	assert.Equal(t, 5, adjustments[0].Delta)
	assert.Equal(t, 45, adjustments[0].NewScore)
	assert.Equal(t, domain.BurnoutStatusBuilding, adjustments[0].Status)

	assert.Equal(t, 3, adjustments[1].Delta)
	assert.Equal(t, 71, adjustments[1].NewScore)
	assert.Equal(t, domain.BurnoutStatusCritical, adjustments[1].Status, "crossing a threshold re-derives status")

	assert.Equal(t, 3, adjustments[2].Delta)
	assert.Equal(t, 100, adjustments[2].NewScore, "score caps at 100")

	assert.Equal(t, 1, saves, "all adjustments persist as one rewrite")
	assert.Equal(t, 45, cache.Predictions["2026-02-02"].Score)
}

func TestApplyStressSignal_SkipsDatesNotInCache(t *testing.T) {
	cache := stressedCache("alice")
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) { return cache, nil },
		SaveFunc: func(ctx context.Context, cache *domain.BurnoutCache) error { return nil },
	}
	svc := newTestService(t, store, &eventSourceMock{}, &oracleClientMock{})

	// The earliest mentioned date has no cached prediction; it still
	// consumes the +5 slot but produces no adjustment.
	mentions := []domain.StressMention{
		{EventTitle: "mystery", EventDate: "2026-01-01"},
		{EventTitle: "deadline", EventDate: "2026-02-03"},
	}

	adjustments, err := svc.ApplyStressSignal(context.Background(), "alice", true, mentions)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, domain.Date("2026-02-03"), adjustments[0].Date)
	assert.Equal(t, 3, adjustments[0].Delta)
	assert.NotContains(t, cache.Predictions, domain.Date("2026-01-01"), "applier never creates entries")
}

func TestApplyStressSignal_NotStressed(t *testing.T) {
	store := &cacheStoreMock{}
	svc := newTestService(t, store, &eventSourceMock{}, &oracleClientMock{})

	adjustments, err := svc.ApplyStressSignal(context.Background(), "alice", false, []domain.StressMention{
		{EventTitle: "deadline", EventDate: "2026-02-03"},
	})
	require.NoError(t, err)
	assert.Nil(t, adjustments)
	assert.Empty(t, store.calls.Load, "no mutation on a calm transcript")
}

func TestApplyStressSignal_NoMentions(t *testing.T) {
	store := &cacheStoreMock{}
	svc := newTestService(t, store, &eventSourceMock{}, &oracleClientMock{})

	adjustments, err := svc.ApplyStressSignal(context.Background(), "alice", true, nil)
	require.NoError(t, err)
	assert.Nil(t, adjustments)
}

func TestApplyStressSignal_NoCache(t *testing.T) {
	store := &cacheStoreMock{
		LoadFunc: func(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(t, store, &eventSourceMock{}, &oracleClientMock{})

	adjustments, err := svc.ApplyStressSignal(context.Background(), "alice", true, []domain.StressMention{
		{EventTitle: "deadline", EventDate: "2026-02-03"},
	})
	require.NoError(t, err)
	assert.Nil(t, adjustments)
}
