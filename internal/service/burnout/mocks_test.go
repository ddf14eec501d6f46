package burnout

import (
	"context"
	"sync"

	"github.com/daybalance/daybalance-backend/internal/calendar"
	"github.com/daybalance/daybalance-backend/internal/domain"
)

var _ cacheStore = &cacheStoreMock{}

type cacheStoreMock struct {
	LoadFunc func(ctx context.Context, userID string) (*domain.BurnoutCache, error)
	SaveFunc func(ctx context.Context, cache *domain.BurnoutCache) error

	calls struct {
		Load []struct {
			Ctx    context.Context
			UserID string
		}
		Save []struct {
			Ctx   context.Context
			Cache *domain.BurnoutCache
		}
	}
	lockLoad sync.RWMutex
	lockSave sync.RWMutex
}

func (mock *cacheStoreMock) Load(ctx context.Context, userID string) (*domain.BurnoutCache, error) {
	if mock.LoadFunc == nil {
		panic("cacheStoreMock.LoadFunc: method is nil but cacheStore.Load was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID string
	}{Ctx: ctx, UserID: userID}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, callInfo)
	mock.lockLoad.Unlock()
	return mock.LoadFunc(ctx, userID)
}

func (mock *cacheStoreMock) Save(ctx context.Context, cache *domain.BurnoutCache) error {
	if mock.SaveFunc == nil {
		panic("cacheStoreMock.SaveFunc: method is nil but cacheStore.Save was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Cache *domain.BurnoutCache
	}{Ctx: ctx, Cache: cache}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, cache)
}

func (mock *cacheStoreMock) SaveCalls() []struct {
	Ctx   context.Context
	Cache *domain.BurnoutCache
} {
	mock.lockSave.RLock()
	defer mock.lockSave.RUnlock()
	return mock.calls.Save
}

var _ eventSource = &eventSourceMock{}

type eventSourceMock struct {
	EventsFunc func(ctx context.Context, userID string) ([]calendar.RawEvent, error)

	calls struct {
		Events []struct {
			Ctx    context.Context
			UserID string
		}
	}
	lockEvents sync.RWMutex
}

func (mock *eventSourceMock) Events(ctx context.Context, userID string) ([]calendar.RawEvent, error) {
	if mock.EventsFunc == nil {
		panic("eventSourceMock.EventsFunc: method is nil but eventSource.Events was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID string
	}{Ctx: ctx, UserID: userID}
	mock.lockEvents.Lock()
	mock.calls.Events = append(mock.calls.Events, callInfo)
	mock.lockEvents.Unlock()
	return mock.EventsFunc(ctx, userID)
}

var _ oracleClient = &oracleClientMock{}

type oracleClientMock struct {
	CompleteFunc func(ctx context.Context, prompt string, out any) error

	calls struct {
		Complete []struct {
			Ctx    context.Context
			Prompt string
			Out    any
		}
	}
	lockComplete sync.RWMutex
}

func (mock *oracleClientMock) Complete(ctx context.Context, prompt string, out any) error {
	if mock.CompleteFunc == nil {
		panic("oracleClientMock.CompleteFunc: method is nil but oracleClient.Complete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Prompt string
		Out    any
	}{Ctx: ctx, Prompt: prompt, Out: out}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, prompt, out)
}

func (mock *oracleClientMock) CompleteCalls() []struct {
	Ctx    context.Context
	Prompt string
	Out    any
} {
	mock.lockComplete.RLock()
	defer mock.lockComplete.RUnlock()
	return mock.calls.Complete
}
