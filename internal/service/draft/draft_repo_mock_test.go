package draft

import (
	"context"
	"sync"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

var _ draftRepo = &draftRepoMock{}

type draftRepoMock struct {
	GetFunc    func(ctx context.Context, key string) (*domain.Draft, error)
	PutFunc    func(ctx context.Context, draft *domain.Draft) (*domain.Draft, error)
	PutCASFunc func(ctx context.Context, draft *domain.Draft, expectedVersion int) (*domain.Draft, error)
	DeleteFunc func(ctx context.Context, key string) error

	calls struct {
		Get []struct {
			Ctx context.Context
			Key string
		}
		Put []struct {
			Ctx   context.Context
			Draft *domain.Draft
		}
		PutCAS []struct {
			Ctx             context.Context
			Draft           *domain.Draft
			ExpectedVersion int
		}
		Delete []struct {
			Ctx context.Context
			Key string
		}
	}
	lockGet    sync.RWMutex
	lockPut    sync.RWMutex
	lockPutCAS sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *draftRepoMock) Get(ctx context.Context, key string) (*domain.Draft, error) {
	if mock.GetFunc == nil {
		panic("draftRepoMock.GetFunc: method is nil but draftRepo.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, key)
}

func (mock *draftRepoMock) GetCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *draftRepoMock) Put(ctx context.Context, draft *domain.Draft) (*domain.Draft, error) {
	if mock.PutFunc == nil {
		panic("draftRepoMock.PutFunc: method is nil but draftRepo.Put was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Draft *domain.Draft
	}{Ctx: ctx, Draft: draft}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, draft)
}

func (mock *draftRepoMock) PutCalls() []struct {
	Ctx   context.Context
	Draft *domain.Draft
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}

func (mock *draftRepoMock) PutCAS(ctx context.Context, draft *domain.Draft, expectedVersion int) (*domain.Draft, error) {
	if mock.PutCASFunc == nil {
		panic("draftRepoMock.PutCASFunc: method is nil but draftRepo.PutCAS was just called")
	}
	callInfo := struct {
		Ctx             context.Context
		Draft           *domain.Draft
		ExpectedVersion int
	}{Ctx: ctx, Draft: draft, ExpectedVersion: expectedVersion}
	mock.lockPutCAS.Lock()
	mock.calls.PutCAS = append(mock.calls.PutCAS, callInfo)
	mock.lockPutCAS.Unlock()
	return mock.PutCASFunc(ctx, draft, expectedVersion)
}

func (mock *draftRepoMock) PutCASCalls() []struct {
	Ctx             context.Context
	Draft           *domain.Draft
	ExpectedVersion int
} {
	mock.lockPutCAS.RLock()
	calls := mock.calls.PutCAS
	mock.lockPutCAS.RUnlock()
	return calls
}

func (mock *draftRepoMock) Delete(ctx context.Context, key string) error {
	if mock.DeleteFunc == nil {
		panic("draftRepoMock.DeleteFunc: method is nil but draftRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, key)
}

func (mock *draftRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
