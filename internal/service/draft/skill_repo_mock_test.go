package draft

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

var _ skillRepo = &skillRepoMock{}

type skillRepoMock struct {
	GetByIDFunc func(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)

	calls struct {
		GetByID []struct {
			Ctx     context.Context
			SkillID uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *skillRepoMock) GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	if mock.GetByIDFunc == nil {
		panic("skillRepoMock.GetByIDFunc: method is nil but skillRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SkillID uuid.UUID
	}{Ctx: ctx, SkillID: skillID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, skillID)
}

func (mock *skillRepoMock) GetByIDCalls() []struct {
	Ctx     context.Context
	SkillID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
