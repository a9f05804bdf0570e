package draft

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

type draftRepo interface {
	Get(ctx context.Context, key string) (*domain.Draft, error)
	Put(ctx context.Context, draft *domain.Draft) (*domain.Draft, error)
	PutCAS(ctx context.Context, draft *domain.Draft, expectedVersion int) (*domain.Draft, error)
	Delete(ctx context.Context, key string) error
}

type skillRepo interface {
	GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
}

// Service provides draft store operations: get, put (with optional
// compare-and-swap), delete. The stored version column is a pure
// concurrency token; it is never set by callers.
type Service struct {
	drafts draftRepo
	skills skillRepo
	cfg    config.VaultConfig
	log    *slog.Logger
}

// NewService creates a new Draft service.
func NewService(
	log *slog.Logger,
	drafts draftRepo,
	skills skillRepo,
	cfg config.VaultConfig,
) *Service {
	return &Service{
		drafts: drafts,
		skills: skills,
		cfg:    cfg,
		log:    log.With("service", "draft"),
	}
}
