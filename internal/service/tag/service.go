package tag

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type tagRepo interface {
	GetByID(ctx context.Context, tagID uuid.UUID) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]*domain.Tag, error)
	CountLinks(ctx context.Context, tagID uuid.UUID) (int, error)
	Rename(ctx context.Context, tagID uuid.UUID, name string) (*domain.Tag, error)
	Delete(ctx context.Context, tagID uuid.UUID) error
	ReassignLinks(ctx context.Context, fromTagID, toTagID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service provides tag reconciliation: rename, delete, merge and the
// normalize-all sweep. Every mutation keeps the no-duplicate-pair invariant
// on skill associations.
type Service struct {
	tags tagRepo
	tx   txManager
	log  *slog.Logger
}

// NewService creates a new Tag service.
func NewService(log *slog.Logger, tags tagRepo, tx txManager) *Service {
	return &Service{
		tags: tags,
		tx:   tx,
		log:  log.With("service", "tag"),
	}
}

// NormalizeResult summarizes one normalize-all sweep.
type NormalizeResult struct {
	Scanned      int
	Groups       int
	Merged       int
	Renamed      int
	RemovedEmpty int
}
