package publication

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type publicationRepo interface {
	Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error)
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.PublicationWithVersion, error)
}

type versionRepo interface {
	GetLatest(ctx context.Context, skillID uuid.UUID) (*domain.Version, error)
	Create(ctx context.Context, skillID uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error)
}

type skillRepo interface {
	GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetForUpdate(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	SetStatus(ctx context.Context, skillID uuid.UUID, status domain.SkillStatus) error
}

type tagRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error)
}

type auditRepo interface {
	Log(ctx context.Context, event domain.AuditEvent) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service provides the publication register: marking a specific version as
// released and listing past releases. Publications reference ledger
// entries, so the register requires the versioning schema and reports
// ErrFeatureUnavailable while it is absent.
type Service struct {
	pubs       publicationRepo
	versions   versionRepo
	skills     skillRepo
	tags       tagRepo
	audit      auditRepo
	tx         txManager
	versioning bool
	cfg        config.VaultConfig
	log        *slog.Logger
}

// NewService creates a new Publication service.
func NewService(
	log *slog.Logger,
	pubs publicationRepo,
	versions versionRepo,
	skills skillRepo,
	tags tagRepo,
	audit auditRepo,
	tx txManager,
	cfg config.VaultConfig,
	versioningEnabled bool,
) *Service {
	return &Service{
		pubs:       pubs,
		versions:   versions,
		skills:     skills,
		tags:       tags,
		audit:      audit,
		tx:         tx,
		versioning: versioningEnabled,
		cfg:        cfg,
		log:        log.With("service", "publication"),
	}
}
