package version

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type versionRepo interface {
	Get(ctx context.Context, skillID, versionID uuid.UUID) (*domain.Version, error)
	List(ctx context.Context, skillID uuid.UUID, page domain.VersionPage) ([]*domain.Version, int, error)
	Create(ctx context.Context, skillID uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error)
}

type skillRepo interface {
	GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetForUpdate(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	Update(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
	SetStatus(ctx context.Context, skillID uuid.UUID, status domain.SkillStatus) error
}

type tagRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error)
	EnsureByNames(ctx context.Context, names []string) ([]*domain.Tag, error)
	ReplaceSkillTags(ctx context.Context, skillID uuid.UUID, tagIDs []uuid.UUID) error
}

type fileRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.SkillFile, error)
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

// Service exposes the version ledger: history listing, single-entry reads,
// and rollback. Every operation requires the versioning schema; while it is
// absent all of them report ErrFeatureUnavailable so callers can tell "off"
// from "missing".
type Service struct {
	versions   versionRepo
	skills     skillRepo
	tags       tagRepo
	files      fileRepo
	audit      auditRepo
	tx         txManager
	versioning bool
	cfg        config.VaultConfig
	log        *slog.Logger
}

// NewService creates a new Version service.
func NewService(
	log *slog.Logger,
	versions versionRepo,
	skills skillRepo,
	tags tagRepo,
	files fileRepo,
	audit auditRepo,
	tx txManager,
	cfg config.VaultConfig,
	versioningEnabled bool,
) *Service {
	return &Service{
		versions:   versions,
		skills:     skills,
		tags:       tags,
		files:      files,
		audit:      audit,
		tx:         tx,
		versioning: versioningEnabled,
		cfg:        cfg,
		log:        log.With("service", "version"),
	}
}

// reload fetches the skill with its tag and file associations attached.
func (s *Service) reload(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return nil, fmt.Errorf("reload skill: %w", err)
	}

	tags, err := s.tags.ListBySkill(ctx, skillID)
	if err != nil {
		return nil, fmt.Errorf("reload tags: %w", err)
	}
	skill.Tags = make([]domain.Tag, len(tags))
	for i, t := range tags {
		skill.Tags[i] = *t
	}

	files, err := s.files.ListBySkill(ctx, skillID)
	if err != nil {
		return nil, fmt.Errorf("reload files: %w", err)
	}
	skill.Files = make([]domain.SkillFile, len(files))
	for i, f := range files {
		skill.Files[i] = *f
	}

	return skill, nil
}
