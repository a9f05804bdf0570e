package skill

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

type skillRepo interface {
	Create(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
	GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Skill, error)
	GetForUpdate(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	List(ctx context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error)
	ListSlugs(ctx context.Context, base string) ([]string, error)
	Update(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
	Delete(ctx context.Context, skillID uuid.UUID) error
}

type tagRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error)
	EnsureByNames(ctx context.Context, names []string) ([]*domain.Tag, error)
	ReplaceSkillTags(ctx context.Context, skillID uuid.UUID, tagIDs []uuid.UUID) error
}

type fileRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.SkillFile, error)
	CopyAll(ctx context.Context, fromSkillID, toSkillID uuid.UUID) (int, error)
}

type versionRepo interface {
	Create(ctx context.Context, skillID uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error)
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

// Service provides the skill record lifecycle: create, get, list, update,
// delete, duplicate. Mutations run in one transaction each and append a
// version snapshot while the versioning schema is present.
type Service struct {
	skills     skillRepo
	tags       tagRepo
	files      fileRepo
	versions   versionRepo
	audit      auditRepo
	tx         txManager
	versioning bool
	cfg        config.VaultConfig
	log        *slog.Logger
}

// NewService creates a new Skill service.
func NewService(
	log *slog.Logger,
	skills skillRepo,
	tags tagRepo,
	files fileRepo,
	versions versionRepo,
	audit auditRepo,
	tx txManager,
	cfg config.VaultConfig,
	versioningEnabled bool,
) *Service {
	return &Service{
		skills:     skills,
		tags:       tags,
		files:      files,
		versions:   versions,
		audit:      audit,
		tx:         tx,
		versioning: versioningEnabled,
		cfg:        cfg,
		log:        log.With("service", "skill"),
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

// replaceTags reconciles the skill's association set to the given names:
// normalize, drop empties, create missing tag rows, replace the whole set.
func (s *Service) replaceTags(ctx context.Context, skillID uuid.UUID, names []string) error {
	tags, err := s.tags.EnsureByNames(ctx, domain.NormalizeTagSet(names))
	if err != nil {
		return fmt.Errorf("ensure tags: %w", err)
	}

	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	if err := s.tags.ReplaceSkillTags(ctx, skillID, ids); err != nil {
		return fmt.Errorf("replace skill tags: %w", err)
	}

	return nil
}

// appendSnapshot records the skill's current full projection in the version
// ledger. A no-op while the versioning schema is absent.
func (s *Service) appendSnapshot(ctx context.Context, skill *domain.Skill) error {
	if !s.versioning {
		return nil
	}
	if _, err := s.versions.Create(ctx, skill.ID, domain.SnapshotOf(skill, skill.TagNames())); err != nil {
		return fmt.Errorf("append version: %w", err)
	}
	return nil
}
