package changeset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type skillRepo interface {
	GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Skill, error)
	GetForUpdate(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	Update(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
}

type tagRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error)
	EnsureByNames(ctx context.Context, names []string) ([]*domain.Tag, error)
	ReplaceSkillTags(ctx context.Context, skillID uuid.UUID, tagIDs []uuid.UUID) error
}

type fileRepo interface {
	ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.SkillFile, error)
	Upsert(ctx context.Context, f *domain.SkillFile) (*domain.SkillFile, error)
	Delete(ctx context.Context, skillID uuid.UUID, path string) error
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

// Service validates untrusted change-sets and applies clean ones
// atomically. The gate is pure and collects every violation; the applier
// runs field overwrites, tag replacement and the ordered file operations in
// one transaction and appends a version snapshot when versioning is on.
type Service struct {
	skills     skillRepo
	tags       tagRepo
	files      fileRepo
	versions   versionRepo
	audit      auditRepo
	tx         txManager
	versioning bool
	log        *slog.Logger
}

// NewService creates a new ChangeSet service.
func NewService(
	log *slog.Logger,
	skills skillRepo,
	tags tagRepo,
	files fileRepo,
	versions versionRepo,
	audit auditRepo,
	tx txManager,
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
		log:        log.With("service", "changeset"),
	}
}

// reload fetches the skill with its tag and file associations attached.
// Called inside the apply transaction so the result is exactly the
// committed state.
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
