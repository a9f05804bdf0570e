package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/pkg/slugutil"
)

// CreateSkill inserts a new draft skill with its tag links and, while
// versioning is on, an initial snapshot, all in one transaction. The slug
// is derived from the title; a taken slug fails with a conflict carrying
// the holder's id.
func (s *Service) CreateSkill(ctx context.Context, input CreateSkillInput) (*domain.Skill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	slug := slugutil.Derive(input.Title)
	if slug == "" {
		return nil, domain.NewValidationError("title", "cannot be turned into a slug")
	}

	skill := input.toSkill()
	skill.Slug = slug

	var created *domain.Skill
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Holder lookup gives the conflict a concrete id; the unique index
		// still backstops a losing race.
		holder, err := s.skills.GetBySlug(txCtx, slug)
		switch {
		case err == nil:
			return domain.NewValueConflict("slug", slug, holder.ID)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check slug holder: %w", err)
		}

		if _, err := s.skills.Create(txCtx, skill); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.NewValueConflict("slug", slug, uuid.Nil)
			}
			return fmt.Errorf("create skill: %w", err)
		}

		if err := s.replaceTags(txCtx, skill.ID, input.Tags); err != nil {
			return err
		}

		created, err = s.reload(txCtx, skill.ID)
		if err != nil {
			return err
		}

		if err := s.appendSnapshot(txCtx, created); err != nil {
			return err
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   skill.ID,
			Action:     domain.AuditActionCreated,
			Detail:     map[string]any{"slug": slug},
		}
		if err := s.audit.Log(txCtx, event); err != nil {
			return fmt.Errorf("log audit event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill created",
		slog.String("skill_id", created.ID.String()),
		slog.String("slug", created.Slug),
	)

	return created, nil
}
