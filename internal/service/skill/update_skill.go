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

// UpdateSkill overwrites every content field, re-derives the slug from the
// new title, and replaces the tag set, in one transaction. A snapshot of
// the result is appended while versioning is on. Status is not changed.
func (s *Service) UpdateSkill(ctx context.Context, input UpdateSkillInput) (*domain.Skill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	newSlug := slugutil.Derive(input.Title)
	if newSlug == "" {
		return nil, domain.NewValidationError("title", "cannot be turned into a slug")
	}

	var updated *domain.Skill
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		skill, err := s.skills.GetForUpdate(txCtx, input.SkillID)
		if err != nil {
			return fmt.Errorf("lock skill: %w", err)
		}

		input.overwrite(skill)

		if newSlug != skill.Slug {
			holder, holderErr := s.skills.GetBySlug(txCtx, newSlug)
			switch {
			case holderErr == nil && holder.ID != skill.ID:
				return domain.NewValueConflict("slug", newSlug, holder.ID)
			case holderErr != nil && !errors.Is(holderErr, domain.ErrNotFound):
				return fmt.Errorf("check slug holder: %w", holderErr)
			}
			skill.Slug = newSlug
		}

		if _, err := s.skills.Update(txCtx, skill); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.NewValueConflict("slug", newSlug, uuid.Nil)
			}
			return fmt.Errorf("update skill: %w", err)
		}

		if err := s.replaceTags(txCtx, skill.ID, input.Tags); err != nil {
			return err
		}

		updated, err = s.reload(txCtx, skill.ID)
		if err != nil {
			return err
		}

		if err := s.appendSnapshot(txCtx, updated); err != nil {
			return err
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   skill.ID,
			Action:     domain.AuditActionUpdated,
			Detail:     map[string]any{"slug": updated.Slug},
		}
		if err := s.audit.Log(txCtx, event); err != nil {
			return fmt.Errorf("log audit event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill updated",
		slog.String("skill_id", updated.ID.String()),
		slog.String("slug", updated.Slug),
	)

	return updated, nil
}
