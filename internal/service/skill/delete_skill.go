package skill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// DeleteSkill removes the skill. Files, tag links, versions, and
// publications go with it through cascading constraints; drafts that
// reference it keep their key with the reference nulled.
func (s *Service) DeleteSkill(ctx context.Context, input DeleteSkillInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	var slug string
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		skill, err := s.skills.GetByID(txCtx, input.SkillID)
		if err != nil {
			return fmt.Errorf("get skill: %w", err)
		}
		slug = skill.Slug

		if err := s.skills.Delete(txCtx, input.SkillID); err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   input.SkillID,
			Action:     domain.AuditActionDeleted,
			Detail:     map[string]any{"slug": slug, "title": skill.Title},
		}
		if err := s.audit.Log(txCtx, event); err != nil {
			return fmt.Errorf("log audit event: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "skill deleted",
		slog.String("skill_id", input.SkillID.String()),
		slog.String("slug", slug),
	)

	return nil
}
