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

// DuplicateSkill copies the source skill's content fields, tag links, and
// files under a fresh id and a deduplicated slug (base "-copy", then
// "-copy-2" and so on). The copy starts as a draft and, while versioning is
// on, gets its own initial snapshot. One transaction; the source row stays
// locked so the copy is taken from a stable state.
func (s *Service) DuplicateSkill(ctx context.Context, input DuplicateSkillInput) (*domain.Skill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var copied *domain.Skill
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		source, err := s.skills.GetForUpdate(txCtx, input.SkillID)
		if err != nil {
			return fmt.Errorf("lock source skill: %w", err)
		}

		base := source.Slug + "-copy"
		taken, err := s.skills.ListSlugs(txCtx, base)
		if err != nil {
			return fmt.Errorf("list copy slugs: %w", err)
		}
		copySlug := slugutil.Deduplicate(base, taken)

		clone := &domain.Skill{
			ID:         uuid.New(),
			Slug:       copySlug,
			Status:     domain.SkillStatusDraft,
			Title:      source.Title,
			Summary:    source.Summary,
			Inputs:     source.Inputs,
			Outputs:    source.Outputs,
			Risks:      source.Risks,
			Steps:      source.Steps,
			Triggers:   source.Triggers,
			Guardrails: source.Guardrails,
			TestCases:  source.TestCases,
		}
		if _, err := s.skills.Create(txCtx, clone); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.NewValueConflict("slug", copySlug, uuid.Nil)
			}
			return fmt.Errorf("create copy: %w", err)
		}

		sourceTags, err := s.tags.ListBySkill(txCtx, source.ID)
		if err != nil {
			return fmt.Errorf("list source tags: %w", err)
		}
		tagIDs := make([]uuid.UUID, len(sourceTags))
		for i, t := range sourceTags {
			tagIDs[i] = t.ID
		}
		if err := s.tags.ReplaceSkillTags(txCtx, clone.ID, tagIDs); err != nil {
			return fmt.Errorf("link copy tags: %w", err)
		}

		filesCopied, err := s.files.CopyAll(txCtx, source.ID, clone.ID)
		if err != nil {
			return fmt.Errorf("copy files: %w", err)
		}

		copied, err = s.reload(txCtx, clone.ID)
		if err != nil {
			return err
		}

		if err := s.appendSnapshot(txCtx, copied); err != nil {
			return err
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   clone.ID,
			Action:     domain.AuditActionDuplicated,
			Detail: map[string]any{
				"source_id":    source.ID.String(),
				"slug":         copySlug,
				"files_copied": filesCopied,
			},
		}
		if err := s.audit.Log(txCtx, event); err != nil {
			return fmt.Errorf("log audit event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill duplicated",
		slog.String("source_id", input.SkillID.String()),
		slog.String("skill_id", copied.ID.String()),
		slog.String("slug", copied.Slug),
	)

	return copied, nil
}
