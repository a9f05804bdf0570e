package changeset

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/pkg/slugutil"
)

// Apply gates the change-set and, when clean, applies it in one
// transaction: scalar overwrites, guardrail shallow-merge, full tag-set
// replacement, then the file operations in order. A version snapshot of the
// resulting state is appended when versioning is on. Returns the reloaded
// materialized skill; on any failure nothing is visible.
func (s *Service) Apply(ctx context.Context, input ApplyInput) (*domain.Skill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// A patched title re-derives the slug. Derivation happens before the
	// transaction opens so an underivable title rejects the whole apply
	// without any write.
	var newSlug string
	if input.Fields.Title != nil {
		newSlug = slugutil.Derive(*input.Fields.Title)
		if newSlug == "" {
			return nil, domain.NewValidationError("fields.title", "cannot be turned into a slug")
		}
	}

	var applied *domain.Skill
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		skill, err := s.skills.GetForUpdate(txCtx, input.SkillID)
		if err != nil {
			return fmt.Errorf("lock skill: %w", err)
		}

		input.Fields.Apply(skill)

		if newSlug != "" && newSlug != skill.Slug {
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
			return fmt.Errorf("update skill: %w", err)
		}

		if input.Fields.Tags != nil {
			if err := s.replaceTags(txCtx, skill.ID, *input.Fields.Tags); err != nil {
				return err
			}
		}

		for idx, op := range *input.FileOps {
			if err := s.applyFileOp(txCtx, skill.ID, op); err != nil {
				return fmt.Errorf("file op %d (%s %s): %w", idx, op.Op, op.Path, err)
			}
		}

		applied, err = s.reload(txCtx, skill.ID)
		if err != nil {
			return err
		}

		if s.versioning {
			snapshot := domain.SnapshotOf(applied, applied.TagNames())
			if _, err := s.versions.Create(txCtx, skill.ID, snapshot); err != nil {
				return fmt.Errorf("append version: %w", err)
			}
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   skill.ID,
			Action:     domain.AuditActionChangeSetApplied,
			Detail: map[string]any{
				"fields":   patchedFields(*input.Fields),
				"file_ops": len(*input.FileOps),
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

	s.log.InfoContext(ctx, "change-set applied",
		slog.String("skill_id", applied.ID.String()),
		slog.Int("file_ops", len(*input.FileOps)),
	)

	return applied, nil
}

// replaceTags normalizes and deduplicates the patched tag list (names that
// normalize to empty are dropped), ensures the tag rows exist, then
// replaces the skill's entire association set.
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

// applyFileOp executes one gated file operation. Deleting an absent path is
// not an error.
func (s *Service) applyFileOp(ctx context.Context, skillID uuid.UUID, op domain.FileOp) error {
	if op.Op == domain.FileOpDelete {
		err := s.files.Delete(ctx, skillID, op.Path)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	}

	file := &domain.SkillFile{
		ID:      uuid.New(),
		SkillID: skillID,
		Path:    op.Path,
		MIME:    op.MIME,
	}
	if op.ContentText != nil {
		file.ContentText = op.ContentText
	} else {
		decoded, err := base64.StdEncoding.DecodeString(*op.ContentBase64)
		if err != nil {
			return fmt.Errorf("decode content: %w", err)
		}
		// Re-checked right before the write, independent of the gate's
		// earlier pass.
		if len(decoded) > MaxBinaryBytes {
			return fmt.Errorf("%w: decoded content exceeds %d bytes", domain.ErrPayloadTooLarge, MaxBinaryBytes)
		}
		file.ContentBytes = decoded
	}

	if _, err := s.files.Upsert(ctx, file); err != nil {
		return err
	}
	return nil
}

// patchedFields names the patch's present fields, for the audit record.
func patchedFields(p domain.FieldPatch) []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Summary != nil {
		fields = append(fields, "summary")
	}
	if p.Inputs != nil {
		fields = append(fields, "inputs")
	}
	if p.Outputs != nil {
		fields = append(fields, "outputs")
	}
	if p.Risks != nil {
		fields = append(fields, "risks")
	}
	if p.Steps != nil {
		fields = append(fields, "steps")
	}
	if p.Triggers != nil {
		fields = append(fields, "triggers")
	}
	if p.Guardrails != nil {
		fields = append(fields, "guardrails")
	}
	if p.TestCases != nil {
		fields = append(fields, "test_cases")
	}
	if p.Tags != nil {
		fields = append(fields, "tags")
	}
	return fields
}
