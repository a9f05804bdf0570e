package version

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// RollbackResult carries the restored skill and the number of the ledger
// entry the rollback itself appended.
type RollbackResult struct {
	Skill      *domain.Skill
	NewVersion int
}

// Rollback restores the skill's content fields and tag set from the target
// version's snapshot, resets status to draft, and appends a new ledger
// entry holding the restored state, all in one transaction. The slug is
// kept: snapshots carry no slug and the record stays addressable. The
// target must belong to the addressed skill; a foreign version id reports
// ErrNotFound and changes nothing.
func (s *Service) Rollback(ctx context.Context, input RollbackInput) (*RollbackResult, error) {
	if !s.versioning {
		return nil, fmt.Errorf("version ledger: %w", domain.ErrFeatureUnavailable)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var result *RollbackResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		skill, err := s.skills.GetForUpdate(txCtx, input.SkillID)
		if err != nil {
			return fmt.Errorf("lock skill: %w", err)
		}

		// Snapshot shape is validated on read; a malformed row surfaces
		// here as ErrInvalidSnapshot before anything is written.
		target, err := s.versions.Get(txCtx, input.SkillID, input.VersionID)
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}

		restoreSnapshot(skill, target.Snapshot)
		if _, err := s.skills.Update(txCtx, skill); err != nil {
			return fmt.Errorf("restore fields: %w", err)
		}
		if err := s.skills.SetStatus(txCtx, skill.ID, domain.SkillStatusDraft); err != nil {
			return fmt.Errorf("reset status: %w", err)
		}

		if err := s.replaceTags(txCtx, skill.ID, target.Snapshot.Tags); err != nil {
			return err
		}

		created, err := s.versions.Create(txCtx, skill.ID, target.Snapshot)
		if err != nil {
			return fmt.Errorf("append version: %w", err)
		}

		restored, err := s.reload(txCtx, skill.ID)
		if err != nil {
			return err
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   skill.ID,
			Action:     domain.AuditActionRolledBack,
			Detail: map[string]any{
				"from_version": target.Number,
				"new_version":  created.Number,
				"reason":       input.Reason,
			},
		}
		if err := s.audit.Log(txCtx, event); err != nil {
			return fmt.Errorf("log audit event: %w", err)
		}

		result = &RollbackResult{Skill: restored, NewVersion: created.Number}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill rolled back",
		slog.String("skill_id", result.Skill.ID.String()),
		slog.Int("new_version", result.NewVersion),
	)

	return result, nil
}

// restoreSnapshot overwrites the skill's content fields from the snapshot.
// Slug and timestamps are untouched.
func restoreSnapshot(s *domain.Skill, snap domain.SkillSnapshot) {
	s.Title = snap.Title
	s.Summary = snap.Summary
	s.Inputs = snap.Inputs
	s.Outputs = snap.Outputs
	s.Risks = snap.Risks
	s.Steps = snap.Steps
	s.Triggers = snap.Triggers
	s.Guardrails = snap.Guardrails
	s.TestCases = snap.TestCases
}

// replaceTags reconciles the skill's association set to the snapshot's tag
// names.
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
