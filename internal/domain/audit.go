package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies what kind of entity an audit event refers to.
type EntityType string

const (
	EntityTypeSkill EntityType = "skill"
	EntityTypeTag   EntityType = "tag"
)

func (t EntityType) String() string { return string(t) }

func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeSkill, EntityTypeTag:
		return true
	}
	return false
}

// AuditAction identifies the mutation an audit event records.
type AuditAction string

const (
	AuditActionCreated          = AuditAction("created")
	AuditActionUpdated          = AuditAction("updated")
	AuditActionDeleted          = AuditAction("deleted")
	AuditActionDuplicated       = AuditAction("duplicated")
	AuditActionPublished        = AuditAction("published")
	AuditActionRolledBack       = AuditAction("rolled_back")
	AuditActionChangeSetApplied = AuditAction("changeset_applied")
	AuditActionTagsMerged       = AuditAction("tags_merged")
)

func (a AuditAction) String() string { return string(a) }

// AuditEvent is one append-only history entry recording a mutation: what
// entity changed, how, and free-form detail (rollback reason, publish
// note, moved link counts). Events are written in the same transaction as
// the mutation they describe, so a rolled-back operation leaves no event.
type AuditEvent struct {
	ID         uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Action     AuditAction
	Detail     map[string]any
	CreatedAt  time.Time
}
