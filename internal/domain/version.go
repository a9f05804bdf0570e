package domain

import (
	"time"

	"github.com/google/uuid"
)

// Version is one append-only ledger entry: an immutable snapshot of a
// skill's full projection, addressed by a per-skill number that is unique
// and strictly increasing (contiguity is not guaranteed).
type Version struct {
	ID        uuid.UUID
	SkillID   uuid.UUID
	Number    int
	Snapshot  SkillSnapshot
	CreatedAt time.Time
}
