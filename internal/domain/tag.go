package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a label attached to skills. Name is stored normalized
// (see NormalizeTag) and is unique.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
