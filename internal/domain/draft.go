package domain

import (
	"time"

	"github.com/google/uuid"
)

// Draft is short-lived scratch state for the editor, keyed by an opaque
// client-chosen key. The payload is application-opaque: the server stores
// and versions it but never interprets it. Version is a pure optimistic
// concurrency token, incremented server-side by exactly 1 on every
// successful write.
type Draft struct {
	Key       string
	Mode      DraftMode
	SkillID   *uuid.UUID
	Payload   map[string]any
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
