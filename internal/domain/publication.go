package domain

import (
	"time"

	"github.com/google/uuid"
)

// Publication marks one specific version as released. A skill may
// accumulate many publications over time, possibly referencing the same
// version more than once.
type Publication struct {
	ID          uuid.UUID
	SkillID     uuid.UUID
	VersionID   uuid.UUID
	Note        *string
	PublishedAt time.Time
}

// PublicationWithVersion annotates a publication with the number of the
// version it references. The number comes from a join, never from copying
// the snapshot.
type PublicationWithVersion struct {
	Publication
	VersionNumber int
}
