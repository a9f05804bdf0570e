package domain

// SkillFilter contains filtering/pagination parameters for skill listings.
type SkillFilter struct {
	Search *string
	Status *SkillStatus
	Tag    *string
	Limit  int
	Offset int
}

// VersionPage contains pagination parameters for version history listings.
// Limit is clamped by the service layer before it reaches the repository.
type VersionPage struct {
	Limit  int
	Offset int
}
