package domain

import (
	"time"

	"github.com/google/uuid"
)

// Skill is the primary authored record: a reusable procedure with steps,
// triggers, guardrails, and test cases, plus supporting files and tags.
type Skill struct {
	ID         uuid.UUID
	Slug       string
	Status     SkillStatus
	Title      string
	Summary    *string
	Inputs     *string
	Outputs    *string
	Risks      *string
	Steps      []Step
	Triggers   []string
	Guardrails GuardrailPolicy
	TestCases  []TestCase
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tags  []Tag
	Files []SkillFile
}

// IsPublished reports whether the skill is currently in the published
// state. Only publish and rollback move a skill between states.
func (s *Skill) IsPublished() bool {
	return s.Status == SkillStatusPublished
}

// TagNames flattens the loaded tag set to a plain name list.
// Returns an empty slice, never nil.
func (s *Skill) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Step is one ordered instruction inside a skill. Order is the slice order.
type Step struct {
	Title  string
	Detail *string
}

// TestCase is an example the skill is expected to handle.
type TestCase struct {
	Name     string
	Input    string
	Expected string
}

// GuardrailPolicy constrains how a skill may be exercised. Each list is an
// independent sub-field: patches replace a list wholesale and leave the
// others untouched.
type GuardrailPolicy struct {
	Always   []string
	Never    []string
	AskFirst []string
}

// Merge returns a copy of the policy with the patch's specified sub-fields
// overwritten wholesale. Unspecified sub-fields survive unchanged.
func (p GuardrailPolicy) Merge(patch GuardrailPatch) GuardrailPolicy {
	out := GuardrailPolicy{
		Always:   cloneStrings(p.Always),
		Never:    cloneStrings(p.Never),
		AskFirst: cloneStrings(p.AskFirst),
	}
	if patch.Always != nil {
		out.Always = cloneStrings(*patch.Always)
	}
	if patch.Never != nil {
		out.Never = cloneStrings(*patch.Never)
	}
	if patch.AskFirst != nil {
		out.AskFirst = cloneStrings(*patch.AskFirst)
	}
	return out
}

// SkillFile is a supporting file stored under a skill, keyed by path.
// Exactly one of ContentText / ContentBytes is set.
type SkillFile struct {
	ID           uuid.UUID
	SkillID      uuid.UUID
	Path         string
	MIME         *string
	ContentText  *string
	ContentBytes []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Kind reports which content representation the file carries.
func (f *SkillFile) Kind() FileKind {
	if f.ContentText != nil {
		return FileKindText
	}
	return FileKindBinary
}

// Size returns the stored content length in bytes.
func (f *SkillFile) Size() int {
	if f.ContentText != nil {
		return len(*f.ContentText)
	}
	return len(f.ContentBytes)
}
