package domain

import "fmt"

// SkillSnapshot is an immutable full projection of a skill: every content
// field plus the flattened tag name list, captured at one point in time.
// Snapshots are deep copies; mutating the source skill after capture never
// changes a snapshot.
type SkillSnapshot struct {
	Title      string
	Summary    *string
	Inputs     *string
	Outputs    *string
	Risks      *string
	Steps      []Step
	Triggers   []string
	Guardrails GuardrailPolicy
	TestCases  []TestCase
	Tags       []string
}

// SnapshotOf captures a deep copy of the skill's content fields and the
// given tag names.
func SnapshotOf(s *Skill, tagNames []string) SkillSnapshot {
	return SkillSnapshot{
		Title:   s.Title,
		Summary: cloneStringPtr(s.Summary),
		Inputs:  cloneStringPtr(s.Inputs),
		Outputs: cloneStringPtr(s.Outputs),
		Risks:   cloneStringPtr(s.Risks),
		Steps:   cloneSteps(s.Steps),
		Triggers: cloneStrings(s.Triggers),
		Guardrails: GuardrailPolicy{
			Always:   cloneStrings(s.Guardrails.Always),
			Never:    cloneStrings(s.Guardrails.Never),
			AskFirst: cloneStrings(s.Guardrails.AskFirst),
		},
		TestCases: cloneTestCases(s.TestCases),
		Tags:      cloneStrings(tagNames),
	}
}

// Validate checks the snapshot's shape before a caller trusts it, most
// importantly before a rollback restores it into a live skill. Malformed
// snapshots report ErrInvalidSnapshot.
func (s *SkillSnapshot) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidSnapshot)
	}
	for i, step := range s.Steps {
		if step.Title == "" {
			return fmt.Errorf("%w: step %d has no title", ErrInvalidSnapshot, i)
		}
	}
	for i, tc := range s.TestCases {
		if tc.Name == "" {
			return fmt.Errorf("%w: test case %d has no name", ErrInvalidSnapshot, i)
		}
	}
	for i, tag := range s.Tags {
		if tag == "" {
			return fmt.Errorf("%w: tag %d is empty", ErrInvalidSnapshot, i)
		}
	}
	return nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneSteps(in []Step) []Step {
	out := make([]Step, len(in))
	for i, s := range in {
		out[i] = Step{Title: s.Title, Detail: cloneStringPtr(s.Detail)}
	}
	return out
}

func cloneTestCases(in []TestCase) []TestCase {
	out := make([]TestCase, len(in))
	copy(out, in)
	return out
}
