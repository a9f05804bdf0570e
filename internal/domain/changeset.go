package domain

// ChangeSet is an untrusted proposed patch to one skill: field changes plus
// an ordered list of file operations. It is transient, existing only as an
// in-flight validation/apply payload, and is never persisted.
type ChangeSet struct {
	Fields  FieldPatch
	FileOps []FileOp
}

// FieldPatch carries the content fields to overwrite. A nil field means
// "leave unchanged"; a present field overwrites wholesale. Tag changes are
// reconciled separately from the scalar fields (the whole association set
// is replaced).
type FieldPatch struct {
	Title      *string
	Summary    *string
	Inputs     *string
	Outputs    *string
	Risks      *string
	Steps      *[]Step
	Triggers   *[]string
	Guardrails *GuardrailPatch
	TestCases  *[]TestCase
	Tags       *[]string
}

// GuardrailPatch is a shallow merge onto GuardrailPolicy: a nil list means
// "keep the existing one", a present list replaces it wholesale.
type GuardrailPatch struct {
	Always   *[]string
	Never    *[]string
	AskFirst *[]string
}

// FileOp is one file operation inside a change-set. Upserts carry exactly
// one of ContentText / ContentBase64; deletes carry neither.
type FileOp struct {
	Op            FileOpKind
	Path          string
	MIME          *string
	ContentText   *string
	ContentBase64 *string
}

// Apply overwrites the skill's content fields with the patch's present
// fields. Tags are intentionally not applied here. Slug re-derivation from
// a patched title is the caller's responsibility.
func (p FieldPatch) Apply(s *Skill) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Summary != nil {
		s.Summary = cloneStringPtr(p.Summary)
	}
	if p.Inputs != nil {
		s.Inputs = cloneStringPtr(p.Inputs)
	}
	if p.Outputs != nil {
		s.Outputs = cloneStringPtr(p.Outputs)
	}
	if p.Risks != nil {
		s.Risks = cloneStringPtr(p.Risks)
	}
	if p.Steps != nil {
		s.Steps = cloneSteps(*p.Steps)
	}
	if p.Triggers != nil {
		s.Triggers = cloneStrings(*p.Triggers)
	}
	if p.Guardrails != nil {
		s.Guardrails = s.Guardrails.Merge(*p.Guardrails)
	}
	if p.TestCases != nil {
		s.TestCases = cloneTestCases(*p.TestCases)
	}
}
