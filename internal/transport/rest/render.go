package rest

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// Wire shapes shared by the handlers. Field identifiers match the
// validation error fields, so a 400 response points at the offending
// request key verbatim.

type stepJSON struct {
	Title  string  `json:"title"`
	Detail *string `json:"detail,omitempty"`
}

type testCaseJSON struct {
	Name     string `json:"name"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

type guardrailsJSON struct {
	Always   []string `json:"always"`
	Never    []string `json:"never"`
	AskFirst []string `json:"ask_first"`
}

type skillJSON struct {
	ID         uuid.UUID      `json:"id"`
	Slug       string         `json:"slug"`
	Status     string         `json:"status"`
	Title      string         `json:"title"`
	Summary    *string        `json:"summary,omitempty"`
	Inputs     *string        `json:"inputs,omitempty"`
	Outputs    *string        `json:"outputs,omitempty"`
	Risks      *string        `json:"risks,omitempty"`
	Steps      []stepJSON     `json:"steps"`
	Triggers   []string       `json:"triggers"`
	Guardrails guardrailsJSON `json:"guardrails"`
	TestCases  []testCaseJSON `json:"test_cases"`
	Tags       []string       `json:"tags"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type snapshotJSON struct {
	Title      string         `json:"title"`
	Summary    *string        `json:"summary,omitempty"`
	Inputs     *string        `json:"inputs,omitempty"`
	Outputs    *string        `json:"outputs,omitempty"`
	Risks      *string        `json:"risks,omitempty"`
	Steps      []stepJSON     `json:"steps"`
	Triggers   []string       `json:"triggers"`
	Guardrails guardrailsJSON `json:"guardrails"`
	TestCases  []testCaseJSON `json:"test_cases"`
	Tags       []string       `json:"tags"`
}

type versionJSON struct {
	ID        uuid.UUID    `json:"id"`
	SkillID   uuid.UUID    `json:"skill_id"`
	Number    int          `json:"number"`
	Snapshot  snapshotJSON `json:"snapshot"`
	CreatedAt time.Time    `json:"created_at"`
}

type publicationJSON struct {
	ID          uuid.UUID `json:"id"`
	SkillID     uuid.UUID `json:"skill_id"`
	VersionID   uuid.UUID `json:"version_id"`
	Version     int       `json:"version"`
	Note        *string   `json:"note,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

type tagJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// fileJSON carries exactly one of content_text / content_base64, mirroring
// the change-set upsert format.
type fileJSON struct {
	ID            uuid.UUID `json:"id"`
	Path          string    `json:"path"`
	MIME          *string   `json:"mime,omitempty"`
	Kind          string    `json:"kind"`
	Size          int       `json:"size"`
	ContentText   *string   `json:"content_text,omitempty"`
	ContentBase64 *string   `json:"content_base64,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type draftJSON struct {
	Key       string         `json:"key"`
	Mode      string         `json:"mode"`
	RecordID  *uuid.UUID     `json:"record_id,omitempty"`
	Payload   map[string]any `json:"payload"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toStepsJSON(steps []domain.Step) []stepJSON {
	out := make([]stepJSON, len(steps))
	for i, s := range steps {
		out[i] = stepJSON{Title: s.Title, Detail: s.Detail}
	}
	return out
}

func fromStepsJSON(steps []stepJSON) []domain.Step {
	out := make([]domain.Step, len(steps))
	for i, s := range steps {
		out[i] = domain.Step{Title: s.Title, Detail: s.Detail}
	}
	return out
}

func fromTestCasesJSON(tcs []testCaseJSON) []domain.TestCase {
	out := make([]domain.TestCase, len(tcs))
	for i, tc := range tcs {
		out[i] = domain.TestCase{Name: tc.Name, Input: tc.Input, Expected: tc.Expected}
	}
	return out
}

func toTestCasesJSON(tcs []domain.TestCase) []testCaseJSON {
	out := make([]testCaseJSON, len(tcs))
	for i, tc := range tcs {
		out[i] = testCaseJSON{Name: tc.Name, Input: tc.Input, Expected: tc.Expected}
	}
	return out
}

func toGuardrailsJSON(p domain.GuardrailPolicy) guardrailsJSON {
	return guardrailsJSON{
		Always:   emptyIfNil(p.Always),
		Never:    emptyIfNil(p.Never),
		AskFirst: emptyIfNil(p.AskFirst),
	}
}

func toSkillJSON(s *domain.Skill) skillJSON {
	return skillJSON{
		ID:         s.ID,
		Slug:       s.Slug,
		Status:     s.Status.String(),
		Title:      s.Title,
		Summary:    s.Summary,
		Inputs:     s.Inputs,
		Outputs:    s.Outputs,
		Risks:      s.Risks,
		Steps:      toStepsJSON(s.Steps),
		Triggers:   emptyIfNil(s.Triggers),
		Guardrails: toGuardrailsJSON(s.Guardrails),
		TestCases:  toTestCasesJSON(s.TestCases),
		Tags:       s.TagNames(),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toSkillsJSON(skills []*domain.Skill) []skillJSON {
	out := make([]skillJSON, len(skills))
	for i, s := range skills {
		out[i] = toSkillJSON(s)
	}
	return out
}

func toSnapshotJSON(snap domain.SkillSnapshot) snapshotJSON {
	return snapshotJSON{
		Title:      snap.Title,
		Summary:    snap.Summary,
		Inputs:     snap.Inputs,
		Outputs:    snap.Outputs,
		Risks:      snap.Risks,
		Steps:      toStepsJSON(snap.Steps),
		Triggers:   emptyIfNil(snap.Triggers),
		Guardrails: toGuardrailsJSON(snap.Guardrails),
		TestCases:  toTestCasesJSON(snap.TestCases),
		Tags:       emptyIfNil(snap.Tags),
	}
}

func toVersionJSON(v *domain.Version) versionJSON {
	return versionJSON{
		ID:        v.ID,
		SkillID:   v.SkillID,
		Number:    v.Number,
		Snapshot:  toSnapshotJSON(v.Snapshot),
		CreatedAt: v.CreatedAt,
	}
}

func toVersionsJSON(versions []*domain.Version) []versionJSON {
	out := make([]versionJSON, len(versions))
	for i, v := range versions {
		out[i] = toVersionJSON(v)
	}
	return out
}

func toPublicationJSON(p *domain.PublicationWithVersion) publicationJSON {
	return publicationJSON{
		ID:          p.ID,
		SkillID:     p.SkillID,
		VersionID:   p.VersionID,
		Version:     p.VersionNumber,
		Note:        p.Note,
		PublishedAt: p.PublishedAt,
	}
}

func toPublicationsJSON(pubs []*domain.PublicationWithVersion) []publicationJSON {
	out := make([]publicationJSON, len(pubs))
	for i, p := range pubs {
		out[i] = toPublicationJSON(p)
	}
	return out
}

func toTagJSON(t *domain.Tag) tagJSON {
	return tagJSON{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func toTagsJSON(tags []*domain.Tag) []tagJSON {
	out := make([]tagJSON, len(tags))
	for i, t := range tags {
		out[i] = toTagJSON(t)
	}
	return out
}

func toFileJSON(f *domain.SkillFile) fileJSON {
	out := fileJSON{
		ID:        f.ID,
		Path:      f.Path,
		MIME:      f.MIME,
		Kind:      f.Kind().String(),
		Size:      f.Size(),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.ContentText != nil {
		out.ContentText = f.ContentText
	} else {
		encoded := base64.StdEncoding.EncodeToString(f.ContentBytes)
		out.ContentBase64 = &encoded
	}
	return out
}

func toFilesJSON(files []*domain.SkillFile) []fileJSON {
	out := make([]fileJSON, len(files))
	for i, f := range files {
		out[i] = toFileJSON(f)
	}
	return out
}

func toDraftJSON(d *domain.Draft) draftJSON {
	return draftJSON{
		Key:       d.Key,
		Mode:      d.Mode.String(),
		RecordID:  d.SkillID,
		Payload:   d.Payload,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
