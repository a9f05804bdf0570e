package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/service/skill"
)

// skillService defines the minimal interface needed by SkillHandler.
type skillService interface {
	CreateSkill(ctx context.Context, input skill.CreateSkillInput) (*domain.Skill, error)
	GetSkill(ctx context.Context, input skill.GetSkillInput) (*domain.Skill, error)
	ListSkills(ctx context.Context, input skill.ListSkillsInput) (*skill.SkillPage, error)
	UpdateSkill(ctx context.Context, input skill.UpdateSkillInput) (*domain.Skill, error)
	DeleteSkill(ctx context.Context, input skill.DeleteSkillInput) error
	DuplicateSkill(ctx context.Context, input skill.DuplicateSkillInput) (*domain.Skill, error)
	ListFiles(ctx context.Context, input skill.ListFilesInput) ([]*domain.SkillFile, error)
}

// SkillHandler serves skill REST endpoints.
type SkillHandler struct {
	svc skillService
	log *slog.Logger
}

// NewSkillHandler creates a SkillHandler.
func NewSkillHandler(svc skillService, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{svc: svc, log: logger.With("handler", "skill")}
}

// skillContentRequest is the full content field set for create and update.
// Commits are full overwrites: absent fields land as zero values.
type skillContentRequest struct {
	Title      string          `json:"title"`
	Summary    *string         `json:"summary"`
	Inputs     *string         `json:"inputs"`
	Outputs    *string         `json:"outputs"`
	Risks      *string         `json:"risks"`
	Steps      []stepJSON      `json:"steps"`
	Triggers   []string        `json:"triggers"`
	Guardrails *guardrailsJSON `json:"guardrails"`
	TestCases  []testCaseJSON  `json:"test_cases"`
	Tags       []string        `json:"tags"`
}

func (req skillContentRequest) toInput() skill.ContentInput {
	in := skill.ContentInput{
		Title:     req.Title,
		Summary:   req.Summary,
		Inputs:    req.Inputs,
		Outputs:   req.Outputs,
		Risks:     req.Risks,
		Steps:     fromStepsJSON(req.Steps),
		Triggers:  req.Triggers,
		TestCases: fromTestCasesJSON(req.TestCases),
		Tags:      req.Tags,
	}
	if req.Guardrails != nil {
		in.Guardrails = domain.GuardrailPolicy{
			Always:   req.Guardrails.Always,
			Never:    req.Guardrails.Never,
			AskFirst: req.Guardrails.AskFirst,
		}
	}
	return in
}

type skillPageResponse struct {
	Skills []skillJSON `json:"skills"`
	Total  int         `json:"total"`
	Page   int         `json:"page"`
	Limit  int         `json:"limit"`
}

type filesResponse struct {
	Files []fileJSON `json:"files"`
}

// Create handles POST /api/v1/skills.
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req skillContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.svc.CreateSkill(r.Context(), skill.CreateSkillInput{ContentInput: req.toInput()})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSkillJSON(s))
}

// List handles GET /api/v1/skills.
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := skill.ListSkillsInput{
		Page:  queryInt(q, "page"),
		Limit: queryInt(q, "limit"),
	}
	if v := q.Get("status"); v != "" {
		status := domain.SkillStatus(v)
		input.Status = &status
	}
	if v := q.Get("tag"); v != "" {
		input.Tag = &v
	}
	if v := q.Get("search"); v != "" {
		input.Search = &v
	}

	page, err := h.svc.ListSkills(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, skillPageResponse{
		Skills: toSkillsJSON(page.Skills),
		Total:  page.Total,
		Page:   page.Page,
		Limit:  page.Limit,
	})
}

// Get handles GET /api/v1/skills/{id}.
func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	s, err := h.svc.GetSkill(r.Context(), skill.GetSkillInput{SkillID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSkillJSON(s))
}

// Update handles PATCH /api/v1/skills/{id}.
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	var req skillContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.svc.UpdateSkill(r.Context(), skill.UpdateSkillInput{
		SkillID:      id,
		ContentInput: req.toInput(),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSkillJSON(s))
}

// Delete handles DELETE /api/v1/skills/{id}.
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	if err := h.svc.DeleteSkill(r.Context(), skill.DeleteSkillInput{SkillID: id}); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Duplicate handles POST /api/v1/skills/{id}/duplicate.
func (h *SkillHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	s, err := h.svc.DuplicateSkill(r.Context(), skill.DuplicateSkillInput{SkillID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSkillJSON(s))
}

// Files handles GET /api/v1/skills/{id}/files.
func (h *SkillHandler) Files(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	files, err := h.svc.ListFiles(r.Context(), skill.ListFilesInput{SkillID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, filesResponse{Files: toFilesJSON(files)})
}

// pathID parses the named path segment as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}

// queryInt reads an optional integer query parameter. Absent or malformed
// values come back as 0, which the services clamp to their defaults.
func queryInt(q url.Values, name string) int {
	v := q.Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
