package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/service/changeset"
)

// changesetService defines the minimal interface needed by
// ChangesetHandler.
type changesetService interface {
	Apply(ctx context.Context, input changeset.ApplyInput) (*domain.Skill, error)
}

// ChangesetHandler serves the change-set apply endpoint.
type ChangesetHandler struct {
	svc changesetService
	log *slog.Logger
}

// NewChangesetHandler creates a ChangesetHandler.
func NewChangesetHandler(svc changesetService, logger *slog.Logger) *ChangesetHandler {
	return &ChangesetHandler{svc: svc, log: logger.With("handler", "changeset")}
}

// Patch fields decode as pointers so absent and present-but-empty stay
// distinguishable all the way down to the service.

type guardrailPatchJSON struct {
	Always   *[]string `json:"always"`
	Never    *[]string `json:"never"`
	AskFirst *[]string `json:"ask_first"`
}

type fieldPatchJSON struct {
	Title      *string             `json:"title"`
	Summary    *string             `json:"summary"`
	Inputs     *string             `json:"inputs"`
	Outputs    *string             `json:"outputs"`
	Risks      *string             `json:"risks"`
	Steps      *[]stepJSON         `json:"steps"`
	Triggers   *[]string           `json:"triggers"`
	Guardrails *guardrailPatchJSON `json:"guardrails"`
	TestCases  *[]testCaseJSON     `json:"test_cases"`
	Tags       *[]string           `json:"tags"`
}

type fileOpJSON struct {
	Op            string  `json:"op"`
	Path          string  `json:"path"`
	MIME          *string `json:"mime"`
	ContentText   *string `json:"content_text"`
	ContentBase64 *string `json:"content_base64"`
}

type changeSetJSON struct {
	Fields  *fieldPatchJSON `json:"fields"`
	FileOps *[]fileOpJSON   `json:"file_ops"`
}

type applyChangesetRequest struct {
	ChangeSet *changeSetJSON `json:"change_set"`
}

func (p fieldPatchJSON) toPatch() domain.FieldPatch {
	out := domain.FieldPatch{
		Title:    p.Title,
		Summary:  p.Summary,
		Inputs:   p.Inputs,
		Outputs:  p.Outputs,
		Risks:    p.Risks,
		Triggers: p.Triggers,
		Tags:     p.Tags,
	}
	if p.Steps != nil {
		steps := fromStepsJSON(*p.Steps)
		out.Steps = &steps
	}
	if p.Guardrails != nil {
		out.Guardrails = &domain.GuardrailPatch{
			Always:   p.Guardrails.Always,
			Never:    p.Guardrails.Never,
			AskFirst: p.Guardrails.AskFirst,
		}
	}
	if p.TestCases != nil {
		tcs := fromTestCasesJSON(*p.TestCases)
		out.TestCases = &tcs
	}
	return out
}

func (cs *changeSetJSON) toInput(skillID uuid.UUID) changeset.ApplyInput {
	input := changeset.ApplyInput{SkillID: skillID}
	if cs == nil {
		return input
	}
	if cs.Fields != nil {
		patch := cs.Fields.toPatch()
		input.Fields = &patch
	}
	if cs.FileOps != nil {
		ops := make([]domain.FileOp, len(*cs.FileOps))
		for i, op := range *cs.FileOps {
			ops[i] = domain.FileOp{
				Op:            domain.FileOpKind(op.Op),
				Path:          op.Path,
				MIME:          op.MIME,
				ContentText:   op.ContentText,
				ContentBase64: op.ContentBase64,
			}
		}
		input.FileOps = &ops
	}
	return input
}

// Apply handles POST /api/v1/skills/{id}/changeset. A change-set that
// fails the gate comes back as a 400 with the complete violation list;
// nothing is written in that case.
func (h *ChangesetHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	var req applyChangesetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.svc.Apply(r.Context(), req.ChangeSet.toInput(id))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSkillJSON(s))
}
