package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/service/version"
)

// versionService defines the minimal interface needed by VersionHandler.
type versionService interface {
	ListVersions(ctx context.Context, input version.ListVersionsInput) (*version.HistoryPage, error)
	GetVersion(ctx context.Context, input version.GetVersionInput) (*domain.Version, error)
	Rollback(ctx context.Context, input version.RollbackInput) (*version.RollbackResult, error)
}

// VersionHandler serves version ledger REST endpoints.
type VersionHandler struct {
	svc versionService
	log *slog.Logger
}

// NewVersionHandler creates a VersionHandler.
func NewVersionHandler(svc versionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{svc: svc, log: logger.With("handler", "version")}
}

type historyPageResponse struct {
	Versions []versionJSON `json:"versions"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}

type rollbackRequest struct {
	VersionID uuid.UUID `json:"version_id"`
	Reason    *string   `json:"reason"`
}

type rollbackResponse struct {
	Skill      skillJSON `json:"skill"`
	NewVersion int       `json:"new_version"`
}

// List handles GET /api/v1/skills/{id}/versions.
func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	q := r.URL.Query()
	page, err := h.svc.ListVersions(r.Context(), version.ListVersionsInput{
		SkillID: id,
		Page:    queryInt(q, "page"),
		Limit:   queryInt(q, "limit"),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, historyPageResponse{
		Versions: toVersionsJSON(page.Versions),
		Total:    page.Total,
		Page:     page.Page,
		Limit:    page.Limit,
	})
}

// Get handles GET /api/v1/skills/{id}/versions/{versionID}.
func (h *VersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	versionID, err := pathID(r, "versionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid version id")
		return
	}

	v, err := h.svc.GetVersion(r.Context(), version.GetVersionInput{
		SkillID:   id,
		VersionID: versionID,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toVersionJSON(v))
}

// Rollback handles POST /api/v1/skills/{id}/rollback.
func (h *VersionHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	var req rollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Rollback(r.Context(), version.RollbackInput{
		SkillID:   id,
		VersionID: req.VersionID,
		Reason:    req.Reason,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, rollbackResponse{
		Skill:      toSkillJSON(result.Skill),
		NewVersion: result.NewVersion,
	})
}
