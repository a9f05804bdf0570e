package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Error  string           `json:"error"`
	Fields []fieldErrorJSON `json:"fields"`
}

type conflictResponse struct {
	Error          string     `json:"error"`
	Field          string     `json:"field,omitempty"`
	CurrentVersion *int       `json:"current_version,omitempty"`
	Value          string     `json:"value,omitempty"`
	ConflictingID  *uuid.UUID `json:"conflicting_id,omitempty"`
}

// handleError maps domain errors to HTTP statuses. Validation responses
// carry the full violation list and conflict responses carry the current
// version or the holder's id, so callers can correct or resync without
// re-guessing.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields := make([]fieldErrorJSON, len(verr.Errors))
		for i, fe := range verr.Errors {
			fields[i] = fieldErrorJSON{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: fields})
		return
	}

	var cerr *domain.ConflictError
	if errors.As(err, &cerr) {
		resp := conflictResponse{Error: cerr.Error(), Field: cerr.Field}
		if cerr.Field == "version" {
			current := cerr.CurrentVersion
			resp.CurrentVersion = &current
		} else {
			resp.Value = cerr.Value
			if cerr.ConflictingID != uuid.Nil {
				id := cerr.ConflictingID
				resp.ConflictingID = &id
			}
		}
		writeJSON(w, http.StatusConflict, resp)
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrFeatureUnavailable):
		writeError(w, http.StatusServiceUnavailable, "versioning schema not provisioned")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
