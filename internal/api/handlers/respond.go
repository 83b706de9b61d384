package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/blob"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Debug("writing response body", "status", status, "error", err.Error())
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps service errors onto HTTP statuses. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var scopeErr *app.ScopeError
	switch {
	case errors.Is(err, service.ErrDocumentUploadRequired):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":             err.Error(),
			"requires_document": true,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.As(err, &scopeErr):
		status := http.StatusForbidden
		if scopeErr.Code == app.ScopeErrInvalid {
			status = http.StatusBadRequest
		}
		writeErrorMessage(w, status, scopeErr.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, blob.ErrInvalidKey):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		slog.Default().ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return false
	}
	return true
}
