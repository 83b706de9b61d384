package handlers

import (
	"net/http"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/contract"
	"github.com/gentyx/clienthub/internal/importer"
	"github.com/gentyx/clienthub/internal/service"
)

type ImportHandler struct {
	imports service.ImportService
}

func NewImportHandler(imports service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Import creates a client from an onboarding plan posted as JSON.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	var schema importer.ImportSchema
	if !decodeJSON(w, r, &schema) {
		return
	}
	res, err := h.imports.ImportClientFromSchema(r.Context(), scope, &schema)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"client":   contract.FromClient(res.Client),
		"stages":   res.StageCount,
		"subtasks": res.SubtaskCount,
		"tasks":    res.TaskCount,
	})
}
