package handlers

import (
	"net/http"
	"strconv"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/contract"
	"github.com/gentyx/clienthub/internal/service"
)

type ProgressHandler struct {
	progress service.ProgressService
}

func NewProgressHandler(progress service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) ClientProgress(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	resp, err := h.progress.ClientProgress(r.Context(), app.ClientProgressRequest{
		Scope:    scope,
		ClientID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromClientProgress(resp))
}

func (h *ProgressHandler) Dashboard(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))
	resp, err := h.progress.Dashboard(r.Context(), app.DashboardRequest{
		Scope:           scope,
		IncludeArchived: includeArchived,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromDashboard(resp))
}
