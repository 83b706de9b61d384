package handlers

import (
	"net/http"
	"strconv"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/contract"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/service"
)

type StageHandler struct {
	stages service.StageService
}

func NewStageHandler(stages service.StageService) *StageHandler {
	return &StageHandler{stages: stages}
}

func (h *StageHandler) List(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	stages, err := h.stages.ListByClient(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stages": contract.FromStages(stages)})
}

func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	var body contract.CreateStageRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	stage, err := h.stages.AddStage(r.Context(), scope, r.PathValue("id"), body.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"stage": contract.FromStage(stage)})
}

func (h *StageHandler) SetStatus(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	status, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	stage, err := h.stages.SetStageStatus(r.Context(), scope, r.PathValue("id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stage": contract.FromStage(stage)})
}

func (h *StageHandler) CreateSubtask(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	var body contract.CreateSubtaskRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	st, err := h.stages.AddSubtask(r.Context(), scope, r.PathValue("id"), body.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"subtask": contract.FromSubtask(st)})
}

func (h *StageHandler) SetSubtaskStatus(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	status, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	st, err := h.stages.SetSubtaskStatus(r.Context(), scope, r.PathValue("id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subtask": contract.FromSubtask(st)})
}

// decodeStatus reads {"status": "..."} and resolves it to a known status.
func decodeStatus(w http.ResponseWriter, r *http.Request) (domain.Status, bool) {
	var body contract.StatusChangeRequest
	if !decodeJSON(w, r, &body) {
		return "", false
	}
	status, ok := domain.LookupStatus(body.Status)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "unknown status "+strconv.Quote(body.Status))
		return "", false
	}
	return status, true
}
