package handlers

import (
	"net/http"
	"strconv"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/contract"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/service"
)

type ClientHandler struct {
	clients service.ClientService
	audit   service.AuditService
}

func NewClientHandler(clients service.ClientService, audit service.AuditService) *ClientHandler {
	return &ClientHandler{clients: clients, audit: audit}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))
	clients, err := h.clients.List(r.Context(), scope, includeArchived)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": contract.FromClients(clients)})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	var body contract.CreateClientRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	due, err := contract.ParseDate(body.DueDate)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}
	c := &domain.Client{
		Name:            body.Name,
		Email:           body.Email,
		CPAID:           body.CPAID,
		ServiceCenterID: body.ServiceCenterID,
		DueDate:         due,
	}
	if err := h.clients.Create(r.Context(), scope, c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"client": contract.FromClient(c)})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	c, err := h.clients.GetByID(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"client": contract.FromClient(c)})
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	if err := h.clients.Delete(r.Context(), scope, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) Audit(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.audit.List(r.Context(), scope, r.PathValue("id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": contract.FromAuditEntries(entries)})
}
