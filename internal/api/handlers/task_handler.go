package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/contract"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
	"github.com/gentyx/clienthub/internal/service"
)

type TaskHandler struct {
	tasks          service.TaskService
	maxUploadBytes int64
}

func NewTaskHandler(tasks service.TaskService, maxUploadBytes int64) *TaskHandler {
	return &TaskHandler{tasks: tasks, maxUploadBytes: maxUploadBytes}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	tasks, err := h.tasks.ListByClient(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": contract.FromTasks(tasks)})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	var body contract.CreateTaskRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	role, ok := domain.ParseRole(body.AssigneeRole)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "unknown assignee_role "+strconv.Quote(body.AssigneeRole))
		return
	}
	due, err := contract.ParseDate(body.DueDate)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}
	t := &domain.Task{
		ClientID:         r.PathValue("id"),
		Title:            body.Title,
		Description:      body.Description,
		AssigneeRole:     role,
		DueDate:          due,
		DocumentRequired: progress.NormalizeDocumentRequired(body.DocumentRequired),
	}
	if err := h.tasks.Create(r.Context(), scope, t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": contract.FromTask(t)})
}

// SetStatus changes a task's status without an upload. A document-gated
// completion answers 409 with requires_document so the caller can retry via
// the upload route.
func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	status, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	resp, err := h.tasks.UpdateStatus(r.Context(), app.TaskStatusRequest{
		Scope:     scope,
		TaskID:    r.PathValue("id"),
		NewStatus: status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromTaskStatus(resp))
}

// Complete takes a multipart upload (field "file") and applies the status
// from the "status" field, defaulting to Completed.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorMessage(w, http.StatusRequestEntityTooLarge, "upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeErrorMessage(w, http.StatusBadRequest, "multipart form required: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	status := domain.StatusCompleted
	if raw := r.FormValue("status"); raw != "" {
		s, ok := domain.LookupStatus(raw)
		if !ok {
			writeErrorMessage(w, http.StatusBadRequest, "unknown status "+strconv.Quote(raw))
			return
		}
		status = s
	}

	resp, err := h.tasks.UpdateStatus(r.Context(), app.TaskStatusRequest{
		Scope:     scope,
		TaskID:    r.PathValue("id"),
		NewStatus: status,
		Upload: &app.DocumentUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromTaskStatus(resp))
}

func (h *TaskHandler) Documents(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	docs, err := h.tasks.ListDocuments(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]contract.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, contract.FromDocument(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

// Download streams a stored upload back with its recorded content type.
func (h *TaskHandler) Download(w http.ResponseWriter, r *http.Request, scope app.Scope) {
	doc, body, err := h.tasks.OpenDocument(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Default().DebugContext(r.Context(), "document download interrupted",
			"document_id", doc.ID, "error", err.Error())
	}
}
