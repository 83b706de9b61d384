package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gentyx/clienthub/internal/api/handlers"
	"github.com/gentyx/clienthub/internal/service"
)

// Services is what the HTTP API needs from the service layer.
type Services struct {
	Clients  service.ClientService
	Stages   service.StageService
	Tasks    service.TaskService
	Progress service.ProgressService
	Audit    service.AuditService
	Import   service.ImportService
}

func SetupRouter(svc Services, maxUploadBytes int64, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	clientHandler := handlers.NewClientHandler(svc.Clients, svc.Audit)
	stageHandler := handlers.NewStageHandler(svc.Stages)
	taskHandler := handlers.NewTaskHandler(svc.Tasks, maxUploadBytes)
	progressHandler := handlers.NewProgressHandler(svc.Progress)
	importHandler := handlers.NewImportHandler(svc.Import)

	mux.HandleFunc("GET /healthz", handlers.Health)

	mux.HandleFunc("GET /clients", handlers.WithScope(clientHandler.List))
	mux.HandleFunc("POST /clients", handlers.WithScope(clientHandler.Create))
	mux.HandleFunc("POST /clients/import", handlers.WithScope(importHandler.Import))
	mux.HandleFunc("GET /clients/{id}", handlers.WithScope(clientHandler.Get))
	mux.HandleFunc("DELETE /clients/{id}", handlers.WithScope(clientHandler.Delete))
	mux.HandleFunc("GET /clients/{id}/audit", handlers.WithScope(clientHandler.Audit))
	mux.HandleFunc("GET /clients/{id}/progress", handlers.WithScope(progressHandler.ClientProgress))

	mux.HandleFunc("GET /clients/{id}/stages", handlers.WithScope(stageHandler.List))
	mux.HandleFunc("POST /clients/{id}/stages", handlers.WithScope(stageHandler.Create))
	mux.HandleFunc("PATCH /stages/{id}/status", handlers.WithScope(stageHandler.SetStatus))
	mux.HandleFunc("POST /stages/{id}/subtasks", handlers.WithScope(stageHandler.CreateSubtask))
	mux.HandleFunc("PATCH /subtasks/{id}/status", handlers.WithScope(stageHandler.SetSubtaskStatus))

	mux.HandleFunc("GET /clients/{id}/tasks", handlers.WithScope(taskHandler.List))
	mux.HandleFunc("POST /clients/{id}/tasks", handlers.WithScope(taskHandler.Create))
	mux.HandleFunc("PATCH /tasks/{id}/status", handlers.WithScope(taskHandler.SetStatus))
	mux.HandleFunc("POST /tasks/{id}/complete", handlers.WithScope(taskHandler.Complete))
	mux.HandleFunc("GET /tasks/{id}/documents", handlers.WithScope(taskHandler.Documents))
	mux.HandleFunc("GET /documents/{id}", handlers.WithScope(taskHandler.Download))

	mux.HandleFunc("GET /dashboard", handlers.WithScope(progressHandler.Dashboard))

	if logger == nil {
		return mux
	}
	return logRequests(logger, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests writes one line per request.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"role", r.Header.Get(handlers.HeaderRole),
		)
	})
}
