package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/blob"
	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks     repository.TaskRepo
	documents repository.DocumentRepo
	clients   repository.ClientRepo
	uow       db.UnitOfWork
	blobs     blob.Store
	notifier  Notifier
	observer  UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	documents repository.DocumentRepo,
	clients repository.ClientRepo,
	uow db.UnitOfWork,
	blobs blob.Store,
	notifier Notifier,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:     tasks,
		documents: documents,
		clients:   clients,
		uow:       uow,
		blobs:     blobs,
		notifier:  notifier,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, scope app.Scope, t *domain.Task) (err error) {
	fields := map[string]any{"client_id": t.ClientID, "role": string(scope.Role)}
	defer observe(ctx, s.observer, "task.create", time.Now().UTC(), fields, &err)

	if _, err := loadVisibleClient(ctx, s.clients, scope, t.ClientID); err != nil {
		return err
	}
	if !scope.CanManageStructure() {
		return &app.ScopeError{Code: app.ScopeErrForbidden, Message: "clients cannot create tasks"}
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("task title is required: %w", ErrInvalidInput)
	}
	if !domain.ValidAssigneeRoles[t.AssigneeRole] {
		return fmt.Errorf("assignee role %q: %w", t.AssigneeRole, ErrInvalidInput)
	}
	if t.Status == "" {
		t.Status = domain.StatusNotStarted
	}
	if !domain.ValidWorkStatuses[t.Status] {
		return fmt.Errorf("task status %q: %w", t.Status, ErrInvalidStatus)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == domain.StatusCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	fields["task_id"] = t.ID

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteTaskRepo(tx).Create(ctx, t); err != nil {
			return err
		}
		return repository.NewSQLiteAuditRepo(tx).Append(ctx,
			newAuditEntry(scope, t.ClientID, domain.AuditTaskCreated, "task", t.ID, t.Title, now))
	})
}

func (s *taskService) GetByID(ctx context.Context, scope app.Scope, id string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadVisibleClient(ctx, s.clients, scope, t.ClientID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) ListByClient(ctx context.Context, scope app.Scope, clientID string) ([]*domain.Task, error) {
	if _, err := loadVisibleClient(ctx, s.clients, scope, clientID); err != nil {
		return nil, err
	}
	return s.tasks.ListByClient(ctx, clientID)
}

func (s *taskService) ListDocuments(ctx context.Context, scope app.Scope, taskID string) ([]*domain.Document, error) {
	if _, err := s.GetByID(ctx, scope, taskID); err != nil {
		return nil, err
	}
	return s.documents.ListByTask(ctx, taskID)
}

func (s *taskService) OpenDocument(ctx context.Context, scope app.Scope, documentID string) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := loadVisibleClient(ctx, s.clients, scope, doc.ClientID); err != nil {
		return nil, nil, err
	}
	body, err := s.blobs.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	return doc, body, nil
}

// CheckGate reports what the status change would require without applying it.
func (s *taskService) CheckGate(ctx context.Context, req app.TaskGateRequest) (progress.GateDecision, error) {
	if !domain.ValidWorkStatuses[req.NewStatus] {
		return "", fmt.Errorf("task status %q: %w", req.NewStatus, ErrInvalidStatus)
	}
	t, err := s.GetByID(ctx, req.Scope, req.TaskID)
	if err != nil {
		return "", err
	}
	return progress.GateStatusChange(t, req.NewStatus), nil
}

// UpdateStatus applies a status change through the document gate. A gated
// completion without an upload returns ErrDocumentUploadRequired and changes
// nothing. With an upload, the blob, document record, status change and audit
// entries succeed or fail together; a stored blob whose transaction rolls
// back is deleted again.
func (s *taskService) UpdateStatus(ctx context.Context, req app.TaskStatusRequest) (resp *app.TaskStatusResponse, err error) {
	fields := map[string]any{
		"task_id":    req.TaskID,
		"new_status": string(req.NewStatus),
		"role":       string(req.Scope.Role),
		"has_upload": req.Upload != nil,
	}
	defer observe(ctx, s.observer, "task.update_status", time.Now().UTC(), fields, &err)

	if !domain.ValidWorkStatuses[req.NewStatus] {
		return nil, fmt.Errorf("task status %q: %w", req.NewStatus, ErrInvalidStatus)
	}
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, task.ClientID)
	if err != nil {
		return nil, err
	}
	if err := req.Scope.CheckTaskUpdate(client, task); err != nil {
		return nil, err
	}

	decision := progress.GateStatusChange(task, req.NewStatus)
	fields["decision"] = string(decision)
	resp = &app.TaskStatusResponse{Task: task, Decision: decision}

	if task.Status == req.NewStatus && req.Upload == nil {
		return resp, nil
	}
	if decision == progress.RequireDocumentUpload && req.Upload == nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, ErrDocumentUploadRequired)
	}

	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	updated := *task
	prevStatus := task.Status
	if err := updated.ApplyStatus(req.NewStatus, now); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidStatus)
	}
	changed := prevStatus != updated.Status

	var doc *domain.Document
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAudit := repository.NewSQLiteAuditRepo(tx)
		if req.Upload != nil {
			stored, err := s.storeUpload(ctx, req.Scope, task, req.Upload, now)
			if err != nil {
				return err
			}
			doc = stored
			fields["document_id"] = doc.ID
			if err := repository.NewSQLiteDocumentRepo(tx).Create(ctx, doc); err != nil {
				return err
			}
		}
		if changed {
			if err := repository.NewSQLiteTaskRepo(tx).UpdateStatus(ctx, &updated); err != nil {
				return err
			}
		}
		if doc != nil {
			if err := txAudit.Append(ctx, newAuditEntry(req.Scope, task.ClientID,
				domain.AuditDocumentUpload, "document", doc.ID, doc.FileName, now)); err != nil {
				return err
			}
		}
		if changed {
			detail := fmt.Sprintf("%s -> %s", prevStatus, updated.Status)
			if err := txAudit.Append(ctx, newAuditEntry(req.Scope, task.ClientID,
				domain.AuditTaskStatus, "task", task.ID, detail, now)); err != nil {
				return err
			}
			db.AfterCommit(ctx, func(ctx context.Context) {
				notifyBestEffort(ctx, s.notifier, statusNotification(client, &updated, prevStatus, req.Scope))
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Task = &updated
	resp.Document = doc
	resp.Changed = changed
	return resp, nil
}

// storeUpload writes the upload body under client/task/document and
// schedules its removal if the surrounding transaction does not commit.
func (s *taskService) storeUpload(ctx context.Context, scope app.Scope, task *domain.Task, up *app.DocumentUpload, now time.Time) (*domain.Document, error) {
	if s.blobs == nil {
		return nil, errors.New("document storage is not configured")
	}
	if up.Body == nil {
		return nil, fmt.Errorf("upload has no content: %w", ErrInvalidInput)
	}
	name := blob.SanitizeFileName(up.FileName)
	doc := &domain.Document{
		ID:          uuid.New().String(),
		TaskID:      task.ID,
		ClientID:    task.ClientID,
		FileName:    name,
		ContentType: up.ContentType,
		UploadedBy:  uploaderID(scope),
		CreatedAt:   now,
	}
	if doc.ContentType == "" {
		doc.ContentType = "application/octet-stream"
	}
	doc.StorageKey = path.Join(task.ClientID, task.ID, doc.ID+"-"+name)

	size, err := s.blobs.Put(ctx, doc.StorageKey, up.Body)
	if err != nil {
		return nil, fmt.Errorf("storing document: %w", err)
	}
	doc.SizeBytes = size
	db.OnRollback(ctx, func(ctx context.Context) {
		_ = s.blobs.Delete(ctx, doc.StorageKey)
	})
	return doc, nil
}

func uploaderID(scope app.Scope) string {
	if scope.Role == domain.RoleClient {
		return scope.ClientID
	}
	return scope.ActorID
}

// statusNotification addresses the change to the other side of the task: a
// client's progress goes to their CPA, everyone else's goes to the client.
func statusNotification(c *domain.Client, t *domain.Task, prev domain.Status, scope app.Scope) Notification {
	recipient := domain.RoleClient
	if scope.Role == domain.RoleClient {
		recipient = domain.RoleCPA
	}
	return Notification{
		ClientID:  c.ID,
		TaskID:    t.ID,
		Recipient: recipient,
		Subject:   fmt.Sprintf("%s: %s is now %s", c.Name, t.Title, t.Status),
		Body:      fmt.Sprintf("Task %q moved from %s to %s.", t.Title, prev, t.Status),
	}
}
