package service

import (
	"context"
	"io"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/importer"
)

type ClientService interface {
	Create(ctx context.Context, scope app.Scope, c *domain.Client) error
	GetByID(ctx context.Context, scope app.Scope, id string) (*domain.Client, error)
	List(ctx context.Context, scope app.Scope, includeArchived bool) ([]*domain.Client, error)
	Archive(ctx context.Context, scope app.Scope, id string) error
	Delete(ctx context.Context, scope app.Scope, id string) error
}

type StageService interface {
	AddStage(ctx context.Context, scope app.Scope, clientID, name string) (*domain.Stage, error)
	AddSubtask(ctx context.Context, scope app.Scope, stageID, title string) (*domain.Subtask, error)
	SetStageStatus(ctx context.Context, scope app.Scope, stageID string, status domain.Status) (*domain.Stage, error)
	SetSubtaskStatus(ctx context.Context, scope app.Scope, subtaskID string, status domain.Status) (*domain.Subtask, error)
	ListByClient(ctx context.Context, scope app.Scope, clientID string) ([]*domain.Stage, error)
}

type TaskService interface {
	Create(ctx context.Context, scope app.Scope, t *domain.Task) error
	GetByID(ctx context.Context, scope app.Scope, id string) (*domain.Task, error)
	ListByClient(ctx context.Context, scope app.Scope, clientID string) ([]*domain.Task, error)
	ListDocuments(ctx context.Context, scope app.Scope, taskID string) ([]*domain.Document, error)
	// OpenDocument returns a stored upload's metadata and body. The caller
	// closes the body.
	OpenDocument(ctx context.Context, scope app.Scope, documentID string) (*domain.Document, io.ReadCloser, error)
	app.TaskStatusUseCase
}

type ProgressService interface {
	app.ClientProgressUseCase
	app.DashboardUseCase
}

type AuditService interface {
	List(ctx context.Context, scope app.Scope, clientID string, limit int) ([]*domain.AuditEntry, error)
}

// ImportResult summarizes an onboarding plan import.
type ImportResult struct {
	Client       *domain.Client
	StageCount   int
	SubtaskCount int
	TaskCount    int
}

type ImportService interface {
	ImportClient(ctx context.Context, scope app.Scope, filePath string) (*ImportResult, error)
	ImportClientFromSchema(ctx context.Context, scope app.Scope, schema *importer.ImportSchema) (*ImportResult, error)
}
