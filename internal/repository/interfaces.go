package repository

import (
	"context"

	"github.com/gentyx/clienthub/internal/domain"
)

// ClientFilter narrows a client listing. Empty fields do not filter.
type ClientFilter struct {
	ClientID        string
	CPAID           string
	ServiceCenterID string
	IncludeArchived bool
}

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, f ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

type StageRepo interface {
	Create(ctx context.Context, s *domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Stage, error)
	// ListByClient returns the client's stages ordered by order_number with
	// their subtasks attached.
	ListByClient(ctx context.Context, clientID string) ([]*domain.Stage, error)
	NextOrderNumber(ctx context.Context, clientID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error

	CreateSubtask(ctx context.Context, st *domain.Subtask) error
	GetSubtask(ctx context.Context, id string) (*domain.Subtask, error)
	UpdateSubtaskStatus(ctx context.Context, id string, status domain.Status) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Task, error)
	// UpdateStatus persists a status change with a single UPDATE keyed by id.
	UpdateStatus(ctx context.Context, t *domain.Task) error
}

type DocumentRepo interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Document, error)
}

type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	ListByClient(ctx context.Context, clientID string, limit int) ([]*domain.AuditEntry, error)
}
