package testutil

import (
	"time"

	"github.com/gentyx/clienthub/internal/domain"
	"github.com/google/uuid"
)

// Client options
type ClientOption func(*domain.Client)

func WithCPA(id string) ClientOption {
	return func(c *domain.Client) {
		c.CPAID = id
	}
}

func WithServiceCenter(id string) ClientOption {
	return func(c *domain.Client) {
		c.ServiceCenterID = id
	}
}

func WithClientDueDate(d time.Time) ClientOption {
	return func(c *domain.Client) {
		c.DueDate = &d
	}
}

func WithClientStatus(s domain.ClientStatus) ClientOption {
	return func(c *domain.Client) {
		c.Status = s
	}
}

func NewTestClient(name string, opts ...ClientOption) *domain.Client {
	now := time.Now().UTC()
	c := &domain.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     "owner@example.com",
		Status:    domain.ClientActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stage options
type StageOption func(*domain.Stage)

func WithStageStatus(s domain.Status) StageOption {
	return func(st *domain.Stage) {
		st.Status = s
	}
}

func NewTestStage(clientID, name string, order int, opts ...StageOption) *domain.Stage {
	now := time.Now().UTC()
	s := &domain.Stage{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Name:        name,
		OrderNumber: order,
		Status:      domain.StatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestSubtask(stageID, title string, status domain.Status) *domain.Subtask {
	now := time.Now().UTC()
	return &domain.Subtask{
		ID:        uuid.New().String(),
		StageID:   stageID,
		Title:     title,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithAssignee(r domain.Role) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeRole = r
	}
}

func WithTaskStatus(s domain.Status) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithDocumentRequired(required bool) TaskOption {
	return func(t *domain.Task) {
		t.DocumentRequired = required
	}
}

// NewTestTask returns a CLIENT task with no document requirement.
func NewTestTask(clientID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		Title:        title,
		AssigneeRole: domain.RoleClient,
		Status:       domain.StatusNotStarted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
