package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID               string
	ClientID         string
	Title            string
	Description      string
	AssigneeRole     Role
	Status           Status
	DueDate          *time.Time
	DocumentRequired bool
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplyStatus moves the task to the given status and maintains CompletedAt.
// Only the three work statuses are accepted.
func (t *Task) ApplyStatus(status Status, now time.Time) error {
	if !ValidWorkStatuses[status] {
		return fmt.Errorf("invalid task status %q", status)
	}
	t.Status = status
	t.UpdatedAt = now
	if status == StatusCompleted {
		if t.CompletedAt == nil {
			done := now
			t.CompletedAt = &done
		}
	} else {
		t.CompletedAt = nil
	}
	return nil
}

// Document records a file uploaded against a task.
type Document struct {
	ID          string
	TaskID      string
	ClientID    string
	FileName    string
	ContentType string
	StorageKey  string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
}
