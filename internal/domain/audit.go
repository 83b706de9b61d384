package domain

import "time"

type AuditAction string

const (
	AuditClientCreated  AuditAction = "client_created"
	AuditClientDeleted  AuditAction = "client_deleted"
	AuditStageAdded     AuditAction = "stage_added"
	AuditStageStatus    AuditAction = "stage_status_changed"
	AuditSubtaskAdded   AuditAction = "subtask_added"
	AuditSubtaskStatus  AuditAction = "subtask_status_changed"
	AuditTaskCreated    AuditAction = "task_created"
	AuditTaskStatus     AuditAction = "task_status_changed"
	AuditDocumentUpload AuditAction = "document_uploaded"
)

// AuditEntry is an append-only record of a mutation.
type AuditEntry struct {
	ID         string
	ClientID   string
	ActorRole  Role
	ActorID    string
	Action     AuditAction
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}
