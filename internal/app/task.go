package app

import (
	"io"
	"time"

	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
)

// DocumentUpload carries the file that acknowledges a document-gated
// completion. Body is read once.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type TaskStatusRequest struct {
	Scope     Scope
	TaskID    string
	NewStatus domain.Status
	Upload    *DocumentUpload
	Now       *time.Time
}

type TaskStatusResponse struct {
	Task     *domain.Task
	Decision progress.GateDecision
	Document *domain.Document
	Changed  bool
}

// TaskGateRequest asks what a status change would require without applying it.
type TaskGateRequest struct {
	Scope     Scope
	TaskID    string
	NewStatus domain.Status
}
