package progress

import (
	"strings"

	"github.com/gentyx/clienthub/internal/domain"
)

// GateDecision tells the caller how a requested status change must proceed.
type GateDecision string

const (
	AllowDirect           GateDecision = "ALLOW_DIRECT"
	RequireDocumentUpload GateDecision = "REQUIRE_DOCUMENT_UPLOAD"
)

// GateStatusChange decides whether a task may move to newStatus immediately.
// Completing a task that requires a document must first go through an
// upload. A nil task is treated as requiring a document.
func GateStatusChange(task *domain.Task, newStatus domain.Status) GateDecision {
	if domain.ParseStatus(string(newStatus)) != domain.StatusCompleted {
		return AllowDirect
	}
	if task == nil || task.DocumentRequired {
		return RequireDocumentUpload
	}
	return AllowDirect
}

// NormalizeDocumentRequired converts the stored or transmitted form of the
// document_required flag to a bool. Only an explicit false or zero means
// "not required"; nil, unknown types and anything else mean required.
func NormalizeDocumentRequired(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return x
	case *bool:
		if x == nil {
			return true
		}
		return *x
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case []byte:
		return NormalizeDocumentRequired(string(x))
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "0", "false":
			return false
		}
		return true
	}
	return true
}
