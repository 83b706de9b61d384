package contract

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := ""
	got, err = ParseDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := "2025-04-15"
	got, err = ParseDate(&s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), *got)

	bad := "15/04/2025"
	_, err = ParseDate(&bad)
	assert.Error(t, err)
}

func TestFromTaskStatus_GatedCompletionShape(t *testing.T) {
	done := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	due := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	resp := &app.TaskStatusResponse{
		Task: &domain.Task{
			ID: "t1", ClientID: "c1", Title: "Upload W-2", AssigneeRole: domain.RoleClient,
			Status: domain.StatusCompleted, DueDate: &due, DocumentRequired: true, CompletedAt: &done,
		},
		Decision: progress.RequireDocumentUpload,
		Changed:  true,
		Document: &domain.Document{ID: "d1", TaskID: "t1", FileName: "w2.pdf", ContentType: "application/pdf", SizeBytes: 42, CreatedAt: done},
	}

	raw, err := json.Marshal(FromTaskStatus(resp))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "REQUIRE_DOCUMENT_UPLOAD", decoded["decision"])
	task := decoded["task"].(map[string]any)
	assert.Equal(t, "Completed", task["status"])
	assert.Equal(t, "2025-04-30", task["due_date"])
	assert.Equal(t, "2025-04-15T12:00:00Z", task["completed_at"])
	doc := decoded["document"].(map[string]any)
	assert.Equal(t, "w2.pdf", doc["file_name"])
}

func TestFromStage_SkipsNilSubtasks(t *testing.T) {
	s := FromStage(&domain.Stage{ID: "s1", Subtasks: []*domain.Subtask{nil, {ID: "x", Status: domain.StatusCompleted}}})
	require.Len(t, s.Subtasks, 1)
	assert.Equal(t, "x", s.Subtasks[0].ID)
}
