package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestFormatDashboard_RowsAndTotals(t *testing.T) {
	resp := &app.DashboardResponse{
		Summary: app.DashboardSummary{
			GeneratedAt:        fixedNow,
			CountsClients:      2,
			CountsComplete:     1,
			CountsWithOverdue:  1,
			TotalOverdueTasks:  3,
			AverageProgressPct: 75,
			PolicyMessage:      "1 client has overdue tasks (3 overdue in total).",
		},
		Clients: []app.ClientSummaryView{
			{ClientID: "c1", ClientName: "Acme Bakery", ProgressPct: 50, CompletedStages: 1, TotalStages: 2, OpenTasks: 4, OverdueTasks: 3, DueDate: strPtr("2026-03-01"), Overdue: true},
			{ClientID: "c2", ClientName: "Birch Dental", ProgressPct: 100, CompletedStages: 3, TotalStages: 3},
		},
	}

	out := stripANSI(FormatDashboard(resp))
	assert.Contains(t, out, "DASHBOARD")
	assert.Contains(t, out, "Acme Bakery")
	assert.Contains(t, out, "Birch Dental")
	assert.Contains(t, out, "▲ 3 OVERDUE")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "2 Clients, 1 Complete, 1 With Overdue")
	assert.Contains(t, out, "Average progress 75%")
	assert.Contains(t, out, "overdue in total")
}

func TestFormatDashboard_Empty(t *testing.T) {
	out := stripANSI(FormatDashboard(&app.DashboardResponse{Summary: app.DashboardSummary{GeneratedAt: fixedNow}}))
	assert.Contains(t, out, "No clients in view.")
	assert.Contains(t, out, "0 Clients")
}

func TestFormatClientProgress(t *testing.T) {
	resp := &app.ClientProgressResponse{
		GeneratedAt:     fixedNow,
		ClientID:        "0123456789",
		ClientName:      "Acme Bakery",
		CompletedStages: 1,
		TotalStages:     2,
		ProgressPct:     50,
		Stages: []app.StageView{
			{StageID: "s1", Name: "Kickoff", OrderNumber: 1, Status: domain.StatusCompleted, Completed: true},
			{StageID: "s2", Name: "Books", OrderNumber: 2, Status: domain.StatusInProgress, SubtasksDone: 1, SubtasksTotal: 3},
		},
		Tasks: []app.TaskView{
			{TaskID: "t1", Title: "Sign engagement letter", AssigneeRole: domain.RoleClient, Status: domain.StatusNotStarted, DueDate: strPtr("2026-03-05"), DocumentRequired: true, Overdue: true, DaysOverdue: 5},
		},
		OpenTasks:    1,
		OverdueTasks: 1,
	}

	out := stripANSI(FormatClientProgress(resp))
	assert.Contains(t, out, "Acme Bakery")
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "1/2 stages")
	assert.Contains(t, out, "✔ 1. Kickoff")
	assert.Contains(t, out, "○ 2. Books")
	assert.Contains(t, out, "(1/3 subtasks)")
	assert.Contains(t, out, "Sign engagement letter")
	assert.Contains(t, out, "required")
	assert.Contains(t, out, "5d ago")
	assert.Contains(t, out, "1 open, ▲ 1 OVERDUE")
}

func TestFormatClientList(t *testing.T) {
	due := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	out := stripANSI(FormatClientList([]*domain.Client{
		{ID: "abcdef123456", Name: "Acme", Email: "a@acme.test", Status: domain.ClientActive, CPAID: "cpa-1", DueDate: &due},
		{ID: "zz", Name: "Old Co", Status: domain.ClientArchived},
	}, fixedNow))
	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef123456")
	assert.Contains(t, out, "● Active")
	assert.Contains(t, out, "✖ Archived")
	assert.Contains(t, out, "cpa-1")
	assert.Contains(t, out, "Tomorrow")

	assert.Contains(t, stripANSI(FormatClientList(nil, fixedNow)), "No clients found.")
}

func TestFormatStageList(t *testing.T) {
	stages := []*domain.Stage{
		{ID: "s1", Name: "Kickoff", OrderNumber: 1, Status: domain.StatusInProgress, Subtasks: []*domain.Subtask{
			{ID: "u1", Title: "Call", Status: domain.StatusCompleted},
			{ID: "u2", Title: "Email", Status: domain.StatusCompleted},
		}},
		{ID: "s2", Name: "Books", OrderNumber: 2, Status: domain.StatusNotStarted},
	}
	out := stripANSI(FormatStageList(stages))
	// All subtasks complete marks the stage complete regardless of its own status.
	assert.Contains(t, out, "✔ 1. Kickoff")
	assert.Contains(t, out, "○ 2. Books")
	assert.Contains(t, out, "├─ Call")
	assert.Contains(t, out, "└─ Email")
}

func TestFormatTaskStatus(t *testing.T) {
	task := &domain.Task{ID: "t1", Title: "Upload W-9", Status: domain.StatusCompleted}

	unchanged := stripANSI(FormatTaskStatus(&app.TaskStatusResponse{Task: task}))
	assert.Contains(t, unchanged, "already Completed")

	changed := stripANSI(FormatTaskStatus(&app.TaskStatusResponse{
		Task:     task,
		Decision: progress.RequireDocumentUpload,
		Document: &domain.Document{FileName: "w9.pdf", SizeBytes: 2048},
		Changed:  true,
	}))
	assert.Contains(t, changed, "Upload W-9")
	assert.Contains(t, changed, "✔ Completed")
	assert.Contains(t, changed, "w9.pdf (2.0 KB)")
}

func TestFormatGateDecision(t *testing.T) {
	task := &domain.Task{Title: "Upload W-9"}
	assert.Contains(t, stripANSI(FormatGateDecision(task, domain.StatusCompleted, progress.RequireDocumentUpload)), "requires a document upload")
	assert.Contains(t, stripANSI(FormatGateDecision(task, domain.StatusInProgress, progress.AllowDirect)), "directly")
}

func TestFormatDocumentsAndAudit(t *testing.T) {
	docs := stripANSI(FormatDocuments([]*domain.Document{
		{ID: "d1", FileName: "w9.pdf", SizeBytes: 100, UploadedBy: "client-1", CreatedAt: fixedNow.Add(-2 * time.Hour)},
	}, fixedNow))
	assert.Contains(t, docs, "w9.pdf")
	assert.Contains(t, docs, "100 B")
	assert.Contains(t, docs, "2h ago")
	assert.Contains(t, stripANSI(FormatDocuments(nil, fixedNow)), "No documents uploaded.")

	audit := stripANSI(FormatAuditLog([]*domain.AuditEntry{
		{ActorRole: domain.RoleCPA, ActorID: "cpa-1", Action: domain.AuditTaskStatus, EntityType: "task", EntityID: "t1", Detail: "Not Started -> Completed", CreatedAt: fixedNow.Add(-time.Minute)},
	}, fixedNow))
	assert.Contains(t, audit, "CPA:cpa-1")
	assert.Contains(t, audit, "task_status_changed")
	assert.Contains(t, audit, "Not Started -> Completed")
	assert.Contains(t, audit, "1m ago")
}

func TestOverdueBadge(t *testing.T) {
	assert.Equal(t, "--", stripANSI(OverdueBadge(0)))
	assert.Equal(t, "▲ 2 OVERDUE", stripANSI(OverdueBadge(2)))
}

func TestTable_RightAlign(t *testing.T) {
	out := stripANSI(Table{
		Headers:    []string{"NAME", "N"},
		Rows:       [][]string{{"a", "7"}, {"bb", "12"}},
		RightAlign: map[int]bool{1: true},
	}.Render())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME   N", lines[0])
	assert.Equal(t, "a      7", lines[2])
	assert.Equal(t, "bb    12", lines[3])
	assert.Equal(t, "", RenderTable(nil, nil))
}
