package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
)

// FormatTaskList renders task views with overdue flags.
func FormatTaskList(tasks []app.TaskView, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks yet.") + "\n"
	}

	headers := []string{"ID", "TITLE", "ASSIGNEE", "STATUS", "DUE", "DOC"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		if t.Overdue {
			title = StyleRed.Render(title)
		}
		doc := Dim("no")
		if t.DocumentRequired {
			doc = StyleYellow.Render("required")
		}
		rows = append(rows, []string{
			TruncID(t.TaskID),
			title,
			RoleBadge(t.AssigneeRole),
			StatusPill(t.Status),
			DueLabel(t.DueDate, t.Overdue, now),
			doc,
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskStatus renders the outcome of a status change.
func FormatTaskStatus(resp *app.TaskStatusResponse) string {
	var b strings.Builder
	t := resp.Task

	if !resp.Changed {
		b.WriteString(Dim(fmt.Sprintf("%s is already %s.", t.Title, t.Status)) + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s %s → %s\n", StyleGreen.Render("✔"), Bold(t.Title), StatusPill(t.Status)))
	if resp.Decision == progress.RequireDocumentUpload && resp.Document != nil {
		b.WriteString(fmt.Sprintf("  document %s (%s)\n", resp.Document.FileName, FormatBytes(resp.Document.SizeBytes)))
	}
	return b.String()
}

// FormatGateDecision explains whether a status change needs an upload.
func FormatGateDecision(task *domain.Task, newStatus domain.Status, d progress.GateDecision) string {
	if d == progress.RequireDocumentUpload {
		return StyleYellow.Render(fmt.Sprintf("Moving %q to %s requires a document upload.", task.Title, newStatus))
	}
	return StyleGreen.Render(fmt.Sprintf("%q can move to %s directly.", task.Title, newStatus))
}

// FormatDocuments renders the documents recorded against a task.
func FormatDocuments(docs []*domain.Document, now time.Time) string {
	if len(docs) == 0 {
		return Dim("No documents uploaded.") + "\n"
	}
	headers := []string{"ID", "FILE", "SIZE", "BY", "UPLOADED"}
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			TruncID(d.ID),
			d.FileName,
			FormatBytes(d.SizeBytes),
			orDash(d.UploadedBy),
			HumanTimestamp(d.CreatedAt, now),
		})
	}
	return RenderTable(headers, rows)
}
