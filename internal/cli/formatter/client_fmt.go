package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
)

// FormatClientList renders clients as a table.
func FormatClientList(clients []*domain.Client, now time.Time) string {
	if len(clients) == 0 {
		return Dim("No clients found.") + "\n"
	}

	headers := []string{"ID", "NAME", "EMAIL", "STATUS", "CPA", "DUE"}
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			TruncID(c.ID),
			Bold(c.Name),
			c.Email,
			ClientStatusPill(c.Status),
			orDash(c.CPAID),
			DueLabel(dateString(c.DueDate), false, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatClientProgress renders a client's stage checklist and task list.
func FormatClientProgress(resp *app.ClientProgressResponse) string {
	var b strings.Builder
	now := resp.GeneratedAt

	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(resp.ClientName), TruncID(resp.ClientID)))
	b.WriteString(fmt.Sprintf("%s  %s\n",
		RenderProgress(resp.ProgressPct, 20),
		Dim(fmt.Sprintf("%d/%d stages", resp.CompletedStages, resp.TotalStages))))
	if resp.DueDate != nil {
		b.WriteString(fmt.Sprintf("Due %s\n", DueLabel(resp.DueDate, resp.ClientOverdue, now)))
	}

	b.WriteString("\n" + Header("Stages") + "\n")
	if len(resp.Stages) == 0 {
		b.WriteString(Dim("No stages yet.") + "\n")
	}
	for _, s := range resp.Stages {
		mark := StyleDim.Render("○")
		if s.Completed {
			mark = StyleGreen.Render("✔")
		}
		line := fmt.Sprintf("%s %d. %s", mark, s.OrderNumber, s.Name)
		if s.SubtasksTotal > 0 {
			line += Dim(fmt.Sprintf("  (%d/%d subtasks)", s.SubtasksDone, s.SubtasksTotal))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + Header("Tasks") + "\n")
	b.WriteString(FormatTaskList(resp.Tasks, now))
	b.WriteString(fmt.Sprintf("\n%d open, %s\n", resp.OpenTasks, OverdueBadge(resp.OverdueTasks)))

	return RenderBox("Client Progress", b.String())
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
