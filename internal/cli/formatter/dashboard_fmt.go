package formatter

import (
	"fmt"
	"strings"

	"github.com/gentyx/clienthub/internal/app"
)

const dashboardProgressBarWidth = 10

// FormatDashboard renders the cross-client overview table and totals.
func FormatDashboard(resp *app.DashboardResponse) string {
	var b strings.Builder
	now := resp.Summary.GeneratedAt

	if len(resp.Clients) == 0 {
		b.WriteString(Dim("No clients in view.") + "\n")
	} else {
		headers := []string{"CLIENT", "PROGRESS", "STAGES", "OPEN", "OVERDUE", "DUE"}
		rows := make([][]string, 0, len(resp.Clients))
		for _, c := range resp.Clients {
			rows = append(rows, []string{
				Bold(c.ClientName),
				RenderProgress(c.ProgressPct, dashboardProgressBarWidth),
				fmt.Sprintf("%d/%d", c.CompletedStages, c.TotalStages),
				fmt.Sprintf("%d", c.OpenTasks),
				OverdueBadge(c.OverdueTasks),
				DueLabel(c.DueDate, c.Overdue, now),
			})
		}
		b.WriteString(Table{Headers: headers, Rows: rows, RightAlign: map[int]bool{2: true, 3: true}}.Render())
	}

	s := resp.Summary
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s, %s, %s\n",
		StyleFg.Render(fmt.Sprintf("%d Clients", s.CountsClients)),
		StyleGreen.Render(fmt.Sprintf("%d Complete", s.CountsComplete)),
		StyleRed.Render(fmt.Sprintf("%d With Overdue", s.CountsWithOverdue))))
	b.WriteString(Dim(fmt.Sprintf("Average progress %d%%", s.AverageProgressPct)) + "\n")

	if s.PolicyMessage != "" {
		b.WriteString("\n" + Dim(s.PolicyMessage) + "\n")
	}

	return RenderBox("Dashboard", b.String())
}
