package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/service"
)

// ClientProgressTool handles the client_progress MCP tool.
type ClientProgressTool struct {
	progress service.ProgressService
}

func NewClientProgressTool(progress service.ProgressService) *ClientProgressTool {
	return &ClientProgressTool{progress: progress}
}

func (t *ClientProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("client_progress",
		mcp.WithDescription("Show a client's onboarding progress: completed stages, percent, open and overdue tasks."),
		mcp.WithString("client_id",
			mcp.Required(),
			mcp.Description("ID of the client"),
		),
	)
}

func (t *ClientProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientID := strings.TrimSpace(req.GetString("client_id", ""))
	if clientID == "" {
		return mcp.NewToolResultError("client_id is required"), nil
	}

	resp, err := t.progress.ClientProgress(ctx, app.ClientProgressRequest{Scope: app.AdminScope(), ClientID: clientID})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("client %s not found", clientID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute progress: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", resp.ClientName)
	fmt.Fprintf(&sb, "- **Progress**: %d%% (%d of %d stages)\n", resp.ProgressPct, resp.CompletedStages, resp.TotalStages)
	if resp.DueDate != nil {
		due := *resp.DueDate
		if resp.ClientOverdue {
			due += " (OVERDUE)"
		}
		fmt.Fprintf(&sb, "- **Due**: %s\n", due)
	}
	fmt.Fprintf(&sb, "- **Open tasks**: %d, overdue: %d\n", resp.OpenTasks, resp.OverdueTasks)

	if len(resp.Stages) > 0 {
		sb.WriteString("\n### Stages\n")
		for _, s := range resp.Stages {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %d. %s (%s", mark, s.OrderNumber, s.Name, s.Status)
			if s.SubtasksTotal > 0 {
				fmt.Fprintf(&sb, ", %d/%d subtasks", s.SubtasksDone, s.SubtasksTotal)
			}
			sb.WriteString(")\n")
		}
	}
	if resp.OverdueTasks > 0 {
		sb.WriteString("\n### Overdue\n")
		for _, tv := range resp.Tasks {
			if tv.Overdue {
				fmt.Fprintf(&sb, "- %s (%s, due %s, %d days late)\n", tv.Title, tv.AssigneeRole, *tv.DueDate, tv.DaysOverdue)
			}
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// DashboardTool handles the clienthub_dashboard MCP tool.
type DashboardTool struct {
	progress service.ProgressService
}

func NewDashboardTool(progress service.ProgressService) *DashboardTool {
	return &DashboardTool{progress: progress}
}

func (t *DashboardTool) Definition() mcp.Tool {
	return mcp.NewTool("clienthub_dashboard",
		mcp.WithDescription("List every active client, most urgent first, with progress and overdue task counts."),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived clients (default false)"),
		),
	)
}

func (t *DashboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.progress.Dashboard(ctx, app.DashboardRequest{
		Scope:           app.AdminScope(),
		IncludeArchived: req.GetBool("include_archived", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build dashboard: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Clients (%d)\n\n%s\n\n", resp.Summary.CountsClients, resp.Summary.PolicyMessage)
	for _, c := range resp.Clients {
		fmt.Fprintf(&sb, "- %s: %d%% (%d/%d stages), %d open, %d overdue [%s]\n",
			c.ClientName, c.ProgressPct, c.CompletedStages, c.TotalStages, c.OpenTasks, c.OverdueTasks, c.ClientID)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
