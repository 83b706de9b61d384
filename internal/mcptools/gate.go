package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/service"
)

// TaskGateTool handles the task_gate MCP tool. It never changes the task.
type TaskGateTool struct {
	tasks service.TaskService
}

func NewTaskGateTool(tasks service.TaskService) *TaskGateTool {
	return &TaskGateTool{tasks: tasks}
}

func (t *TaskGateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_gate",
		mcp.WithDescription("Check whether moving a task to a new status can happen directly or needs a document upload first."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithString("new_status",
			mcp.Required(),
			mcp.Description("Requested status: Not Started, In Progress or Completed"),
		),
	)
}

func (t *TaskGateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := strings.TrimSpace(req.GetString("task_id", ""))
	if taskID == "" {
		return mcp.NewToolResultError("task_id is required"), nil
	}
	raw := req.GetString("new_status", "")
	status, ok := domain.LookupStatus(raw)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", raw)), nil
	}

	decision, err := t.tasks.CheckGate(ctx, app.TaskGateRequest{Scope: app.AdminScope(), TaskID: taskID, NewStatus: status})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("task %s not found", taskID)), nil
		case errors.Is(err, service.ErrInvalidStatus):
			return mcp.NewToolResultError(fmt.Sprintf("%s is not a task status", status)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to check gate: %v", err)), nil
	}

	msg := fmt.Sprintf("%s: the task can move to %s directly.", decision, status)
	if decision == progress.RequireDocumentUpload {
		msg = fmt.Sprintf("%s: a document must be uploaded to mark this task %s.", decision, status)
	}
	return mcp.NewToolResultText(msg), nil
}
