// Package mcptools exposes read-mostly ClientHub queries as MCP tools so an
// assistant can answer "where is this client?" and "can this task be
// completed?" questions.
//
// Each tool is a struct with its service injected via constructor,
// Definition() returning the mcp.Tool schema and Handle() answering calls.
// Tools run with admin scope.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gentyx/clienthub/internal/service"
)

// NewServer builds the MCP server with every ClientHub tool registered.
func NewServer(version string, progress service.ProgressService, tasks service.TaskService) *server.MCPServer {
	s := server.NewMCPServer(
		"clienthub",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	progressTool := NewClientProgressTool(progress)
	s.AddTool(progressTool.Definition(), progressTool.Handle)

	dashboardTool := NewDashboardTool(progress)
	s.AddTool(dashboardTool.Definition(), dashboardTool.Handle)

	gateTool := NewTaskGateTool(tasks)
	s.AddTool(gateTool.Definition(), gateTool.Handle)

	return s
}

const instructions = `ClientHub tracks client onboarding for an accounting practice.
Use client_progress for one client's stages, tasks and overdue items,
clienthub_dashboard for the portfolio view, and task_gate before telling
someone a task can be marked Completed: some tasks need a document upload.`
