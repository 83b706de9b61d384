package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/cli/formatter"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
	"github.com/gentyx/clienthub/internal/service"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage client tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskStatusCmd(app),
		newTaskDocsCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, description, assignee, due, docRequired string

	cmd := &cobra.Command{
		Use:   "add CLIENT_ID",
		Short: "Create a task for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			clientID, err := resolveClientID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}
			role, ok := domain.ParseRole(assignee)
			if !ok {
				return fmt.Errorf("unknown assignee role %q", assignee)
			}

			t := &domain.Task{
				ClientID:         clientID,
				Title:            title,
				Description:      description,
				AssigneeRole:     role,
				DocumentRequired: progress.NormalizeDocumentRequired(docRequired),
			}
			if due != "" {
				dueDate, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				t.DueDate = &dueDate
			}

			if err := app.Tasks.Create(ctx, scope, t); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created task %s [%s] for %s (document required: %s)\n",
				t.Title, t.ID[:8], t.AssigneeRole, strconv.FormatBool(t.DocumentRequired))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&assignee, "assignee", string(domain.RoleClient), "Assignee role (CLIENT, CPA, SERVICE_CENTER)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&docRequired, "doc-required", "true", "Whether completion needs a document upload (true/false)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list CLIENT_ID",
		Short: "List a client's tasks with overdue flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			clientID, err := resolveClientID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}
			now := app.now()
			resp, err := app.Progress.ClientProgress(ctx, usecase.ClientProgressRequest{
				Scope:    scope,
				ClientID: clientID,
				Now:      &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatTaskList(resp.Tasks, now))
			return nil
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	var filePath string
	var check bool

	cmd := &cobra.Command{
		Use:   "status TASK_ID STATUS",
		Short: "Change a task's status, uploading a document when one is required",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			status, err := parseStatusArg(args[1])
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}

			if check {
				decision, err := app.Tasks.CheckGate(ctx, usecase.TaskGateRequest{Scope: scope, TaskID: taskID, NewStatus: status})
				if err != nil {
					return err
				}
				t, err := app.Tasks.GetByID(ctx, scope, taskID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), formatter.FormatGateDecision(t, status, decision))
				return nil
			}

			if filePath == "" && app.Interactive {
				decision, err := app.Tasks.CheckGate(ctx, usecase.TaskGateRequest{Scope: scope, TaskID: taskID, NewStatus: status})
				if err != nil {
					return err
				}
				if decision == progress.RequireDocumentUpload {
					filePath, err = app.promptDocumentPath("This task needs a document before it can be completed")
					if err != nil {
						return err
					}
					if filePath == "" {
						fmt.Fprintln(out(cmd), "Cancelled.")
						return nil
					}
				}
			}

			now := app.now()
			req := usecase.TaskStatusRequest{Scope: scope, TaskID: taskID, NewStatus: status, Now: &now}
			if filePath != "" {
				f, err := os.Open(expandHome(filePath))
				if err != nil {
					return fmt.Errorf("opening document: %w", err)
				}
				defer f.Close()
				req.Upload = &usecase.DocumentUpload{
					FileName:    filepath.Base(f.Name()),
					ContentType: mime.TypeByExtension(filepath.Ext(f.Name())),
					Body:        f,
				}
			}

			resp, err := app.Tasks.UpdateStatus(ctx, req)
			if errors.Is(err, service.ErrDocumentUploadRequired) {
				return fmt.Errorf("%w: pass --file PATH", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatTaskStatus(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Document to upload with the status change")
	cmd.Flags().BoolVar(&check, "check", false, "Only report whether the change needs a document")

	return cmd
}

func newTaskDocsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "docs TASK_ID",
		Short: "List documents uploaded against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}
			docs, err := app.Tasks.ListDocuments(ctx, scope, taskID)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatDocuments(docs, app.now()))
			return nil
		},
	}
}
