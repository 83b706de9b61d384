package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gentyx/clienthub/internal/cli/formatter"
	"github.com/gentyx/clienthub/internal/domain"
)

func parseStatusArg(s string) (domain.Status, error) {
	status, ok := domain.LookupStatus(s)
	if !ok {
		return "", fmt.Errorf("unknown status %q (use \"Not Started\", \"In Progress\" or \"Completed\")", s)
	}
	return status, nil
}

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage a client's onboarding stages",
	}

	cmd.AddCommand(
		newStageAddCmd(app),
		newStageListCmd(app),
		newStageStatusCmd(app),
	)

	return cmd
}

func newStageAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add CLIENT_ID",
		Short: "Append a stage to the end of a client's sequence",
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
			st, err := app.Stages.AddStage(ctx, scope, clientID, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Added stage %d. %s [%s]\n", st.OrderNumber, st.Name, st.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Stage name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStageListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list CLIENT_ID",
		Short: "List a client's stages and subtasks in order",
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
			stages, err := app.Stages.ListByClient(ctx, scope, clientID)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatStageList(stages))
			return nil
		},
	}
}

func newStageStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status STAGE_ID STATUS",
		Short: "Set a stage's status",
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
			stageID, err := resolveStageID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}
			st, err := app.Stages.SetStageStatus(ctx, scope, stageID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s → %s\n", st.Name, formatter.StatusPill(st.Status))
			return nil
		},
	}
}

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage checklist items within a stage",
	}

	cmd.AddCommand(
		newSubtaskAddCmd(app),
		newSubtaskStatusCmd(app),
	)

	return cmd
}

func newSubtaskAddCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add STAGE_ID",
		Short: "Add a subtask to a stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			stageID, err := resolveStageID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}
			sub, err := app.Stages.AddSubtask(ctx, scope, stageID, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Added subtask %s [%s]\n", sub.Title, sub.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Subtask title")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newSubtaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status SUBTASK_ID STATUS",
		Short: "Set a subtask's status",
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
			subtaskID, err := resolveSubtaskID(ctx, app, scope, args[0])
			if err != nil {
				return err
			}
			sub, err := app.Stages.SetSubtaskStatus(ctx, scope, subtaskID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s → %s\n", sub.Title, formatter.StatusPill(sub.Status))
			return nil
		},
	}
}
