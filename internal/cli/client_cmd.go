package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/cli/formatter"
	"github.com/gentyx/clienthub/internal/domain"
)

func newClientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}

	cmd.AddCommand(
		newClientAddCmd(app),
		newClientListCmd(app),
		newClientShowCmd(app),
		newClientArchiveCmd(app),
		newClientDeleteCmd(app),
		newClientImportCmd(app),
	)

	return cmd
}

func newClientAddCmd(app *App) *cobra.Command {
	var name, email, cpaID, scID, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new client",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := app.requestScope()
			if err != nil {
				return err
			}

			c := &domain.Client{
				Name:            name,
				Email:           email,
				CPAID:           cpaID,
				ServiceCenterID: scID,
			}
			if due != "" {
				dueDate, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				c.DueDate = &dueDate
			}

			if err := app.Clients.Create(context.Background(), scope, c); err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "Created client %s [%s]\n", c.Name, c.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&cpaID, "cpa", "", "Assigned CPA ID")
	cmd.Flags().StringVar(&scID, "service-center", "", "Assigned service center ID")
	cmd.Flags().StringVar(&due, "due", "", "Onboarding due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newClientListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			clients, err := app.Clients.List(context.Background(), scope, all)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatClientList(clients, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived clients")

	return cmd
}

func newClientShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a client's stages, tasks and progress",
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
			fmt.Fprintln(out(cmd), formatter.FormatClientProgress(resp))
			return nil
		},
	}
}

func newClientArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a client (hidden from default lists)",
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
			if err := app.Clients.Archive(ctx, scope, clientID); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Archived client %s\n", clientID)
			return nil
		},
	}
}

func newClientDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a client with its stages, tasks and documents",
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
			if !force {
				if !app.Interactive {
					return fmt.Errorf("refusing to delete without --force")
				}
				var ok bool
				if err := confirmForm(fmt.Sprintf("Delete client %s and everything under it?", clientID), &ok).Run(); err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out(cmd), "Cancelled.")
					return nil
				}
			}
			if err := app.Clients.Delete(ctx, scope, clientID); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Deleted client %s\n", clientID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation")

	return cmd
}

func newClientImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a client with its stages and tasks from a JSON plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			res, err := app.Import.ImportClient(context.Background(), scope, expandHome(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Imported client %s [%s]: %d stages, %d subtasks, %d tasks\n",
				res.Client.Name, res.Client.DisplayID(), res.StageCount, res.SubtaskCount, res.TaskCount)
			return nil
		},
	}
}
