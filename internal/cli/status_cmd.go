package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show progress and overdue work across clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			now := app.now()
			resp, err := app.Progress.Dashboard(context.Background(), usecase.DashboardRequest{
				Scope:           scope,
				Now:             &now,
				IncludeArchived: all,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out(cmd), formatter.FormatDashboard(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived clients")

	return cmd
}
