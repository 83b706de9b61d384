package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gentyx/clienthub/internal/cli/formatter"
)

func newAuditCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit CLIENT_ID",
		Short: "Show the change history for a client, newest first",
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
			entries, err := app.Audit.List(ctx, scope, clientID, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatAuditLog(entries, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")

	return cmd
}
