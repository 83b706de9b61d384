package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/gentyx/clienthub/internal/api"
	"github.com/gentyx/clienthub/internal/mcptools"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Addr
			}
			if addr == "" {
				return fmt.Errorf("no listen address (set --addr or CLIENTHUB_ADDR)")
			}

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h := api.SetupRouter(api.Services{
				Clients:  app.Clients,
				Stages:   app.Stages,
				Tasks:    app.Tasks,
				Progress: app.Progress,
				Audit:    app.Audit,
				Import:   app.Import,
			}, app.Config.MaxUploadBytes, app.logger())

			return api.ListenAndServe(ctx, addr, h, app.Config.ShutdownTimeout, app.logger())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from CLIENTHUB_ADDR)")

	return cmd
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve ClientHub tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcptools.NewServer(app.Version, app.Progress, app.Tasks)
			return server.ServeStdio(s)
		},
	}
}

// contextOrBackground guards commands executed without ExecuteContext.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
