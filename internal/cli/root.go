package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gentyx/clienthub/internal/config"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/service"
)

// App holds references to all service interfaces used by CLI commands,
// plus the runtime settings the serve and mcp commands need.
type App struct {
	Clients  service.ClientService
	Stages   service.StageService
	Tasks    service.TaskService
	Progress service.ProgressService
	Audit    service.AuditService
	Import   service.ImportService

	Config      config.Config
	Logger      *slog.Logger
	Version     string
	Interactive bool

	// PromptFile asks for a document path when a gated task is completed
	// interactively. Nil uses the huh form.
	PromptFile func(title string) (string, error)

	// Now defaults to time.Now.
	Now func() time.Time

	scope scopeFlags
}

type scopeFlags struct {
	role     roleFlag
	actor    string
	clientID string
}

// roleFlag validates --role at parse time.
type roleFlag domain.Role

var _ pflag.Value = (*roleFlag)(nil)

func (r *roleFlag) String() string { return string(*r) }

func (r *roleFlag) Set(s string) error {
	role, ok := domain.ParseRole(s)
	if !ok {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = roleFlag(role)
	return nil
}

func (r *roleFlag) Type() string { return "role" }

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// NewRootCmd creates the top-level "clienthub" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "clienthub",
		Short:         "Client onboarding tracker for accounting practices",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       app.Version,
	}

	app.scope.role = roleFlag(domain.RoleAdmin)
	root.PersistentFlags().Var(&app.scope.role, "role", "Acting role (ADMIN, CPA, SERVICE_CENTER, CLIENT)")
	root.PersistentFlags().StringVar(&app.scope.actor, "actor", "", "Acting user ID (required for CPA and SERVICE_CENTER)")
	root.PersistentFlags().StringVar(&app.scope.clientID, "as-client", "", "Client ID when acting as CLIENT")

	root.AddCommand(
		newServeCmd(app),
		newMCPCmd(app),
		newClientCmd(app),
		newStageCmd(app),
		newSubtaskCmd(app),
		newTaskCmd(app),
		newStatusCmd(app),
		newDashboardCmd(app),
		newAuditCmd(app),
	)

	return root
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
