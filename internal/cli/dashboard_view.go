package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/cli/formatter"
)

// ── command ──────────────────────────────────────────────────────────────────

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse client progress interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := app.requestScope()
			if err != nil {
				return err
			}
			if !app.Interactive {
				return newStatusCmd(app).RunE(cmd, args)
			}
			_, err = tea.NewProgram(newDashboardModel(app, scope), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Refresh, k.Quit}
}

// ── messages ─────────────────────────────────────────────────────────────────

type dashboardLoadedMsg struct {
	resp *usecase.DashboardResponse
	err  error
}

type clientDetailLoadedMsg struct {
	resp *usecase.ClientProgressResponse
	err  error
}

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel lists visible clients on the left and the selected client's
// stage and task detail on the right.
type dashboardModel struct {
	app   *App
	scope usecase.Scope
	keys  dashboardKeyMap

	data    *usecase.DashboardResponse
	loading bool
	err     error

	cursor        int
	detail        *usecase.ClientProgressResponse
	detailLoading bool
	detailErr     error

	width int
}

func newDashboardModel(app *App, scope usecase.Scope) *dashboardModel {
	return &dashboardModel{
		app:     app,
		scope:   scope,
		keys:    newDashboardKeyMap(),
		loading: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *dashboardModel) loadData() tea.Cmd {
	app, scope := m.app, m.scope
	return func() tea.Msg {
		now := app.now()
		resp, err := app.Progress.Dashboard(context.Background(), usecase.DashboardRequest{Scope: scope, Now: &now})
		return dashboardLoadedMsg{resp: resp, err: err}
	}
}

func (m *dashboardModel) loadSelectedDetail() tea.Cmd {
	if m.data == nil || m.cursor >= len(m.data.Clients) {
		return nil
	}
	app, scope := m.app, m.scope
	clientID := m.data.Clients[m.cursor].ClientID
	return func() tea.Msg {
		now := app.now()
		resp, err := app.Progress.ClientProgress(context.Background(), usecase.ClientProgressRequest{
			Scope:    scope,
			ClientID: clientID,
			Now:      &now,
		})
		return clientDetailLoadedMsg{resp: resp, err: err}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.data = msg.resp
		if m.cursor >= len(m.data.Clients) {
			m.cursor = max(0, len(m.data.Clients)-1)
		}
		m.detail = nil
		return m, nil

	case clientDetailLoadedMsg:
		m.detailLoading = false
		m.detailErr = msg.err
		m.detail = msg.resp
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadData()
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.detail = nil
			}
		case key.Matches(msg, m.keys.Down):
			if m.data != nil && m.cursor < len(m.data.Clients)-1 {
				m.cursor++
				m.detail = nil
			}
		case key.Matches(msg, m.keys.Open):
			m.detailLoading = true
			return m, m.loadSelectedDetail()
		}
	}

	return m, nil
}

// ── view ─────────────────────────────────────────────────────────────────────

const dashLeftPaneWidth = 44

func (m *dashboardModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n")

	left := m.renderClientList()
	right := m.renderDetail()
	if m.width >= 100 {
		leftCol := lipgloss.NewStyle().Width(dashLeftPaneWidth).Render(left)
		divider := formatter.StyleDim.Render("│")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " "+divider+" ", right))
	} else {
		b.WriteString(left + "\n" + right)
	}

	b.WriteString("\n\n  " + m.renderHelp() + "\n")
	return b.String()
}

func (m *dashboardModel) renderClientList() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("CLIENTS") + "\n\n")

	if m.data == nil || len(m.data.Clients) == 0 {
		b.WriteString(formatter.Dim("No clients in view.") + "\n")
		return b.String()
	}

	for i, c := range m.data.Clients {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		name := c.ClientName
		if len([]rune(name)) > 18 {
			name = string([]rune(name)[:17]) + "…"
		}
		overdue := formatter.Dim("·")
		if c.OverdueTasks > 0 {
			overdue = formatter.StyleRed.Render(fmt.Sprintf("▲%d", c.OverdueTasks))
		}
		b.WriteString(fmt.Sprintf("%s%s %s %3d%% %s\n",
			cursor,
			nameStyle.Render(padRight(name, 18)),
			formatter.RenderCompactBar(c.ProgressPct, 10, false),
			c.ProgressPct,
			overdue,
		))
	}

	s := m.data.Summary
	b.WriteString("\n" + formatter.Dim(s.PolicyMessage) + "\n")
	return b.String()
}

func (m *dashboardModel) renderDetail() string {
	switch {
	case m.detailLoading:
		return formatter.Dim("Loading details...")
	case m.detailErr != nil:
		return formatter.StyleRed.Render("Error: " + m.detailErr.Error())
	case m.detail == nil:
		return formatter.Dim("Press enter to see a client's stages and tasks.")
	}
	return formatter.FormatClientProgress(m.detail)
}

func (m *dashboardModel) renderHelp() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, formatter.StyleHeader.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim("  ·  "))
}

func padRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
