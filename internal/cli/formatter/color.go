package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gentyx/clienthub/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a stage, subtask or task status.
func StatusPill(status domain.Status) string {
	switch status {
	case domain.StatusNotStarted:
		return StyleBlue.Render("○ Not Started")
	case domain.StatusInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.StatusApproved:
		return StyleGreen.Render("✔ Approved")
	default:
		return StyleDim.Render(string(status))
	}
}

// ClientStatusPill returns a colored indicator for a client's lifecycle status.
func ClientStatusPill(status domain.ClientStatus) string {
	switch status {
	case domain.ClientActive:
		return StyleGreen.Render("● Active")
	case domain.ClientArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// OverdueBadge renders "▲ N OVERDUE" in red, or a dim dash when nothing is late.
func OverdueBadge(n int) string {
	if n <= 0 {
		return StyleDim.Render("--")
	}
	return StyleRed.Render(fmt.Sprintf("▲ %d OVERDUE", n))
}

// RoleBadge returns a purple label for an assignee role.
func RoleBadge(r domain.Role) string {
	switch r {
	case domain.RoleServiceCenter:
		return StylePurple.Render("Service Center")
	case domain.RoleCPA:
		return StylePurple.Render("CPA")
	case domain.RoleClient:
		return StylePurple.Render("Client")
	default:
		return StylePurple.Render(string(r))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
