package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(1, 2)

// RenderBox wraps content in a rounded border, headed by title when given.
func RenderBox(title, content string) string {
	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// calendarDays counts whole calendar days from a to b, each read in its own
// location, so "due tomorrow" holds at any hour of today.
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// RelativeDay names day relative to today: "Today", "In 3d", "2w ago".
func RelativeDay(day, today time.Time) string {
	days := calendarDays(today, day)
	ahead := days > 0
	n := days
	if !ahead {
		n = -days
	}

	var span string
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case n < 14:
		span = fmt.Sprintf("%dd", n)
	case n < 60:
		span = fmt.Sprintf("%dw", n/7)
	default:
		span = fmt.Sprintf("%dmo", n/30)
	}
	if ahead {
		return "In " + span
	}
	return span + " ago"
}

// DueLabel renders a YYYY-MM-DD due date relative to now: red when overdue,
// yellow within a week. Unparseable values are shown as stored.
func DueLabel(due *string, overdue bool, now time.Time) string {
	if due == nil || *due == "" {
		return Dim("--")
	}
	day, err := time.ParseInLocation("2006-01-02", *due, now.Location())
	if err != nil {
		return StyleFg.Render(*due)
	}
	text := RelativeDay(day, now)
	switch {
	case overdue:
		return StyleRed.Render(text)
	case calendarDays(now, day) <= 7:
		return StyleYellow.Render(text)
	}
	return StyleFg.Render(text)
}

// HumanDate returns "Today", "Yesterday" or "Jan 2, 2006".
func HumanDate(t, now time.Time) string {
	switch calendarDays(t, now) {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp renders an audit or upload time: minutes and hours for the
// last day, otherwise a date.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0 || diff >= 24*time.Hour:
		return HumanDate(t, now)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(diff.Hours()))
}

// TruncID dims the 8-character display form of an ID.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatBytes renders a document size as B, KB or MB.
func FormatBytes(n int64) string {
	const kb = 1024
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < kb*kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(kb*kb))
}
