package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func progressStyleFor(pct int) lipgloss.Style {
	switch {
	case pct < 34:
		return StyleRed
	case pct < 67:
		return StyleYellow
	default:
		return StyleGreen
	}
}

func bar(pct, width int) string {
	if width < 2 {
		width = 2
	}
	filled := clampPct(pct) * width / 100
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders a whole-percent progress bar like [████░░░░]  45%.
// Green from 67%, yellow from 34%, red below.
func RenderProgress(pct int, width int) string {
	pct = clampPct(pct)
	return fmt.Sprintf("[%s] %3d%%", progressStyleFor(pct).Render(bar(pct, width)), pct)
}

// RenderCompactBar renders the bar alone, for table cells.
func RenderCompactBar(pct int, width int, dim bool) string {
	pct = clampPct(pct)
	if dim {
		return StyleDim.Render(bar(pct, width))
	}
	return progressStyleFor(pct).Render(bar(pct, width))
}
