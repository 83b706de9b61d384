package formatter

import (
	"fmt"
	"strings"

	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
)

// FormatStageList renders stages in order with their subtasks nested below.
func FormatStageList(stages []*domain.Stage) string {
	if len(stages) == 0 {
		return Dim("No stages yet.") + "\n"
	}

	var b strings.Builder
	for _, s := range stages {
		mark := StyleDim.Render("○")
		if progress.StageComplete(s) {
			mark = StyleGreen.Render("✔")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s  %s  %s\n", mark, s.OrderNumber, Bold(s.Name), StatusPill(s.Status), TruncID(s.ID)))
		for i, st := range s.Subtasks {
			branch := "├─"
			if i == len(s.Subtasks)-1 {
				branch = "└─"
			}
			b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n", Dim(branch), st.Title, StatusPill(st.Status), TruncID(st.ID)))
		}
	}
	return b.String()
}
