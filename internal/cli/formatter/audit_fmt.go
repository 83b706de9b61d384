package formatter

import (
	"time"

	"github.com/gentyx/clienthub/internal/domain"
)

// FormatAuditLog renders audit entries newest first as returned by the store.
func FormatAuditLog(entries []*domain.AuditEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No audit entries.") + "\n"
	}
	headers := []string{"WHEN", "ACTOR", "ACTION", "ENTITY", "DETAIL"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		actor := string(e.ActorRole)
		if e.ActorID != "" {
			actor += ":" + e.ActorID
		}
		rows = append(rows, []string{
			Dim(HumanTimestamp(e.CreatedAt, now)),
			actor,
			StyleBlue.Render(string(e.Action)),
			e.EntityType + " " + TruncID(e.EntityID),
			e.Detail,
		})
	}
	return RenderTable(headers, rows)
}
