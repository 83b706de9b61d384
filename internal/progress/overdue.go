package progress

import (
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/domain"
)

// terminalStatuses never count as overdue. Keys are lower-case.
var terminalStatuses = map[string]bool{
	strings.ToLower(string(domain.StatusCompleted)): true,
	strings.ToLower(string(domain.StatusApproved)):  true,
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// IsOverdue reports whether an item due on dueDate has fully missed its day
// as of now. The due date's calendar day is read as a day in now's location,
// so an item due today only becomes overdue once tomorrow starts. Completed
// and approved items are never overdue; the status match ignores case.
func IsOverdue(dueDate *time.Time, status domain.Status, now time.Time) bool {
	if dueDate == nil {
		return false
	}
	if terminalStatuses[strings.ToLower(strings.TrimSpace(string(status)))] {
		return false
	}
	loc := now.Location()
	return EndOfDay(*dueDate, loc).Before(StartOfDay(now, loc))
}

// DaysOverdue returns how many whole calendar days have passed since the due
// day ended, or 0 when the item is not overdue.
func DaysOverdue(dueDate *time.Time, status domain.Status, now time.Time) int {
	if !IsOverdue(dueDate, status, now) {
		return 0
	}
	return int(civilDay(now) - civilDay(*dueDate))
}

// civilDay numbers t's calendar date as days since 1970-01-01. Unix seconds
// are used instead of Sub, whose Duration overflows past ~292 years.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
