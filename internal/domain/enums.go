package domain

import "strings"

// Status is the lifecycle state shared by stages, subtasks and tasks.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusApproved   Status = "Approved"
)

// ValidWorkStatuses is the set of statuses a stage, subtask or task may hold.
var ValidWorkStatuses = map[Status]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// ParseStatus maps a stored or user-supplied status string onto its canonical
// form. Matching ignores case, surrounding whitespace and "_"/"-" separators.
// Unknown or empty values fall back to StatusNotStarted.
func ParseStatus(s string) Status {
	st, _ := LookupStatus(s)
	return st
}

// LookupStatus is ParseStatus with a flag reporting whether s was recognized.
func LookupStatus(s string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	switch key {
	case "not started", "notstarted", "todo", "pending":
		return StatusNotStarted, true
	case "in progress", "inprogress":
		return StatusInProgress, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	case "approved":
		return StatusApproved, true
	}
	return StatusNotStarted, false
}

// Role identifies the kind of actor making a request.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleClient        Role = "CLIENT"
	RoleCPA           Role = "CPA"
	RoleServiceCenter Role = "SERVICE_CENTER"
)

// ValidRoles is the canonical set of accepted actor roles.
var ValidRoles = map[Role]bool{
	RoleAdmin:         true,
	RoleClient:        true,
	RoleCPA:           true,
	RoleServiceCenter: true,
}

// ValidAssigneeRoles lists the roles a task may be assigned to.
var ValidAssigneeRoles = map[Role]bool{
	RoleClient:        true,
	RoleCPA:           true,
	RoleServiceCenter: true,
}

// ParseRole normalizes a role string ("service center", "cpa") to its
// canonical upper-case form. The second return is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	r := Role(key)
	return r, ValidRoles[r]
}

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientArchived ClientStatus = "archived"
)
