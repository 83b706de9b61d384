package app

import (
	"fmt"

	"github.com/gentyx/clienthub/internal/domain"
)

// Scope identifies who is asking. It is passed explicitly into every
// client-scoped use case instead of living in process-wide state.
//
// ActorID is the CPA or service-center identifier for those roles. ClientID
// is the client the caller belongs to (CLIENT role) or is currently viewing.
type Scope struct {
	Role     domain.Role
	ActorID  string
	ClientID string
}

// AdminScope is used by the CLI and MCP tools, which run with full access.
func AdminScope() Scope {
	return Scope{Role: domain.RoleAdmin, ActorID: "admin"}
}

type ScopeErrorCode string

const (
	ScopeErrInvalid   ScopeErrorCode = "SCOPE_INVALID"
	ScopeErrForbidden ScopeErrorCode = "SCOPE_FORBIDDEN"
)

type ScopeError struct {
	Code    ScopeErrorCode
	Message string
}

func (e *ScopeError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func forbidden(format string, args ...any) error {
	return &ScopeError{Code: ScopeErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Validate checks that the scope carries what its role needs.
func (s Scope) Validate() error {
	if !domain.ValidRoles[s.Role] {
		return &ScopeError{Code: ScopeErrInvalid, Message: fmt.Sprintf("unknown role %q", s.Role)}
	}
	switch s.Role {
	case domain.RoleClient:
		if s.ClientID == "" {
			return &ScopeError{Code: ScopeErrInvalid, Message: "client scope requires a client id"}
		}
	case domain.RoleCPA, domain.RoleServiceCenter:
		if s.ActorID == "" {
			return &ScopeError{Code: ScopeErrInvalid, Message: fmt.Sprintf("%s scope requires an actor id", s.Role)}
		}
	}
	return nil
}

// CanSeeClient reports whether the scope may read the client's data.
func (s Scope) CanSeeClient(c *domain.Client) bool {
	if c == nil {
		return false
	}
	switch s.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return c.ID == s.ClientID
	case domain.RoleCPA, domain.RoleServiceCenter:
		return c.AssignedTo(s.Role, s.ActorID)
	}
	return false
}

// CheckClient returns a ScopeError when the client is outside the scope.
func (s Scope) CheckClient(c *domain.Client) error {
	if !s.CanSeeClient(c) {
		return forbidden("%s cannot access client %s", s.Role, c.ID)
	}
	return nil
}

// CheckTaskUpdate returns a ScopeError unless the scope may change the task.
// Admins may change any task; other roles only tasks assigned to their role.
func (s Scope) CheckTaskUpdate(c *domain.Client, t *domain.Task) error {
	if err := s.CheckClient(c); err != nil {
		return err
	}
	if s.Role == domain.RoleAdmin || s.Role == t.AssigneeRole {
		return nil
	}
	return forbidden("%s cannot update a task assigned to %s", s.Role, t.AssigneeRole)
}

// CanManageStructure reports whether the scope may create clients, stages
// and tasks. Clients only act on their own tasks.
func (s Scope) CanManageStructure() bool {
	return s.Role != domain.RoleClient
}
