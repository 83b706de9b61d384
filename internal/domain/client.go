package domain

import "time"

type Client struct {
	ID              string
	Name            string
	Email           string
	CPAID           string
	ServiceCenterID string
	Status          ClientStatus
	DueDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayID returns the first 8 characters of the client ID for compact output.
func (c *Client) DisplayID() string {
	if len(c.ID) >= 8 {
		return c.ID[:8]
	}
	return c.ID
}

// AssignedTo reports whether the actor is the client's CPA or service center
// for the given role.
func (c *Client) AssignedTo(role Role, actorID string) bool {
	if actorID == "" {
		return false
	}
	switch role {
	case RoleCPA:
		return c.CPAID == actorID
	case RoleServiceCenter:
		return c.ServiceCenterID == actorID
	case RoleClient:
		return c.ID == actorID
	}
	return false
}
