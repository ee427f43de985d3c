package analytics

import (
	"github.com/google/uuid"
)

// Role is the coarse access role carried in the caller's token
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Caller identifies who is asking for a report. It is passed explicitly
// into every analytics entry point; there is no ambient identity state.
type Caller struct {
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Role       Role
	ProjectIDs []uuid.UUID
}

// IsAdmin reports whether the caller holds the admin role
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsAssigned reports whether the caller is assigned to the given project
func (c Caller) IsAssigned(projectID uuid.UUID) bool {
	for _, id := range c.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}
