package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a development project
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusArchived
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Project represents a real-estate development project aggregate root
type Project struct {
	shared.TenantAggregateRoot
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Status    Status      `json:"status"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// NewProject creates a new active project
func NewProject(tenantID uuid.UUID, name, address string) (*Project, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}

	return &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Address:             address,
		Status:              StatusActive,
	}, nil
}

// IsMember reports whether the user is assigned to this project
func (p *Project) IsMember(userID uuid.UUID) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AssignMember adds a user to the project member list
func (p *Project) AssignMember(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if p.IsMember(userID) {
		return shared.ErrAlreadyExists
	}
	p.MemberIDs = append(p.MemberIDs, userID)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// RemoveMember removes a user from the project member list
func (p *Project) RemoveMember(userID uuid.UUID) error {
	for i, id := range p.MemberIDs {
		if id == userID {
			p.MemberIDs = append(p.MemberIDs[:i], p.MemberIDs[i+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Archive marks the project as archived
func (p *Project) Archive() error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Project is already archived")
	}
	p.Status = StatusArchived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
