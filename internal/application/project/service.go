package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/project"
	"github.com/groundplan/backend/internal/domain/shared"
)

// Service provides application-level project operations
type Service struct {
	repo project.Repository
}

// NewService creates a new project service
func NewService(repo project.Repository) *Service {
	return &Service{repo: repo}
}

// Response represents a project in API responses
type Response struct {
	ID        uuid.UUID   `json:"id"`
	TenantID  uuid.UUID   `json:"tenant_id"`
	Name      string      `json:"name"`
	Address   string      `json:"address,omitempty"`
	Status    string      `json:"status"`
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreateRequest creates a new project
type CreateRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// Create creates a new project
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*Response, error) {
	p, err := project.NewProject(tenantID, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// ListVisible lists the projects the caller may see. Admins see every
// project of the tenant; members only their assignments.
func (s *Service) ListVisible(ctx context.Context, tenantID, userID uuid.UUID, isAdmin bool) ([]Response, error) {
	var (
		projects []project.Project
		err      error
	)
	if isAdmin {
		projects, err = s.repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	} else {
		projects, err = s.repo.FindByMember(ctx, tenantID, userID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]Response, len(projects))
	for i := range projects {
		responses[i] = *toResponse(&projects[i])
	}
	return responses, nil
}

// AssignMember adds a user to a project
func (s *Service) AssignMember(ctx context.Context, tenantID, projectID, userID uuid.UUID) (*Response, error) {
	p, err := s.find(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if err := p.AssignMember(userID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// RemoveMember removes a user from a project
func (s *Service) RemoveMember(ctx context.Context, tenantID, projectID, userID uuid.UUID) (*Response, error) {
	p, err := s.find(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if err := p.RemoveMember(userID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// Archive archives a project
func (s *Service) Archive(ctx context.Context, tenantID, projectID uuid.UUID) (*Response, error) {
	p, err := s.find(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if err := p.Archive(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

func (s *Service) find(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Project not found")
	}
	return p, nil
}

func toResponse(p *project.Project) *Response {
	return &Response{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Name:      p.Name,
		Address:   p.Address,
		Status:    p.Status.String(),
		MemberIDs: p.MemberIDs,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
