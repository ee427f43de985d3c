package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/shared"
)

// Repository defines the interface for project persistence
type Repository interface {
	// FindByIDForTenant finds a project by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)

	// FindAllForTenant finds all projects for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Project, error)

	// FindByMember finds the projects a user is assigned to
	FindByMember(ctx context.Context, tenantID, userID uuid.UUID) ([]Project, error)

	// Save creates or updates a project together with its member list
	Save(ctx context.Context, p *Project) error

	// DeleteForTenant soft deletes a project for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
