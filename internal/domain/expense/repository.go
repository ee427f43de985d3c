package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/shared"
)

// ListFilter defines filtering options for expense list queries
type ListFilter struct {
	shared.Filter
	ProjectID      *uuid.UUID
	Category       *Category
	Status         *Status
	ApprovalStatus *ApprovalStatus
	IncurredFrom   *time.Time
	IncurredTo     *time.Time
	DueFrom        *time.Time
	DueTo          *time.Time
}

// Repository defines the interface for expense persistence
type Repository interface {
	// FindByIDForTenant finds an expense by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)

	// FindAllForTenant finds all expenses for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]Expense, error)

	// CountForTenant counts expenses for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (int64, error)

	// Save creates or updates an expense
	Save(ctx context.Context, exp *Expense) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, exp *Expense) error

	// DeleteForTenant soft deletes an expense for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
