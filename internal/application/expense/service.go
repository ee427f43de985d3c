package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service provides application-level expense operations
type Service struct {
	repo expense.Repository
}

// NewService creates a new expense service
func NewService(repo expense.Repository) *Service {
	return &Service{repo: repo}
}

// Response represents an expense in API responses
type Response struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	ProjectID      uuid.UUID       `json:"project_id"`
	Category       string          `json:"category"`
	Value          decimal.Decimal `json:"value"`
	Description    string          `json:"description,omitempty"`
	IncurredAt     time.Time       `json:"incurred_at"`
	DueAt          time.Time       `json:"due_at"`
	Status         string          `json:"status"`
	ApprovalStatus string          `json:"approval_status"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy     *uuid.UUID      `json:"approved_by,omitempty"`
	RejectedAt     *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy     *uuid.UUID      `json:"rejected_by,omitempty"`
	RejectionNote  string          `json:"rejection_note,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// CreateRequest creates a new expense
type CreateRequest struct {
	ProjectID   uuid.UUID       `json:"project_id" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
	DueAt       time.Time       `json:"due_at" binding:"required"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// UpdateRequest updates an expense that is still pending approval
type UpdateRequest struct {
	Category    string          `json:"category" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
	DueAt       time.Time       `json:"due_at" binding:"required"`
}

// ListFilter filters the expense list
type ListFilter struct {
	ProjectID      string     `form:"project_id"`
	Category       string     `form:"category"`
	Status         string     `form:"status"`
	ApprovalStatus string     `form:"approval_status"`
	IncurredFrom   *time.Time `form:"incurred_from" time_format:"2006-01-02"`
	IncurredTo     *time.Time `form:"incurred_to" time_format:"2006-01-02"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

// Create creates a new expense pending approval
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*Response, error) {
	exp, err := expense.NewExpense(
		tenantID,
		req.ProjectID,
		expense.Category(req.Category),
		req.Value,
		req.Description,
		req.IncurredAt,
		req.DueAt,
	)
	if err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		exp.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.repo.Save(ctx, exp); err != nil {
		return nil, err
	}

	return toResponse(exp), nil
}

// GetByID gets an expense by ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Response, error) {
	exp, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(exp), nil
}

// Update updates an expense while its approval is pending
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequest) (*Response, error) {
	exp, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := exp.Update(
		expense.Category(req.Category),
		req.Value,
		req.Description,
		req.IncurredAt,
		req.DueAt,
	); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, exp); err != nil {
		return nil, err
	}

	return toResponse(exp), nil
}

// List lists expenses with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
	domainFilter := expense.ListFilter{
		IncurredFrom: filter.IncurredFrom,
		IncurredTo:   filter.IncurredTo,
	}
	domainFilter.Filter = shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	if filter.ProjectID != "" {
		if id, err := uuid.Parse(filter.ProjectID); err == nil {
			domainFilter.ProjectID = &id
		}
	}
	if filter.Category != "" {
		category := expense.Category(filter.Category)
		domainFilter.Category = &category
	}
	if filter.Status != "" {
		status := expense.Status(filter.Status)
		domainFilter.Status = &status
	}
	if filter.ApprovalStatus != "" {
		approval := expense.ApprovalStatus(filter.ApprovalStatus)
		domainFilter.ApprovalStatus = &approval
	}

	expenses, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, len(expenses))
	for i := range expenses {
		responses[i] = *toResponse(&expenses[i])
	}

	return responses, total, nil
}

// Approve approves a pending expense
func (s *Service) Approve(ctx context.Context, tenantID, id, userID uuid.UUID) (*Response, error) {
	exp, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := exp.Approve(userID); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, exp); err != nil {
		return nil, err
	}

	return toResponse(exp), nil
}

// Reject rejects a pending expense
func (s *Service) Reject(ctx context.Context, tenantID, id, userID uuid.UUID, note string) (*Response, error) {
	exp, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := exp.Reject(userID, note); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, exp); err != nil {
		return nil, err
	}

	return toResponse(exp), nil
}

// MarkPaid marks an approved expense as paid
func (s *Service) MarkPaid(ctx context.Context, tenantID, id uuid.UUID) (*Response, error) {
	exp, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := exp.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, exp); err != nil {
		return nil, err
	}

	return toResponse(exp), nil
}

// Delete soft deletes an expense
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) find(ctx context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
	exp, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}
	return exp, nil
}

func toResponse(e *expense.Expense) *Response {
	return &Response{
		ID:             e.ID,
		TenantID:       e.TenantID,
		ProjectID:      e.ProjectID,
		Category:       e.Category.String(),
		Value:          e.Value,
		Description:    e.Description,
		IncurredAt:     e.IncurredAt,
		DueAt:          e.DueAt,
		Status:         e.Status.String(),
		ApprovalStatus: e.ApprovalStatus.String(),
		ApprovedAt:     e.ApprovedAt,
		ApprovedBy:     e.ApprovedBy,
		RejectedAt:     e.RejectedAt,
		RejectedBy:     e.RejectedBy,
		RejectionNote:  e.RejectionNote,
		PaidAt:         e.PaidAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		Version:        e.Version,
	}
}
