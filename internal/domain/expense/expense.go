package expense

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category represents the category of a project expense
type Category string

const (
	CategoryMaterial  Category = "MATERIAL"
	CategoryService   Category = "SERVICE"
	CategoryEquipment Category = "EQUIPMENT"
	CategoryFees      Category = "FEES"
	CategoryOther     Category = "OTHER"
)

// AllCategories lists every valid category in display order
var AllCategories = []Category{
	CategoryMaterial,
	CategoryService,
	CategoryEquipment,
	CategoryFees,
	CategoryOther,
}

// IsValid checks if the category is a valid Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryMaterial, CategoryService, CategoryEquipment, CategoryFees, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Status represents the payment status of an expense
type Status string

const (
	StatusPaid     Status = "PAID"
	StatusPending  Status = "PENDING"
	StatusDue      Status = "DUE"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusDue, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ApprovalStatus represents the approval state of an expense
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the value is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// CanDecide returns true if an approval decision can still be made
func (s ApprovalStatus) CanDecide() bool {
	return s == ApprovalPending
}

// Expense represents a project expense aggregate root.
// IncurredAt drives monthly aggregation; DueAt drives the due/paid split.
type Expense struct {
	shared.TenantAggregateRoot
	ProjectID      uuid.UUID       `json:"project_id"`
	Category       Category        `json:"category"`
	Value          decimal.Decimal `json:"value"`
	Description    string          `json:"description"`
	IncurredAt     time.Time       `json:"incurred_at"`
	DueAt          time.Time       `json:"due_at"`
	Status         Status          `json:"status"`
	ApprovalStatus ApprovalStatus  `json:"approval_status"`
	ApprovedAt     *time.Time      `json:"approved_at"`
	ApprovedBy     *uuid.UUID      `json:"approved_by"`
	RejectedAt     *time.Time      `json:"rejected_at"`
	RejectedBy     *uuid.UUID      `json:"rejected_by"`
	RejectionNote  string          `json:"rejection_note"`
	PaidAt         *time.Time      `json:"paid_at"`
}

// NewExpense creates a new expense pending approval
func NewExpense(
	tenantID uuid.UUID,
	projectID uuid.UUID,
	category Category,
	value decimal.Decimal,
	description string,
	incurredAt time.Time,
	dueAt time.Time,
) (*Expense, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Expense value cannot be negative")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if dueAt.Before(incurredAt) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the incurred date")
	}

	exp := &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Category:            category,
		Value:               value,
		Description:         description,
		IncurredAt:          incurredAt,
		DueAt:               dueAt,
		Status:              StatusPending,
		ApprovalStatus:      ApprovalPending,
	}

	exp.AddDomainEvent(NewExpenseCreatedEvent(exp))

	return exp, nil
}

// Approve approves the expense. The payment status moves to DUE so the
// expense starts counting toward upcoming and outstanding totals.
func (e *Expense) Approve(approvedBy uuid.UUID) error {
	if !e.ApprovalStatus.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s approval status", e.ApprovalStatus))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	now := time.Now()
	e.ApprovalStatus = ApprovalApproved
	e.Status = StatusDue
	e.ApprovedAt = &now
	e.ApprovedBy = &approvedBy
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseApprovedEvent(e))

	return nil
}

// Reject rejects the expense
func (e *Expense) Reject(rejectedBy uuid.UUID, note string) error {
	if !e.ApprovalStatus.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s approval status", e.ApprovalStatus))
	}
	if rejectedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Rejector user ID cannot be empty")
	}
	if note == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection note is required")
	}

	now := time.Now()
	e.ApprovalStatus = ApprovalRejected
	e.Status = StatusRejected
	e.RejectedAt = &now
	e.RejectedBy = &rejectedBy
	e.RejectionNote = note
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseRejectedEvent(e))

	return nil
}

// MarkPaid marks an approved expense as paid
func (e *Expense) MarkPaid() error {
	if e.ApprovalStatus != ApprovalApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved expenses can be marked as paid")
	}
	if e.Status == StatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Expense is already paid")
	}

	now := time.Now()
	e.Status = StatusPaid
	e.PaidAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpensePaidEvent(e))

	return nil
}

// Update changes expense details while the approval decision is pending
func (e *Expense) Update(
	category Category,
	value decimal.Decimal,
	description string,
	incurredAt time.Time,
	dueAt time.Time,
) error {
	if e.ApprovalStatus != ApprovalPending {
		return shared.NewDomainError("INVALID_STATE", "Can only update an expense while its approval is pending")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Expense value cannot be negative")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if dueAt.Before(incurredAt) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the incurred date")
	}

	e.Category = category
	e.Value = value
	e.Description = description
	e.IncurredAt = incurredAt
	e.DueAt = dueAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}
