package expense

import (
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeExpenseCreated  = "expense.created"
	EventTypeExpenseApproved = "expense.approved"
	EventTypeExpenseRejected = "expense.rejected"
	EventTypeExpensePaid     = "expense.paid"
)

const aggregateType = "Expense"

// ExpenseCreatedEvent is published when an expense is created
type ExpenseCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID string          `json:"project_id"`
	Category  Category        `json:"category"`
	Value     decimal.Decimal `json:"value"`
}

// NewExpenseCreatedEvent creates a new ExpenseCreatedEvent
func NewExpenseCreatedEvent(e *Expense) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseCreated, aggregateType, e.ID, e.TenantID),
		ProjectID:       e.ProjectID.String(),
		Category:        e.Category,
		Value:           e.Value,
	}
}

// ExpenseApprovedEvent is published when an expense is approved
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	ProjectID string          `json:"project_id"`
	Value     decimal.Decimal `json:"value"`
}

// NewExpenseApprovedEvent creates a new ExpenseApprovedEvent
func NewExpenseApprovedEvent(e *Expense) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, aggregateType, e.ID, e.TenantID),
		ProjectID:       e.ProjectID.String(),
		Value:           e.Value,
	}
}

// ExpenseRejectedEvent is published when an expense is rejected
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	ProjectID string `json:"project_id"`
	Note      string `json:"note"`
}

// NewExpenseRejectedEvent creates a new ExpenseRejectedEvent
func NewExpenseRejectedEvent(e *Expense) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRejected, aggregateType, e.ID, e.TenantID),
		ProjectID:       e.ProjectID.String(),
		Note:            e.RejectionNote,
	}
}

// ExpensePaidEvent is published when an expense is marked as paid
type ExpensePaidEvent struct {
	shared.BaseDomainEvent
	ProjectID string          `json:"project_id"`
	Value     decimal.Decimal `json:"value"`
}

// NewExpensePaidEvent creates a new ExpensePaidEvent
func NewExpensePaidEvent(e *Expense) *ExpensePaidEvent {
	return &ExpensePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaid, aggregateType, e.ID, e.TenantID),
		ProjectID:       e.ProjectID.String(),
		Value:           e.Value,
	}
}
