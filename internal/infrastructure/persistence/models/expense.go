package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	TenantAggregateModel
	ProjectID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Category       expense.Category       `gorm:"type:varchar(30);not null;index"`
	Value          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Description    string                 `gorm:"type:varchar(500);not null"`
	IncurredAt     time.Time              `gorm:"not null;index"`
	DueAt          time.Time              `gorm:"not null;index"`
	Status         expense.Status         `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovalStatus expense.ApprovalStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	RejectedAt     *time.Time
	RejectedBy     *uuid.UUID `gorm:"type:uuid"`
	RejectionNote  string     `gorm:"type:varchar(500)"`
	PaidAt         *time.Time
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense entity.
func (m *ExpenseModel) ToDomain() *expense.Expense {
	return &expense.Expense{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		ProjectID:      m.ProjectID,
		Category:       m.Category,
		Value:          m.Value,
		Description:    m.Description,
		IncurredAt:     m.IncurredAt,
		DueAt:          m.DueAt,
		Status:         m.Status,
		ApprovalStatus: m.ApprovalStatus,
		ApprovedAt:     m.ApprovedAt,
		ApprovedBy:     m.ApprovedBy,
		RejectedAt:     m.RejectedAt,
		RejectedBy:     m.RejectedBy,
		RejectionNote:  m.RejectionNote,
		PaidAt:         m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Expense entity.
func (m *ExpenseModel) FromDomain(e *expense.Expense) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.ProjectID = e.ProjectID
	m.Category = e.Category
	m.Value = e.Value
	m.Description = e.Description
	m.IncurredAt = e.IncurredAt
	m.DueAt = e.DueAt
	m.Status = e.Status
	m.ApprovalStatus = e.ApprovalStatus
	m.ApprovedAt = e.ApprovedAt
	m.ApprovedBy = e.ApprovedBy
	m.RejectedAt = e.RejectedAt
	m.RejectedBy = e.RejectedBy
	m.RejectionNote = e.RejectionNote
	m.PaidAt = e.PaidAt
}

// ExpenseModelFromDomain creates a new persistence model from domain.
func ExpenseModelFromDomain(e *expense.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
