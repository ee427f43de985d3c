package expense

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense(t *testing.T) *Expense {
	t.Helper()
	incurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	exp, err := NewExpense(
		uuid.New(),
		uuid.New(),
		CategoryMaterial,
		decimal.NewFromInt(1500),
		"concrete delivery",
		incurred,
		incurred.AddDate(0, 1, 0),
	)
	require.NoError(t, err)
	return exp
}

func TestNewExpense(t *testing.T) {
	exp := validExpense(t)

	assert.Equal(t, StatusPending, exp.Status)
	assert.Equal(t, ApprovalPending, exp.ApprovalStatus)
	assert.Equal(t, 1, exp.Version)
	assert.Len(t, exp.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeExpenseCreated, exp.GetDomainEvents()[0].EventType())
}

func TestNewExpenseValidation(t *testing.T) {
	tenantID := uuid.New()
	projectID := uuid.New()
	incurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("missing project", func(t *testing.T) {
		_, err := NewExpense(tenantID, uuid.Nil, CategoryMaterial, decimal.NewFromInt(10), "", incurred, incurred)
		assert.Error(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := NewExpense(tenantID, projectID, Category("FOOD"), decimal.NewFromInt(10), "", incurred, incurred)
		assert.Error(t, err)
	})

	t.Run("negative value", func(t *testing.T) {
		_, err := NewExpense(tenantID, projectID, CategoryFees, decimal.NewFromInt(-1), "", incurred, incurred)
		assert.Error(t, err)
	})

	t.Run("zero value is allowed", func(t *testing.T) {
		_, err := NewExpense(tenantID, projectID, CategoryFees, decimal.Zero, "", incurred, incurred)
		assert.NoError(t, err)
	})

	t.Run("due before incurred", func(t *testing.T) {
		_, err := NewExpense(tenantID, projectID, CategoryFees, decimal.NewFromInt(10), "", incurred, incurred.AddDate(0, 0, -1))
		assert.Error(t, err)
	})
}

func TestExpenseApprove(t *testing.T) {
	exp := validExpense(t)
	approver := uuid.New()

	require.NoError(t, exp.Approve(approver))

	assert.Equal(t, ApprovalApproved, exp.ApprovalStatus)
	assert.Equal(t, StatusDue, exp.Status)
	assert.Equal(t, approver, *exp.ApprovedBy)
	assert.NotNil(t, exp.ApprovedAt)

	// second decision is rejected
	assert.Error(t, exp.Approve(approver))
	assert.Error(t, exp.Reject(approver, "late"))
}

func TestExpenseReject(t *testing.T) {
	exp := validExpense(t)

	t.Run("requires a note", func(t *testing.T) {
		assert.Error(t, exp.Reject(uuid.New(), ""))
	})

	require.NoError(t, exp.Reject(uuid.New(), "duplicate invoice"))
	assert.Equal(t, ApprovalRejected, exp.ApprovalStatus)
	assert.Equal(t, StatusRejected, exp.Status)
	assert.Equal(t, "duplicate invoice", exp.RejectionNote)
}

func TestExpenseMarkPaid(t *testing.T) {
	exp := validExpense(t)

	t.Run("unapproved expense cannot be paid", func(t *testing.T) {
		assert.Error(t, exp.MarkPaid())
	})

	require.NoError(t, exp.Approve(uuid.New()))
	require.NoError(t, exp.MarkPaid())

	assert.Equal(t, StatusPaid, exp.Status)
	assert.NotNil(t, exp.PaidAt)

	t.Run("cannot pay twice", func(t *testing.T) {
		assert.Error(t, exp.MarkPaid())
	})
}

func TestExpenseUpdate(t *testing.T) {
	exp := validExpense(t)
	incurred := exp.IncurredAt

	require.NoError(t, exp.Update(CategoryService, decimal.NewFromInt(900), "survey work", incurred, incurred.AddDate(0, 2, 0)))
	assert.Equal(t, CategoryService, exp.Category)
	assert.True(t, exp.Value.Equal(decimal.NewFromInt(900)))

	require.NoError(t, exp.Approve(uuid.New()))
	assert.Error(t, exp.Update(CategoryOther, decimal.NewFromInt(1), "", incurred, incurred))
}
