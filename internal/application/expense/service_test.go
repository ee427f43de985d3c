package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExpenseRepository is a mock implementation of expense.Repository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter expense.ListFilter) ([]expense.Expense, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter expense.ListFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveWithLock(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func newTestExpense(t *testing.T, tenantID uuid.UUID) *expense.Expense {
	t.Helper()
	incurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	exp, err := expense.NewExpense(
		tenantID,
		uuid.New(),
		expense.CategoryMaterial,
		decimal.NewFromFloat(1250.50),
		"Concrete delivery",
		incurred,
		incurred.AddDate(0, 0, 30),
	)
	require.NoError(t, err)
	return exp
}

func TestCreate(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	createdBy := uuid.New()

	repo.On("Save", mock.Anything, mock.AnythingOfType("*expense.Expense")).Return(nil)

	incurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	resp, err := service.Create(context.Background(), tenantID, CreateRequest{
		ProjectID:   uuid.New(),
		Category:    "MATERIAL",
		Value:       decimal.NewFromFloat(1250.50),
		Description: "Concrete delivery",
		IncurredAt:  incurred,
		DueAt:       incurred.AddDate(0, 0, 30),
		CreatedBy:   &createdBy,
	})

	require.NoError(t, err)
	assert.Equal(t, tenantID, resp.TenantID)
	assert.Equal(t, "MATERIAL", resp.Category)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "PENDING", resp.ApprovalStatus)
	repo.AssertExpectations(t)
}

func TestCreate_InvalidCategory(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)

	incurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := service.Create(context.Background(), uuid.New(), CreateRequest{
		ProjectID:  uuid.New(),
		Category:   "GROCERIES",
		Value:      decimal.NewFromInt(10),
		IncurredAt: incurred,
		DueAt:      incurred,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestCreate_DueBeforeIncurred(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)

	incurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := service.Create(context.Background(), uuid.New(), CreateRequest{
		ProjectID:  uuid.New(),
		Category:   "MATERIAL",
		Value:      decimal.NewFromInt(10),
		IncurredAt: incurred,
		DueAt:      incurred.AddDate(0, 0, -1),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DUE_DATE", domainErr.Code)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	id := uuid.New()

	repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := service.GetByID(context.Background(), tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestApprove(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	approver := uuid.New()
	exp := newTestExpense(t, tenantID)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, exp.ID).Return(exp, nil)
	repo.On("SaveWithLock", mock.Anything, exp).Return(nil)

	resp, err := service.Approve(context.Background(), tenantID, exp.ID, approver)

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.ApprovalStatus)
	assert.Equal(t, "DUE", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approver, *resp.ApprovedBy)
	repo.AssertExpectations(t)
}

func TestApprove_AlreadyDecided(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	exp := newTestExpense(t, tenantID)
	require.NoError(t, exp.Approve(uuid.New()))

	repo.On("FindByIDForTenant", mock.Anything, tenantID, exp.ID).Return(exp, nil)

	_, err := service.Approve(context.Background(), tenantID, exp.ID, uuid.New())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	repo.AssertNotCalled(t, "SaveWithLock")
}

func TestReject_RequiresNote(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	exp := newTestExpense(t, tenantID)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, exp.ID).Return(exp, nil)

	_, err := service.Reject(context.Background(), tenantID, exp.ID, uuid.New(), "")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REASON", domainErr.Code)
}

func TestMarkPaid(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	exp := newTestExpense(t, tenantID)
	require.NoError(t, exp.Approve(uuid.New()))

	repo.On("FindByIDForTenant", mock.Anything, tenantID, exp.ID).Return(exp, nil)
	repo.On("SaveWithLock", mock.Anything, exp).Return(nil)

	resp, err := service.MarkPaid(context.Background(), tenantID, exp.ID)

	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	assert.NotNil(t, resp.PaidAt)
	repo.AssertExpectations(t)
}

func TestMarkPaid_NotApproved(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	exp := newTestExpense(t, tenantID)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, exp.ID).Return(exp, nil)

	_, err := service.MarkPaid(context.Background(), tenantID, exp.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestList(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	exp := newTestExpense(t, tenantID)

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("expense.ListFilter")).
		Return([]expense.Expense{*exp}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("expense.ListFilter")).
		Return(int64(1), nil)

	items, total, err := service.List(context.Background(), tenantID, ListFilter{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, exp.ID, items[0].ID)
}

func TestList_FilterConversion(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	projectID := uuid.New()

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f expense.ListFilter) bool {
		return f.ProjectID != nil && *f.ProjectID == projectID &&
			f.Category != nil && *f.Category == expense.CategoryService &&
			f.ApprovalStatus != nil && *f.ApprovalStatus == expense.ApprovalApproved
	})).Return([]expense.Expense{}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(0), nil)

	_, _, err := service.List(context.Background(), tenantID, ListFilter{
		ProjectID:      projectID.String(),
		Category:       "SERVICE",
		ApprovalStatus: "APPROVED",
		Page:           1,
		PageSize:       20,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDelete_RepoError(t *testing.T) {
	repo := new(MockExpenseRepository)
	service := NewService(repo)
	tenantID := uuid.New()
	exp := newTestExpense(t, tenantID)
	dbErr := errors.New("connection reset")

	repo.On("FindByIDForTenant", mock.Anything, tenantID, exp.ID).Return(exp, nil)
	repo.On("DeleteForTenant", mock.Anything, tenantID, exp.ID).Return(dbErr)

	err := service.Delete(context.Background(), tenantID, exp.ID)
	assert.ErrorIs(t, err, dbErr)
}
