package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) MonthlyTotals(ctx context.Context, q report.Query) ([]report.MonthlyTotal, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthlyTotal), args.Error(1)
}

func (m *mockReportRepository) CategoryTotals(ctx context.Context, q report.Query) ([]report.CategoryTotal, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CategoryTotal), args.Error(1)
}

func (m *mockReportRepository) WindowTotal(ctx context.Context, q report.TotalQuery) (report.Total, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(report.Total), args.Error(1)
}

func newTestService(repo *mockReportRepository) *ReportService {
	return NewReportService(repo, nil, zap.NewNop())
}

func total(v int64) report.Total {
	return report.Total{Sum: decimal.NewFromInt(v), Count: 1}
}

func dateEq(p *time.Time, want time.Time) bool {
	return p != nil && p.Equal(want)
}

func TestDashboardStats(t *testing.T) {
	tenantID := uuid.New()
	caller := Caller{UserID: uuid.New(), TenantID: tenantID, Role: RoleAdmin}

	windowStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := new(mockReportRepository)
	svc := newTestService(repo)
	svc.now = func() time.Time { return today }

	match := func(pred func(q report.TotalQuery) bool) interface{} {
		return mock.MatchedBy(pred)
	}

	// current window, all approval statuses
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.ApprovalStatus == nil && q.Status == nil && dateEq(q.IncurredFrom, windowStart)
	})).Return(total(600), nil)

	// current window, approved only
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.ApprovalStatus != nil && *q.ApprovalStatus == expense.ApprovalApproved &&
			q.Status == nil && dateEq(q.IncurredFrom, windowStart)
	})).Return(total(300), nil)

	// pending approval
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.ApprovalStatus != nil && *q.ApprovalStatus == expense.ApprovalPending
	})).Return(total(300), nil)

	// due in current window
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.Status != nil && *q.Status == expense.StatusDue && dateEq(q.DueFrom, windowStart)
	})).Return(total(200), nil)

	// paid in current window
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.Status != nil && *q.Status == expense.StatusPaid && dateEq(q.DueFrom, windowStart)
	})).Return(total(100), nil)

	// upcoming week
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.Status != nil && *q.Status == expense.StatusDue && dateEq(q.DueFrom, today)
	})).Return(total(50), nil)

	// previous window figures, approved only
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.Status == nil && dateEq(q.IncurredFrom, prevStart)
	})).Return(total(150), nil)
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.Status != nil && *q.Status == expense.StatusDue && dateEq(q.DueFrom, prevStart)
	})).Return(total(100), nil)
	repo.On("WindowTotal", mock.Anything, match(func(q report.TotalQuery) bool {
		return q.Status != nil && *q.Status == expense.StatusPaid && dateEq(q.DueFrom, prevStart)
	})).Return(total(50), nil)

	stats, err := svc.DashboardStats(context.Background(), caller, StatsRequest{
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	})
	require.NoError(t, err)

	assert.True(t, stats.Total.Amount.Equal(decimal.NewFromInt(600)))
	assert.True(t, stats.Total.Growth.Value.Equal(decimal.NewFromInt(300)))
	assert.True(t, stats.Approved.Equal(decimal.NewFromInt(300)))
	assert.True(t, stats.Due.Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, stats.Due.Growth.Value.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.Paid.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.Paid.Growth.Value.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.PendingApproval.Equal(decimal.NewFromInt(300)))
	assert.True(t, stats.Upcoming.Equal(decimal.NewFromInt(50)))

	repo.AssertExpectations(t)
}

func TestDashboardStatsInvalidRange(t *testing.T) {
	repo := new(mockReportRepository)
	svc := newTestService(repo)
	caller := Caller{UserID: uuid.New(), TenantID: uuid.New(), Role: RoleAdmin}

	_, err := svc.DashboardStats(context.Background(), caller, StatsRequest{
		StartDate: "2025-02-01",
		EndDate:   "2025-01-01",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_RANGE", domainErr.Code)
	repo.AssertNotCalled(t, "WindowTotal", mock.Anything, mock.Anything)
}

func TestSummaryReport(t *testing.T) {
	tenantID := uuid.New()
	caller := Caller{UserID: uuid.New(), TenantID: tenantID, Role: RoleAdmin}

	repo := new(mockReportRepository)
	svc := newTestService(repo)

	monthly := []report.MonthlyTotal{
		{Year: 2025, Month: 1, Total: decimal.NewFromInt(100), Count: 1},
		{Year: 2025, Month: 2, Total: decimal.NewFromInt(200), Count: 2},
	}
	categories := []report.CategoryTotal{
		{Category: expense.CategoryMaterial, Total: decimal.NewFromInt(300), Count: 3},
	}

	approvedOnly := mock.MatchedBy(func(q report.Query) bool {
		return q.ApprovedOnly && q.TenantID == tenantID && q.Scope.All
	})
	repo.On("MonthlyTotals", mock.Anything, approvedOnly).Return(monthly, nil)
	repo.On("CategoryTotals", mock.Anything, approvedOnly).Return(categories, nil)

	summary, err := svc.SummaryReport(context.Background(), caller, SummaryRequest{
		StartDate: "2025-01-01",
		EndDate:   "2025-02-28",
	})
	require.NoError(t, err)

	assert.True(t, summary.KPIs.Total.Equal(decimal.NewFromInt(300)))
	assert.Len(t, summary.Monthly, 2)
	assert.Len(t, summary.Categories, 1)
	require.NotNil(t, summary.KPIs.LastMonthGrowth)
	assert.True(t, summary.KPIs.LastMonthGrowth.Value.Equal(decimal.NewFromInt(100)))

	repo.AssertExpectations(t)
}

func TestSummaryReportForbidden(t *testing.T) {
	repo := new(mockReportRepository)
	svc := newTestService(repo)

	member := Caller{
		UserID:     uuid.New(),
		TenantID:   uuid.New(),
		Role:       RoleMember,
		ProjectIDs: []uuid.UUID{uuid.New()},
	}

	_, err := svc.SummaryReport(context.Background(), member, SummaryRequest{
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
		ProjectID: uuid.New().String(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	repo.AssertNotCalled(t, "MonthlyTotals", mock.Anything, mock.Anything)
}

func TestTrendReportService(t *testing.T) {
	caller := Caller{UserID: uuid.New(), TenantID: uuid.New(), Role: RoleAdmin}

	repo := new(mockReportRepository)
	svc := newTestService(repo)

	windowed := mock.MatchedBy(func(q report.Query) bool {
		return q.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			q.To.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)) &&
			q.ApprovedOnly
	})
	repo.On("MonthlyTotals", mock.Anything, windowed).Return([]report.MonthlyTotal{
		{Year: 2025, Month: 4, Total: decimal.NewFromInt(50), Count: 1},
		{Year: 2025, Month: 5, Total: decimal.NewFromInt(100), Count: 1},
		{Year: 2025, Month: 6, Total: decimal.NewFromInt(200), Count: 1},
	}, nil)

	trend, err := svc.TrendReport(context.Background(), caller, TrendRequest{EndDate: "2025-06-15"})
	require.NoError(t, err)

	assert.True(t, trend.NextMonthForecast.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, TrendIncrease, trend.Trend)
	repo.AssertExpectations(t)
}

func TestComparisonReportService(t *testing.T) {
	caller := Caller{UserID: uuid.New(), TenantID: uuid.New(), Role: RoleAdmin}

	repo := new(mockReportRepository)
	svc := newTestService(repo)

	currentQ := mock.MatchedBy(func(q report.Query) bool {
		return q.From.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	})
	previousQ := mock.MatchedBy(func(q report.Query) bool {
		return q.From.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	})

	repo.On("MonthlyTotals", mock.Anything, currentQ).Return([]report.MonthlyTotal{
		{Year: 2025, Month: 2, Total: decimal.NewFromInt(80), Count: 1},
	}, nil)
	repo.On("MonthlyTotals", mock.Anything, previousQ).Return([]report.MonthlyTotal{
		{Year: 2024, Month: 2, Total: decimal.NewFromInt(40), Count: 1},
	}, nil)

	cmp, err := svc.ComparisonReport(context.Background(), caller, ComparisonRequest{
		StartDate:     "2025-02-01",
		EndDate:       "2025-02-28",
		PrevStartDate: "2024-02-01",
		PrevEndDate:   "2024-02-29",
	})
	require.NoError(t, err)

	require.Len(t, cmp.Points, 2)
	assert.Equal(t, "Feb", cmp.Points[0].Label)
	assert.Equal(t, 2024, cmp.Points[0].Year)
	assert.Equal(t, "Feb", cmp.Points[1].Label)
	assert.Equal(t, 2025, cmp.Points[1].Year)
	assert.True(t, cmp.Variation.Value.Equal(decimal.NewFromInt(100)))
	repo.AssertExpectations(t)
}
