package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockReportRepository creates a GormExpenseReportRepository with a mocked SQL connection
func newMockReportRepository(t *testing.T) (*GormExpenseReportRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormExpenseReportRepository(gormDB), mock, mockDB
}

func TestGormExpenseReportRepository_MonthlyTotals(t *testing.T) {
	t.Run("returns grouped rows in chronological order", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"year", "month", "total", "count"}).
			AddRow(2025, 1, "150.50", 3).
			AddRow(2025, 3, "200.00", 1)

		mock.ExpectQuery(`SELECT(?s).+FROM "expenses" WHERE tenant_id = \$1`).
			WithArgs(tenantID, from, to).
			WillReturnRows(rows)

		totals, err := repo.MonthlyTotals(context.Background(), report.Query{
			TenantID: tenantID,
			Scope:    report.ScopeAll(),
			From:     from,
			To:       to,
		})

		assert.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, 2025, totals[0].Year)
		assert.Equal(t, 1, totals[0].Month)
		assert.True(t, totals[0].Total.Equal(decimal.RequireFromString("150.50")))
		assert.Equal(t, int64(3), totals[0].Count)
		assert.Equal(t, 3, totals[1].Month)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restricts to scoped projects and approved expenses", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		projectID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT(?s).+FROM "expenses" WHERE tenant_id = \$1.+project_id IN \(\$4\).+approval_status = \$5`).
			WithArgs(tenantID, from, to, projectID, expense.ApprovalApproved).
			WillReturnRows(sqlmock.NewRows([]string{"year", "month", "total", "count"}))

		totals, err := repo.MonthlyTotals(context.Background(), report.Query{
			TenantID:     tenantID,
			Scope:        report.ScopeProjects(projectID),
			From:         from,
			To:           to,
			ApprovedOnly: true,
		})

		assert.NoError(t, err)
		assert.Empty(t, totals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty scope matches no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT(?s).+FROM "expenses" WHERE tenant_id = \$1.+1 = 0`).
			WithArgs(tenantID, from, to).
			WillReturnRows(sqlmock.NewRows([]string{"year", "month", "total", "count"}))

		totals, err := repo.MonthlyTotals(context.Background(), report.Query{
			TenantID: tenantID,
			Scope:    report.ScopeNone(),
			From:     from,
			To:       to,
		})

		assert.NoError(t, err)
		assert.Empty(t, totals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseReportRepository_CategoryTotals(t *testing.T) {
	t.Run("returns per-category sums ordered by total", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"category", "total", "count"}).
			AddRow("MATERIAL", "300.00", 4).
			AddRow("SERVICE", "120.00", 2)

		mock.ExpectQuery(`SELECT(?s).+FROM "expenses" WHERE tenant_id = \$1.+GROUP BY "category"`).
			WithArgs(tenantID, from, to).
			WillReturnRows(rows)

		totals, err := repo.CategoryTotals(context.Background(), report.Query{
			TenantID: tenantID,
			Scope:    report.ScopeAll(),
			From:     from,
			To:       to,
		})

		assert.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, expense.CategoryMaterial, totals[0].Category)
		assert.True(t, totals[0].Total.Equal(decimal.RequireFromString("300.00")))
		assert.Equal(t, expense.CategoryService, totals[1].Category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseReportRepository_WindowTotal(t *testing.T) {
	t.Run("sums over incurred window with status filters", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		status := expense.StatusDue
		approval := expense.ApprovalApproved

		rows := sqlmock.NewRows([]string{"sum", "count"}).AddRow("420.00", 7)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(value\), 0\) as sum, COUNT\(\*\) as count FROM "expenses" WHERE tenant_id = \$1`).
			WithArgs(tenantID, from, to, status, approval).
			WillReturnRows(rows)

		total, err := repo.WindowTotal(context.Background(), report.TotalQuery{
			TenantID:       tenantID,
			Scope:          report.ScopeAll(),
			IncurredFrom:   &from,
			IncurredTo:     &to,
			Status:         &status,
			ApprovalStatus: &approval,
		})

		assert.NoError(t, err)
		assert.True(t, total.Sum.Equal(decimal.RequireFromString("420.00")))
		assert.Equal(t, int64(7), total.Count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sums over due window", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		dueFrom := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
		dueTo := time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"sum", "count"}).AddRow("0", 0)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(value\), 0\) as sum, COUNT\(\*\) as count FROM "expenses" WHERE tenant_id = \$1.+due_at >= \$2.+due_at <= \$3`).
			WithArgs(tenantID, dueFrom, dueTo).
			WillReturnRows(rows)

		total, err := repo.WindowTotal(context.Background(), report.TotalQuery{
			TenantID: tenantID,
			Scope:    report.ScopeAll(),
			DueFrom:  &dueFrom,
			DueTo:    &dueTo,
		})

		assert.NoError(t, err)
		assert.True(t, total.Sum.IsZero())
		assert.Equal(t, int64(0), total.Count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
