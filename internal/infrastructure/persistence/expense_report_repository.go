package persistence

import (
	"context"

	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/groundplan/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseReportRepository implements report.ExpenseReportRepository
// using GORM. Aggregation happens in the database; groups without rows
// are simply absent from the result.
type GormExpenseReportRepository struct {
	db *gorm.DB
}

// NewGormExpenseReportRepository creates a new GormExpenseReportRepository
func NewGormExpenseReportRepository(db *gorm.DB) *GormExpenseReportRepository {
	return &GormExpenseReportRepository{db: db}
}

// MonthlyTotals returns per-month sums and counts ordered chronologically
func (r *GormExpenseReportRepository) MonthlyTotals(ctx context.Context, q report.Query) ([]report.MonthlyTotal, error) {
	var totals []report.MonthlyTotal

	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Select(`
			EXTRACT(YEAR FROM incurred_at)::int as year,
			EXTRACT(MONTH FROM incurred_at)::int as month,
			COALESCE(SUM(value), 0) as total,
			COUNT(*) as count
		`).
		Where("tenant_id = ?", q.TenantID).
		Where("incurred_at >= ? AND incurred_at <= ?", q.From, q.To)
	query = applyScope(query, q.Scope)
	if q.ApprovedOnly {
		query = query.Where("approval_status = ?", expense.ApprovalApproved)
	}

	if err := query.
		Group("EXTRACT(YEAR FROM incurred_at), EXTRACT(MONTH FROM incurred_at)").
		Order("year ASC, month ASC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// CategoryTotals returns per-category sums and counts
func (r *GormExpenseReportRepository) CategoryTotals(ctx context.Context, q report.Query) ([]report.CategoryTotal, error) {
	var totals []report.CategoryTotal

	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Select(`
			category,
			COALESCE(SUM(value), 0) as total,
			COUNT(*) as count
		`).
		Where("tenant_id = ?", q.TenantID).
		Where("incurred_at >= ? AND incurred_at <= ?", q.From, q.To)
	query = applyScope(query, q.Scope)
	if q.ApprovedOnly {
		query = query.Where("approval_status = ?", expense.ApprovalApproved)
	}

	if err := query.
		Group("category").
		Order("total DESC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// WindowTotal returns a single sum/count over the filtered window
func (r *GormExpenseReportRepository) WindowTotal(ctx context.Context, q report.TotalQuery) (report.Total, error) {
	var total report.Total

	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Select("COALESCE(SUM(value), 0) as sum, COUNT(*) as count").
		Where("tenant_id = ?", q.TenantID)
	query = applyScope(query, q.Scope)

	if q.IncurredFrom != nil {
		query = query.Where("incurred_at >= ?", q.IncurredFrom)
	}
	if q.IncurredTo != nil {
		query = query.Where("incurred_at <= ?", q.IncurredTo)
	}
	if q.DueFrom != nil {
		query = query.Where("due_at >= ?", q.DueFrom)
	}
	if q.DueTo != nil {
		query = query.Where("due_at <= ?", q.DueTo)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.ApprovalStatus != nil {
		query = query.Where("approval_status = ?", *q.ApprovalStatus)
	}

	if err := query.Scan(&total).Error; err != nil {
		return report.Total{}, err
	}
	return total, nil
}

// applyScope narrows the query to the projects the caller may see.
// An empty scope matches no rows at all rather than falling open.
func applyScope(query *gorm.DB, scope report.ProjectScope) *gorm.DB {
	if scope.All {
		return query
	}
	if scope.IsEmpty() {
		return query.Where("1 = 0")
	}
	return query.Where("project_id IN ?", scope.ProjectIDs)
}
