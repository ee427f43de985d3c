package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/groundplan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportService orchestrates the expense analytics reads. All entry
// points validate scope and period before touching the repository, so a
// rejected request never produces a partial result.
type ReportService struct {
	reports report.ExpenseReportRepository
	cache   Cache
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService creates a new report service. cache may be nil, in
// which case every read goes straight to the repository.
func NewReportService(reports report.ExpenseReportRepository, cache Cache, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// StatsRequest asks for dashboard stats. Bounds are optional; without
// them the trailing default window ending today is used.
type StatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	ProjectID string `form:"project_id"`
}

// SummaryRequest asks for the summary report over an explicit period
type SummaryRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
	ProjectID string `form:"project_id"`
}

// TrendRequest asks for the trend report ending at an explicit date
type TrendRequest struct {
	EndDate   string `form:"end_date" binding:"required"`
	ProjectID string `form:"project_id"`
}

// ComparisonRequest asks for a side-by-side of two windows. The second
// window defaults to the derived previous window when not given.
type ComparisonRequest struct {
	StartDate     string `form:"start_date" binding:"required"`
	EndDate       string `form:"end_date" binding:"required"`
	PrevStartDate string `form:"prev_start_date"`
	PrevEndDate   string `form:"prev_end_date"`
	ProjectID     string `form:"project_id"`
}

// SummaryReport is the report page payload: headline figures plus the
// category and monthly breakdowns of approved spending.
type SummaryReport struct {
	Window     Window          `json:"window"`
	KPIs       KPIs            `json:"kpis"`
	Categories []CategoryPoint `json:"categories"`
	Monthly    []MonthPoint    `json:"monthly"`
}

// DashboardStats resolves the caller's scope and window and returns the
// dashboard figures.
func (s *ReportService) DashboardStats(ctx context.Context, caller Caller, req StatsRequest) (*DashboardStats, error) {
	scope, err := ResolveScope(caller, req.ProjectID)
	if err != nil {
		return nil, err
	}
	w, err := ResolveWindowOrDefault(req.StartDate, req.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	key := s.cacheKey("dashboard", caller.TenantID.String(), scopeKey(scope), w.Start, w.End)
	var stats DashboardStats
	err = s.fetch(ctx, key, &stats, func(ctx context.Context) (interface{}, error) {
		in, err := s.loadDashboardInputs(ctx, caller, scope, w)
		if err != nil {
			return nil, err
		}
		return ComposeDashboardStats(w, *in), nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SummaryReport resolves scope and period and composes the KPI report
// over approved spending.
func (s *ReportService) SummaryReport(ctx context.Context, caller Caller, req SummaryRequest) (*SummaryReport, error) {
	scope, err := ResolveScope(caller, req.ProjectID)
	if err != nil {
		return nil, err
	}
	w, err := ResolveWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	q := report.Query{
		TenantID:     caller.TenantID,
		Scope:        scope,
		From:         w.Start,
		To:           w.End,
		ApprovedOnly: true,
	}

	key := s.cacheKey("summary", caller.TenantID.String(), scopeKey(scope), w.Start, w.End)
	var summary SummaryReport
	err = s.fetch(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		monthly, err := s.reports.MonthlyTotals(ctx, q)
		if err != nil {
			return nil, err
		}
		categories, err := s.reports.CategoryTotals(ctx, q)
		if err != nil {
			return nil, err
		}
		points := make([]CategoryPoint, 0, len(categories))
		for _, c := range categories {
			points = append(points, CategoryPoint{Category: c.Category, Total: c.Total, Count: c.Count})
		}
		return SummaryReport{
			Window:     w,
			KPIs:       ComposeKPIs(s.logger, monthly, categories),
			Categories: points,
			Monthly:    MonthlySeries(monthly),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// TrendReport resolves scope and the trailing window and projects
// near-term spending.
func (s *ReportService) TrendReport(ctx context.Context, caller Caller, req TrendRequest) (*TrendReport, error) {
	scope, err := ResolveScope(caller, req.ProjectID)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RANGE", "End date must be an ISO date (YYYY-MM-DD)")
	}
	from, to := TrendWindow(end)

	q := report.Query{
		TenantID:     caller.TenantID,
		Scope:        scope,
		From:         from,
		To:           to,
		ApprovedOnly: true,
	}

	key := s.cacheKey("trend", caller.TenantID.String(), scopeKey(scope), from, to)
	var trend TrendReport
	err = s.fetch(ctx, key, &trend, func(ctx context.Context) (interface{}, error) {
		monthly, err := s.reports.MonthlyTotals(ctx, q)
		if err != nil {
			return nil, err
		}
		return BuildTrendReport(monthly), nil
	})
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

// ComparisonReport resolves both windows independently and pairs their
// monthly series.
func (s *ReportService) ComparisonReport(ctx context.Context, caller Caller, req ComparisonRequest) (*ComparisonReport, error) {
	scope, err := ResolveScope(caller, req.ProjectID)
	if err != nil {
		return nil, err
	}
	w, err := ResolveWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	prevStart, prevEnd := w.PrevStart, w.PrevEnd
	if req.PrevStartDate != "" || req.PrevEndDate != "" {
		pw, err := ResolveWindow(req.PrevStartDate, req.PrevEndDate)
		if err != nil {
			return nil, err
		}
		prevStart, prevEnd = pw.Start, pw.End
	}

	currentQ := report.Query{
		TenantID:     caller.TenantID,
		Scope:        scope,
		From:         w.Start,
		To:           w.End,
		ApprovedOnly: true,
	}
	previousQ := currentQ
	previousQ.From, previousQ.To = prevStart, prevEnd

	key := s.cacheKey("comparison", caller.TenantID.String(), scopeKey(scope), w.Start, w.End) +
		fmt.Sprintf(":%s:%s", prevStart.Format(DateLayout), prevEnd.Format(DateLayout))
	var cmp ComparisonReport
	err = s.fetch(ctx, key, &cmp, func(ctx context.Context) (interface{}, error) {
		current, err := s.reports.MonthlyTotals(ctx, currentQ)
		if err != nil {
			return nil, err
		}
		previous, err := s.reports.MonthlyTotals(ctx, previousQ)
		if err != nil {
			return nil, err
		}
		return BuildComparison(current, previous), nil
	})
	if err != nil {
		return nil, err
	}
	return &cmp, nil
}

func (s *ReportService) loadDashboardInputs(ctx context.Context, caller Caller, scope report.ProjectScope, w Window) (*DashboardInputs, error) {
	approved := expense.ApprovalApproved
	pending := expense.ApprovalPending
	statusDue := expense.StatusDue
	statusPaid := expense.StatusPaid

	base := report.TotalQuery{TenantID: caller.TenantID, Scope: scope}

	incurred := base
	incurred.IncurredFrom, incurred.IncurredTo = &w.Start, &w.End

	approvedQ := incurred
	approvedQ.ApprovalStatus = &approved

	pendingQ := incurred
	pendingQ.ApprovalStatus = &pending

	dueQ := base
	dueQ.ApprovalStatus = &approved
	dueQ.Status = &statusDue
	dueQ.DueFrom, dueQ.DueTo = &w.Start, &w.End

	paidQ := base
	paidQ.ApprovalStatus = &approved
	paidQ.Status = &statusPaid
	paidQ.DueFrom, paidQ.DueTo = &w.Start, &w.End

	today := s.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, upcomingDays)
	upcomingQ := base
	upcomingQ.ApprovalStatus = &approved
	upcomingQ.Status = &statusDue
	upcomingQ.DueFrom, upcomingQ.DueTo = &today, &horizon

	prevTotalQ := base
	prevTotalQ.ApprovalStatus = &approved
	prevTotalQ.IncurredFrom, prevTotalQ.IncurredTo = &w.PrevStart, &w.PrevEnd

	prevDueQ := base
	prevDueQ.ApprovalStatus = &approved
	prevDueQ.Status = &statusDue
	prevDueQ.DueFrom, prevDueQ.DueTo = &w.PrevStart, &w.PrevEnd

	prevPaidQ := base
	prevPaidQ.ApprovalStatus = &approved
	prevPaidQ.Status = &statusPaid
	prevPaidQ.DueFrom, prevPaidQ.DueTo = &w.PrevStart, &w.PrevEnd

	var in DashboardInputs
	var err error
	if in.TotalAll, err = s.reports.WindowTotal(ctx, incurred); err != nil {
		return nil, err
	}
	if in.Approved, err = s.reports.WindowTotal(ctx, approvedQ); err != nil {
		return nil, err
	}
	if in.PendingApproval, err = s.reports.WindowTotal(ctx, pendingQ); err != nil {
		return nil, err
	}
	if in.Due, err = s.reports.WindowTotal(ctx, dueQ); err != nil {
		return nil, err
	}
	if in.Paid, err = s.reports.WindowTotal(ctx, paidQ); err != nil {
		return nil, err
	}
	if in.Upcoming, err = s.reports.WindowTotal(ctx, upcomingQ); err != nil {
		return nil, err
	}
	if in.PrevTotal, err = s.reports.WindowTotal(ctx, prevTotalQ); err != nil {
		return nil, err
	}
	if in.PrevDue, err = s.reports.WindowTotal(ctx, prevDueQ); err != nil {
		return nil, err
	}
	if in.PrevPaid, err = s.reports.WindowTotal(ctx, prevPaidQ); err != nil {
		return nil, err
	}
	return &in, nil
}

// fetch goes through the cache when one is configured. A cache round
// trip serializes via JSON, so loaders must return JSON-safe values.
func (s *ReportService) fetch(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func (s *ReportService) cacheKey(kind, tenant, scope string, from, to time.Time) string {
	return fmt.Sprintf("reports:%s:%s:%s:%s:%s", kind, tenant, scope, from.Format(DateLayout), to.Format(DateLayout))
}

func scopeKey(scope report.ProjectScope) string {
	switch {
	case scope.All:
		return "all"
	case scope.IsEmpty():
		return "none"
	default:
		ids := make([]string, 0, len(scope.ProjectIDs))
		for _, id := range scope.ProjectIDs {
			ids = append(ids, id.String())
		}
		return strings.Join(ids, ",")
	}
}
