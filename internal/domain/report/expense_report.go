package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/shopspring/decimal"
)

// ProjectScope restricts report queries to a set of projects.
// The zero value matches nothing; use the constructors.
type ProjectScope struct {
	All        bool        `json:"all"`
	MatchNone  bool        `json:"match_none"`
	ProjectIDs []uuid.UUID `json:"project_ids,omitempty"`
}

// ScopeAll returns a scope matching every project of the tenant
func ScopeAll() ProjectScope {
	return ProjectScope{All: true}
}

// ScopeNone returns a scope that matches no rows at all
func ScopeNone() ProjectScope {
	return ProjectScope{MatchNone: true}
}

// ScopeProjects returns a scope restricted to the given projects
func ScopeProjects(ids ...uuid.UUID) ProjectScope {
	if len(ids) == 0 {
		return ScopeNone()
	}
	return ProjectScope{ProjectIDs: ids}
}

// IsEmpty reports whether the scope can never match a row
func (s ProjectScope) IsEmpty() bool {
	return s.MatchNone || (!s.All && len(s.ProjectIDs) == 0)
}

// MonthlyTotal is one grouped row of the monthly expense aggregation
type MonthlyTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// CategoryTotal is one grouped row of the per-category aggregation
type CategoryTotal struct {
	Category expense.Category `json:"category"`
	Total    decimal.Decimal  `json:"total"`
	Count    int64            `json:"count"`
}

// Total is a single aggregate over a filtered window
type Total struct {
	Sum   decimal.Decimal `json:"sum"`
	Count int64           `json:"count"`
}

// Query selects expenses by incurred date for grouped aggregations
type Query struct {
	TenantID     uuid.UUID
	Scope        ProjectScope
	From         time.Time
	To           time.Time
	ApprovedOnly bool
}

// TotalQuery selects expenses for a single-figure aggregate. Incurred and
// due windows are independent; nil bounds leave the dimension unconstrained.
type TotalQuery struct {
	TenantID       uuid.UUID
	Scope          ProjectScope
	IncurredFrom   *time.Time
	IncurredTo     *time.Time
	DueFrom        *time.Time
	DueTo          *time.Time
	Status         *expense.Status
	ApprovalStatus *expense.ApprovalStatus
}

// ExpenseReportRepository defines the grouped aggregation queries the
// analytics engine reads from. Groups with no matching rows are omitted.
type ExpenseReportRepository interface {
	// MonthlyTotals returns per-month sums and counts ordered chronologically
	MonthlyTotals(ctx context.Context, q Query) ([]MonthlyTotal, error)

	// CategoryTotals returns per-category sums and counts
	CategoryTotals(ctx context.Context, q Query) ([]CategoryTotal, error)

	// WindowTotal returns a single sum/count over the filtered window
	WindowTotal(ctx context.Context, q TotalQuery) (Total, error)
}
