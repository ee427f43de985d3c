package analytics

import (
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// upcomingDays is the fixed horizon of the upcoming-payments figure
const upcomingDays = 7

// DashboardFigure is one dashboard amount with its growth against the
// previous window.
type DashboardFigure struct {
	Amount decimal.Decimal `json:"amount"`
	Growth Growth          `json:"growth"`
}

// DashboardStats is the dashboard payload for one resolved window
type DashboardStats struct {
	Window          Window          `json:"window"`
	Total           DashboardFigure `json:"total"`
	Approved        decimal.Decimal `json:"approved"`
	Due             DashboardFigure `json:"due"`
	Paid            DashboardFigure `json:"paid"`
	PendingApproval decimal.Decimal `json:"pending_approval"`
	Upcoming        decimal.Decimal `json:"upcoming"`
}

// DashboardInputs are the raw window totals the stats are derived from.
// The previous-window figures are always approved-only, even though the
// current total spans every approval status.
type DashboardInputs struct {
	TotalAll        report.Total
	Approved        report.Total
	Due             report.Total
	Paid            report.Total
	PendingApproval report.Total
	Upcoming        report.Total
	PrevTotal       report.Total
	PrevDue         report.Total
	PrevPaid        report.Total
}

// ComposeDashboardStats derives the dashboard figures and their growth
// from the raw totals.
func ComposeDashboardStats(w Window, in DashboardInputs) DashboardStats {
	return DashboardStats{
		Window: w,
		Total: DashboardFigure{
			Amount: in.TotalAll.Sum,
			Growth: ChangePercent(in.PrevTotal.Sum, in.TotalAll.Sum),
		},
		Approved: in.Approved.Sum,
		Due: DashboardFigure{
			Amount: in.Due.Sum,
			Growth: ChangePercent(in.PrevDue.Sum, in.Due.Sum),
		},
		Paid: DashboardFigure{
			Amount: in.Paid.Sum,
			Growth: ChangePercent(in.PrevPaid.Sum, in.Paid.Sum),
		},
		PendingApproval: in.PendingApproval.Sum,
		Upcoming:        in.Upcoming.Sum,
	}
}
