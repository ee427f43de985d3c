package analytics

import (
	"time"

	"github.com/groundplan/backend/internal/domain/shared"
)

// DateLayout is the wire format for report period bounds
const DateLayout = "2006-01-02"

// defaultDashboardDays is the dashboard window length when the caller
// gives no explicit bounds.
const defaultDashboardDays = 30

// Window is a resolved reporting period. The previous window has the
// same length and ends the day before Start.
type Window struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PrevStart time.Time `json:"prev_start"`
	PrevEnd   time.Time `json:"prev_end"`
}

// Days returns the inclusive length of the window in days
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// ResolveWindow parses the period bounds and derives the previous window.
// Both bounds are required; start after end or an unparseable bound is
// an INVALID_RANGE error.
func ResolveWindow(startDate, endDate string) (Window, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return Window{}, shared.NewDomainError("INVALID_RANGE", "Start date must be an ISO date (YYYY-MM-DD)")
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return Window{}, shared.NewDomainError("INVALID_RANGE", "End date must be an ISO date (YYYY-MM-DD)")
	}
	if start.After(end) {
		return Window{}, shared.NewDomainError("INVALID_RANGE", "Start date cannot be after end date")
	}
	return newWindow(start, end), nil
}

// ResolveWindowOrDefault resolves explicit bounds when both are present,
// and otherwise falls back to the trailing default window ending today.
// Dashboard consumers use this; report consumers require explicit bounds.
func ResolveWindowOrDefault(startDate, endDate string, now time.Time) (Window, error) {
	if startDate == "" && endDate == "" {
		// inclusive bounds, so the offset is one less than the length
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start := end.AddDate(0, 0, -(defaultDashboardDays - 1))
		return newWindow(start, end), nil
	}
	return ResolveWindow(startDate, endDate)
}

func newWindow(start, end time.Time) Window {
	days := int(end.Sub(start).Hours() / 24)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -days)
	return Window{
		Start:     start,
		End:       end,
		PrevStart: prevStart,
		PrevEnd:   prevEnd,
	}
}
