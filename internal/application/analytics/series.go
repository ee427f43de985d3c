package analytics

import (
	"sort"
	"time"

	"github.com/groundplan/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// MonthPoint is one labeled point of a monthly expense series
type MonthPoint struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// MonthLabel returns the three-letter abbreviation for a month number
func MonthLabel(month int) string {
	return time.Month(month).String()[:3]
}

// MonthlySeries converts grouped repository rows into a labeled series.
// Rows are assumed chronologically ordered; months with no expenses are
// absent from the series.
func MonthlySeries(rows []report.MonthlyTotal) []MonthPoint {
	series := make([]MonthPoint, 0, len(rows))
	for _, r := range rows {
		series = append(series, MonthPoint{
			Year:  r.Year,
			Month: r.Month,
			Label: MonthLabel(r.Month),
			Total: r.Total,
			Count: r.Count,
		})
	}
	return series
}

// ComparisonPoint is one month of a side-by-side series. A nil side
// means that window has no expenses in that month.
type ComparisonPoint struct {
	Year     int              `json:"year"`
	Month    int              `json:"month"`
	Label    string           `json:"label"`
	Current  *decimal.Decimal `json:"current"`
	Previous *decimal.Decimal `json:"previous"`
}

// ComparisonReport pairs two windows month by month with one overall
// variation percentage.
type ComparisonReport struct {
	Points    []ComparisonPoint `json:"points"`
	Variation Growth            `json:"variation"`
}

// BuildComparison aligns two monthly series by calendar month, keeps
// the union of months sorted chronologically across years, and computes
// the overall variation from the previous window total to the current
// one. Same-named months of different years stay distinct points.
func BuildComparison(current, previous []report.MonthlyTotal) ComparisonReport {
	type monthKey struct {
		year  int
		month int
	}
	type side struct {
		current  *decimal.Decimal
		previous *decimal.Decimal
	}
	months := make(map[monthKey]*side)
	for i := range current {
		k := monthKey{current[i].Year, current[i].Month}
		if months[k] == nil {
			months[k] = &side{}
		}
		v := current[i].Total
		months[k].current = &v
	}
	for i := range previous {
		k := monthKey{previous[i].Year, previous[i].Month}
		if months[k] == nil {
			months[k] = &side{}
		}
		v := previous[i].Total
		months[k].previous = &v
	}

	keys := make([]monthKey, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	points := make([]ComparisonPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, ComparisonPoint{
			Year:     k.year,
			Month:    k.month,
			Label:    MonthLabel(k.month),
			Current:  months[k].current,
			Previous: months[k].previous,
		})
	}

	currentTotal := sumMonthly(current)
	previousTotal := sumMonthly(previous)

	return ComparisonReport{
		Points:    points,
		Variation: ChangePercent(previousTotal, currentTotal),
	}
}

func sumMonthly(rows []report.MonthlyTotal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total
}
