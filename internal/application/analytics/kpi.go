package analytics

import (
	"github.com/groundplan/backend/internal/domain/expense"
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Trend classifies the direction of the most recent monthly sums
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendStable   Trend = "stable"
	TrendDecrease Trend = "decrease"
)

// ClassifyTrend looks at the last three monthly sums. A strictly
// monotonic three-in-a-row is an increase or decrease; anything else,
// including fewer than three points, is stable.
func ClassifyTrend(sums []decimal.Decimal) Trend {
	if len(sums) > 3 {
		sums = sums[len(sums)-3:]
	}
	if len(sums) < 3 {
		return TrendStable
	}
	increasing, decreasing := true, true
	for i := 1; i < len(sums); i++ {
		if sums[i].LessThanOrEqual(sums[i-1]) {
			increasing = false
		}
		if sums[i].GreaterThanOrEqual(sums[i-1]) {
			decreasing = false
		}
	}
	switch {
	case increasing:
		return TrendIncrease
	case decreasing:
		return TrendDecrease
	default:
		return TrendStable
	}
}

// CategoryPoint is one category of the breakdown
type CategoryPoint struct {
	Category expense.Category `json:"category"`
	Total    decimal.Decimal  `json:"total"`
	Count    int64            `json:"count"`
}

// KPIs are the headline figures of the summary report
type KPIs struct {
	Total           decimal.Decimal `json:"total"`
	MonthlyAverage  decimal.Decimal `json:"monthly_average"`
	PeakMonth       *MonthPoint     `json:"peak_month"`
	PeakCategory    *CategoryPoint  `json:"peak_category"`
	LastMonthGrowth *Growth         `json:"last_month_growth"`
	Trend           Trend           `json:"trend"`
}

// ComposeKPIs derives the headline figures from the grouped rows. The
// category total is authoritative; a disagreement with the monthly total
// is logged and tolerated since the two aggregations may observe
// different snapshots under concurrent writes.
func ComposeKPIs(logger *zap.Logger, monthly []report.MonthlyTotal, categories []report.CategoryTotal) KPIs {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Total)
	}
	monthlyTotal := sumMonthly(monthly)
	if !total.Equal(monthlyTotal) {
		logger.Warn("grouped expense totals disagree",
			zap.String("category_total", total.String()),
			zap.String("monthly_total", monthlyTotal.String()),
		)
	}

	kpis := KPIs{
		Total: total,
		Trend: TrendStable,
	}

	if len(monthly) > 0 {
		kpis.MonthlyAverage = total.Div(decimal.NewFromInt(int64(len(monthly))))
	}

	sums := make([]decimal.Decimal, 0, len(monthly))
	for _, m := range monthly {
		sums = append(sums, m.Total)
		if m.Total.IsPositive() && (kpis.PeakMonth == nil || m.Total.GreaterThan(kpis.PeakMonth.Total)) {
			point := MonthPoint{
				Year:  m.Year,
				Month: m.Month,
				Label: MonthLabel(m.Month),
				Total: m.Total,
				Count: m.Count,
			}
			kpis.PeakMonth = &point
		}
	}

	for _, c := range categories {
		if c.Total.IsPositive() && (kpis.PeakCategory == nil || c.Total.GreaterThan(kpis.PeakCategory.Total)) {
			point := CategoryPoint{Category: c.Category, Total: c.Total, Count: c.Count}
			kpis.PeakCategory = &point
		}
	}

	if len(monthly) >= 2 {
		g := ChangePercent(monthly[len(monthly)-2].Total, monthly[len(monthly)-1].Total)
		kpis.LastMonthGrowth = &g
	}

	kpis.Trend = ClassifyTrend(sums)

	return kpis
}
