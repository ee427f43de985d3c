package analytics

import (
	"time"

	"github.com/groundplan/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// trailingMonths is the fixed lookback of the trend report
const trailingMonths = 4

// TrendReport projects near-term spending from the trailing monthly sums
type TrendReport struct {
	Series            []MonthPoint    `json:"series"`
	QuarterlyAverage  decimal.Decimal `json:"quarterly_average"`
	NextMonthForecast decimal.Decimal `json:"next_month_forecast"`
	GrowthPercent     decimal.Decimal `json:"growth_percent"`
	Trend             Trend           `json:"trend"`
}

// TrendWindow returns the trailing window the trend report reads, from
// the first day of the month three months before end through end.
func TrendWindow(end time.Time) (time.Time, time.Time) {
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	start = start.AddDate(0, -(trailingMonths - 1), 0)
	return start, end
}

// BuildTrendReport derives the trend figures from the trailing monthly
// rows. The quarterly average is the mean of up to the last three sums
// and the forecast the mean of up to the last two. Unlike the raw
// percentage-change calculator, a non-finite growth collapses to zero
// here so the projection stays numeric.
func BuildTrendReport(rows []report.MonthlyTotal) TrendReport {
	sums := make([]decimal.Decimal, 0, len(rows))
	for _, r := range rows {
		sums = append(sums, r.Total)
	}

	growth := decimal.Zero
	if len(sums) >= 2 {
		growth = ChangePercent(sums[len(sums)-2], sums[len(sums)-1]).OrZero()
	}

	return TrendReport{
		Series:            MonthlySeries(rows),
		QuarterlyAverage:  meanOfLast(sums, 3),
		NextMonthForecast: meanOfLast(sums, 2),
		GrowthPercent:     growth,
		Trend:             ClassifyTrend(sums),
	}
}

// meanOfLast averages up to the last n values, zero when there are none
func meanOfLast(sums []decimal.Decimal, n int) decimal.Decimal {
	if len(sums) > n {
		sums = sums[len(sums)-n:]
	}
	if len(sums) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s)
	}
	return total.Div(decimal.NewFromInt(int64(len(sums))))
}
