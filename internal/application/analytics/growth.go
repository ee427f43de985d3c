package analytics

import (
	"github.com/shopspring/decimal"
)

// GrowthKind tags a percentage-change result
type GrowthKind string

const (
	GrowthFinite           GrowthKind = "finite"
	GrowthPositiveInfinity GrowthKind = "positive_infinity"
	GrowthNegativeInfinity GrowthKind = "negative_infinity"
)

// Growth is a percentage change between two window totals. A previous
// total of zero cannot produce a finite ratio, so the result is tagged
// instead of overloading a sentinel number.
type Growth struct {
	Kind  GrowthKind      `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// IsFinite reports whether the growth carries a finite value
func (g Growth) IsFinite() bool {
	return g.Kind == GrowthFinite
}

// OrZero returns the finite value, or zero for non-finite growth
func (g Growth) OrZero() decimal.Decimal {
	if g.Kind == GrowthFinite {
		return g.Value
	}
	return decimal.Zero
}

var hundred = decimal.NewFromInt(100)

// ChangePercent computes the percentage change from previous to current.
// change(0, 0) = 0, change(0, x>0) = +Inf, change(0, x<0) = -Inf,
// otherwise (current-previous)/previous*100.
func ChangePercent(previous, current decimal.Decimal) Growth {
	if previous.IsZero() {
		switch {
		case current.IsZero():
			return Growth{Kind: GrowthFinite, Value: decimal.Zero}
		case current.IsPositive():
			return Growth{Kind: GrowthPositiveInfinity}
		default:
			return Growth{Kind: GrowthNegativeInfinity}
		}
	}
	return Growth{
		Kind:  GrowthFinite,
		Value: current.Sub(previous).Div(previous).Mul(hundred),
	}
}
