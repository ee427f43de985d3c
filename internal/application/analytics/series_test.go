package analytics

import (
	"testing"

	"github.com/groundplan/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan", MonthLabel(1))
	assert.Equal(t, "Jun", MonthLabel(6))
	assert.Equal(t, "Dec", MonthLabel(12))
}

func TestMonthlySeries(t *testing.T) {
	rows := []report.MonthlyTotal{
		{Year: 2025, Month: 1, Total: decimal.NewFromInt(100), Count: 2},
		{Year: 2025, Month: 3, Total: decimal.NewFromInt(50), Count: 1},
	}

	series := MonthlySeries(rows)

	require.Len(t, series, 2)
	assert.Equal(t, "Jan", series[0].Label)
	assert.Equal(t, "Mar", series[1].Label)
	assert.True(t, series[0].Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(1), series[1].Count)
}

func TestBuildComparison(t *testing.T) {
	t.Run("union keeps months missing on one side", func(t *testing.T) {
		current := []report.MonthlyTotal{
			{Year: 2025, Month: 2, Total: decimal.NewFromInt(80), Count: 1},
		}
		previous := []report.MonthlyTotal{
			{Year: 2024, Month: 1, Total: decimal.NewFromInt(40), Count: 1},
		}

		cmp := BuildComparison(current, previous)

		require.Len(t, cmp.Points, 2)

		jan := cmp.Points[0]
		assert.Equal(t, "Jan", jan.Label)
		assert.Nil(t, jan.Current)
		require.NotNil(t, jan.Previous)
		assert.True(t, jan.Previous.Equal(decimal.NewFromInt(40)))

		feb := cmp.Points[1]
		assert.Equal(t, "Feb", feb.Label)
		require.NotNil(t, feb.Current)
		assert.True(t, feb.Current.Equal(decimal.NewFromInt(80)))
		assert.Nil(t, feb.Previous)

		assert.Equal(t, GrowthFinite, cmp.Variation.Kind)
		assert.True(t, cmp.Variation.Value.Equal(decimal.NewFromInt(100)))
	})

	t.Run("both sides present on overlapping months", func(t *testing.T) {
		current := []report.MonthlyTotal{
			{Year: 2025, Month: 1, Total: decimal.NewFromInt(120)},
			{Year: 2025, Month: 2, Total: decimal.NewFromInt(30)},
		}
		previous := []report.MonthlyTotal{
			{Year: 2025, Month: 1, Total: decimal.NewFromInt(100)},
		}

		cmp := BuildComparison(current, previous)

		require.Len(t, cmp.Points, 2)
		require.NotNil(t, cmp.Points[0].Current)
		require.NotNil(t, cmp.Points[0].Previous)
		assert.True(t, cmp.Variation.Value.Equal(decimal.NewFromInt(50)))
	})

	t.Run("sorts across a year boundary", func(t *testing.T) {
		current := []report.MonthlyTotal{
			{Year: 2024, Month: 12, Total: decimal.NewFromInt(100)},
			{Year: 2025, Month: 1, Total: decimal.NewFromInt(200)},
		}

		cmp := BuildComparison(current, nil)

		require.Len(t, cmp.Points, 2)
		assert.Equal(t, "Dec", cmp.Points[0].Label)
		assert.Equal(t, 2024, cmp.Points[0].Year)
		assert.Equal(t, "Jan", cmp.Points[1].Label)
		assert.Equal(t, 2025, cmp.Points[1].Year)
	})

	t.Run("same month of different years stays distinct", func(t *testing.T) {
		current := []report.MonthlyTotal{
			{Year: 2025, Month: 2, Total: decimal.NewFromInt(80)},
		}
		previous := []report.MonthlyTotal{
			{Year: 2024, Month: 2, Total: decimal.NewFromInt(40)},
		}

		cmp := BuildComparison(current, previous)

		require.Len(t, cmp.Points, 2)
		assert.Equal(t, 2024, cmp.Points[0].Year)
		assert.Nil(t, cmp.Points[0].Current)
		require.NotNil(t, cmp.Points[0].Previous)
		assert.Equal(t, 2025, cmp.Points[1].Year)
		require.NotNil(t, cmp.Points[1].Current)
		assert.Nil(t, cmp.Points[1].Previous)
	})

	t.Run("empty previous window yields non-finite variation", func(t *testing.T) {
		current := []report.MonthlyTotal{
			{Year: 2025, Month: 5, Total: decimal.NewFromInt(10)},
		}

		cmp := BuildComparison(current, nil)

		require.Len(t, cmp.Points, 1)
		assert.Equal(t, GrowthPositiveInfinity, cmp.Variation.Kind)
	})

	t.Run("both windows empty", func(t *testing.T) {
		cmp := BuildComparison(nil, nil)

		assert.Empty(t, cmp.Points)
		assert.Equal(t, GrowthFinite, cmp.Variation.Kind)
		assert.True(t, cmp.Variation.Value.IsZero())
	})
}
