package forecast

import (
	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// AnalyzeHistory computes totals, trend and volatility statistics for a
// series. An empty series yields a zeroed, STABLE analysis.
func AnalyzeHistory(cfg Config, series []domain.SalesObservation) domain.HistoricalAnalysis {
	cfg = cfg.withDefaults()
	analysis := domain.HistoricalAnalysis{
		Trend:        domain.TrendStable,
		TotalRevenue: decimal.Zero,
	}
	n := len(series)
	if n == 0 {
		return analysis
	}

	values := quantities(series)
	analysis.DataPoints = n
	analysis.MinDaily = series[0].Quantity
	analysis.MaxDaily = series[0].Quantity
	for _, obs := range series {
		analysis.TotalSales += obs.Quantity
		analysis.TotalRevenue = analysis.TotalRevenue.Add(obs.UnitPrice.Mul(decimal.NewFromInt(int64(obs.Quantity))))
		if obs.Quantity < analysis.MinDaily {
			analysis.MinDaily = obs.Quantity
		}
		if obs.Quantity > analysis.MaxDaily {
			analysis.MaxDaily = obs.Quantity
		}
	}
	analysis.AverageDaily = float64(analysis.TotalSales) / float64(n)
	analysis.StdDev = sampleStdDev(values)

	// Trend: compare the mean of the first half against the second half.
	mid := n / 2
	firstAvg := analysis.AverageDaily
	if mid > 0 {
		firstAvg = mean(values[:mid])
	}
	secondAvg := analysis.AverageDaily
	if mid < n {
		secondAvg = mean(values[mid:])
	}
	if firstAvg != 0 {
		analysis.GrowthRatePct = (secondAvg - firstAvg) / firstAvg * 100
	}

	switch {
	case analysis.GrowthRatePct > cfg.TrendThresholdPct:
		analysis.Trend = domain.TrendUp
	case analysis.GrowthRatePct < -cfg.TrendThresholdPct:
		analysis.Trend = domain.TrendDown
	}

	if analysis.AverageDaily != 0 {
		analysis.VolatilityPct = analysis.StdDev / analysis.AverageDaily * 100
	}

	return analysis
}
