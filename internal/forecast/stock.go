package forecast

import "math"

// safetyMultiplier scales safety stock with the stockout risk.
func safetyMultiplier(stockoutPct float64) float64 {
	switch {
	case stockoutPct > 50:
		return 1.8
	case stockoutPct > 25:
		return 1.5
	default:
		return 1.2
	}
}

// RecommendStock returns forecast demand plus safety stock, floored at
// 1.5x the minimum stock and capped at 3x the forecast. The cap wins when
// the two bounds cross.
func RecommendStock(forecastedDemand int, volatilityPct, stockoutPct float64, minStock int) int {
	demand := float64(forecastedDemand)
	safetyStock := demand * volatilityPct / 100 * safetyMultiplier(stockoutPct)

	recommended := demand + safetyStock
	recommended = math.Max(recommended, float64(minStock)*1.5)
	recommended = math.Min(recommended, demand*3)
	return int(math.Round(recommended))
}
