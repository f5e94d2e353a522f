package forecast

import "math"

// RiskAssessment holds the demand band and the resulting risk percentages
type RiskAssessment struct {
	DemandStdDev float64
	UpperBound   float64
	LowerBound   float64
	SurplusPct   float64
	StockoutPct  float64
}

// AssessRisk compares current stock against a one-sigma band around the
// forecast. Both percentages are raised by half the volatility and clamped
// to [0, 100].
func AssessRisk(forecastedDemand int, volatilityPct float64, currentStock int) RiskAssessment {
	demand := float64(forecastedDemand)
	stock := float64(currentStock)

	r := RiskAssessment{DemandStdDev: demand * volatilityPct / 100}
	r.UpperBound = demand + r.DemandStdDev
	r.LowerBound = math.Max(0, demand-r.DemandStdDev)

	var surplus, stockout float64
	if stock > r.UpperBound && stock > 0 {
		surplus = math.Min(95, (stock-r.UpperBound)/stock*100)
	}
	if stock < r.LowerBound && r.LowerBound > 0 {
		stockout = math.Min(95, (r.LowerBound-stock)/r.LowerBound*100)
	}

	volatilityFactor := volatilityPct * 0.5
	r.SurplusPct = roundFloat(clamp(surplus+volatilityFactor, 0, 100), 2)
	r.StockoutPct = roundFloat(clamp(stockout+volatilityFactor, 0, 100), 2)
	return r
}
