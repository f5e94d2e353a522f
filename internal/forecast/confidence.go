package forecast

import (
	"math"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// ScoreConfidence weighs history length, volatility and trend stability
// into a score clamped to [10, 100].
func ScoreConfidence(dataPoints int, volatilityPct float64, trend domain.Trend) float64 {
	dataScore := math.Min(95, float64(dataPoints)*2)
	volatilityScore := math.Max(0, 100-volatilityPct*2)
	trendScore := 85.0
	if trend == domain.TrendStable {
		trendScore = 95
	}

	confidence := 0.5*dataScore + 0.3*volatilityScore + 0.2*trendScore
	return roundFloat(clamp(confidence, 10, 100), 2)
}
