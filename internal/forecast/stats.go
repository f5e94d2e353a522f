package forecast

import (
	"math"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator and is 0 for fewer than two values.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func quantities(series []domain.SalesObservation) []float64 {
	out := make([]float64, len(series))
	for i, obs := range series {
		out[i] = float64(obs.Quantity)
	}
	return out
}
