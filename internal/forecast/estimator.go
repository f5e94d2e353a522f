package forecast

import "github.com/andresuchdata/demand-forecast/internal/domain"

const (
	movingAverageWeight = 0.6
	smoothingWeight     = 0.4
)

// MovingAverage is the mean of the last window observations, or of the
// whole series when it is shorter than the window.
func MovingAverage(series []domain.SalesObservation, window int) float64 {
	n := len(series)
	if n == 0 {
		return 0
	}
	if window <= 0 || n < window {
		return mean(quantities(series))
	}
	return mean(quantities(series[n-window:]))
}

// ExponentialSmoothing seeds with the first observation and returns the
// final smoothed level rounded to 2 decimals.
func ExponentialSmoothing(series []domain.SalesObservation, alpha float64) float64 {
	if len(series) == 0 {
		return 0
	}
	smoothed := float64(series[0].Quantity)
	for _, obs := range series[1:] {
		smoothed = alpha*float64(obs.Quantity) + (1-alpha)*smoothed
	}
	return roundFloat(smoothed, 2)
}

// EstimateBaseDemand blends the moving average and the smoothed level into
// a daily demand estimate.
func EstimateBaseDemand(cfg Config, series []domain.SalesObservation) float64 {
	cfg = cfg.withDefaults()
	window := cfg.MovingAverageWindow
	if len(series) < window {
		window = len(series)
	}
	ma := MovingAverage(series, window)
	es := ExponentialSmoothing(series, cfg.SmoothingAlpha)
	return ma*movingAverageWeight + es*smoothingWeight
}
