package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

const trendLabelLayout = "Jan 02"

// BuildTrendSeries returns the last cfg.TrendPoints observations followed by
// horizonDays projected daily points. Projection starts the day after the
// last observation, or after asOf when the series is empty.
func BuildTrendSeries(cfg Config, series []domain.SalesObservation, result domain.ForecastResult, horizonDays int, asOf time.Time) domain.TrendSeries {
	cfg = cfg.withDefaults()
	if horizonDays <= 0 {
		horizonDays = cfg.ForecastDays
	}

	start := 0
	if len(series) > cfg.TrendPoints {
		start = len(series) - cfg.TrendPoints
	}
	recent := series[start:]

	points := make([]domain.TrendPoint, 0, len(recent)+horizonDays)
	for _, obs := range recent {
		points = append(points, domain.TrendPoint{
			Date:  obs.Date,
			Value: float64(obs.Quantity),
			Kind:  domain.PointHistorical,
			Label: obs.Date.Format(trendLabelLayout),
		})
	}

	last := asOf
	if len(series) > 0 {
		last = series[len(series)-1].Date
	}
	last = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location())

	daily := float64(result.ForecastedDemand) / float64(horizonDays)
	for i := 1; i <= horizonDays; i++ {
		date := last.AddDate(0, 0, i)
		value := daily
		if result.Seasonality.HasSeasonality {
			value *= result.Seasonality.Multiplier(date)
		}
		points = append(points, domain.TrendPoint{
			Date:  date,
			Value: roundFloat(value, 2),
			Kind:  domain.PointForecast,
			Label: date.Format(trendLabelLayout),
		})
	}

	demand := float64(result.ForecastedDemand)
	return domain.TrendSeries{
		Points: points,
		ConfidenceInterval: domain.ConfidenceInterval{
			Upper:  roundFloat(demand*1.3, 2),
			Lower:  roundFloat(math.Max(0, demand*0.7), 2),
			Center: demand,
		},
	}
}
