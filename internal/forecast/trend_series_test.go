package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrendSeries_Flat(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := dailySeries(monday, repeat(20, 40)...)
	result := engine.Forecast(series, domain.StockLevels{CurrentStock: 100, MinStock: 10})
	require.Equal(t, 600, result.ForecastedDemand)

	ts := engine.TrendSeries(series, result, 30, monday)
	require.Len(t, ts.Points, 60)

	hist := ts.Points[:30]
	assert.Equal(t, series[10].Date, hist[0].Date)
	for _, p := range hist {
		assert.Equal(t, domain.PointHistorical, p.Kind)
		assert.Equal(t, 20.0, p.Value)
	}

	proj := ts.Points[30:]
	last := series[len(series)-1].Date
	assert.Equal(t, last.AddDate(0, 0, 1), proj[0].Date)
	assert.Equal(t, "Feb 10", proj[0].Label)
	for _, p := range proj {
		assert.Equal(t, domain.PointForecast, p.Kind)
		assert.InDelta(t, 20.0, p.Value, 1e-9)
	}

	assert.Equal(t, domain.ConfidenceInterval{Upper: 780, Lower: 420, Center: 600}, ts.ConfidenceInterval)
}

func TestBuildTrendSeries_Seasonal(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := dailySeries(monday, weekendPattern(28)...)
	result := engine.Forecast(series, domain.StockLevels{CurrentStock: 500})
	require.True(t, result.Seasonality.HasSeasonality)

	ts := engine.TrendSeries(series, result, 7, monday)
	proj := ts.Points[len(ts.Points)-7:]

	daily := float64(result.ForecastedDemand) / 7
	// the projection starts on a Monday
	assert.InDelta(t, roundFloat(daily*0.64, 2), proj[0].Value, 1e-9)
	assert.InDelta(t, roundFloat(daily*1.91, 2), proj[5].Value, 1e-9)
	assert.InDelta(t, roundFloat(daily*1.91, 2), proj[6].Value, 1e-9)
}

func TestBuildTrendSeries_EmptyHistory(t *testing.T) {
	result := domain.ForecastResult{ForecastedDemand: 0}
	ts := BuildTrendSeries(DefaultConfig(), nil, result, 3, monday.Add(10*time.Hour))

	require.Len(t, ts.Points, 3)
	assert.Equal(t, monday.AddDate(0, 0, 1), ts.Points[0].Date)
	assert.Zero(t, ts.ConfidenceInterval.Lower)
	assert.Zero(t, ts.ConfidenceInterval.Upper)
}
