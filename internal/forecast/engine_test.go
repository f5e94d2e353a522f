package forecast

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_FlatHistoryUnderstocked(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Forecast(dailySeries(monday, repeat(20, 10)...), domain.StockLevels{CurrentStock: 100, MinStock: 10})

	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Zero(t, result.VolatilityPct)
	assert.Equal(t, 1.0, result.TrendMultiplier)
	assert.Equal(t, 600, result.ForecastedDemand)
	assert.InDelta(t, 83.33, result.StockoutProbabilityPct, 1e-9)
	assert.Zero(t, result.SurplusProbabilityPct)
	assert.InDelta(t, 59, result.ConfidenceScore, 1e-9)
	assert.Equal(t, 600, result.RecommendedStock)
	assert.False(t, result.Seasonality.HasSeasonality)
	assert.Equal(t, domain.PatternInsufficientData, result.Seasonality.Pattern)
	assert.Equal(t, []string{"urgent_reorder", "stockout_risk"}, result.RecommendationCodes)
	assert.Len(t, result.Recommendations, 2)
	assert.Equal(t, 10, result.DataPoints)
	assert.Equal(t, 200, result.HistoricalAnalysis.TotalSales)
}

func TestEngine_EmptyHistory(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Forecast(nil, domain.StockLevels{CurrentStock: 40, MinStock: 5})

	assert.Equal(t, 20, result.ForecastedDemand)
	assert.Equal(t, 25.0, result.ConfidenceScore)
	assert.Equal(t, 48, result.RecommendedStock)
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Equal(t, 50.0, result.VolatilityPct)
	assert.Zero(t, result.StockoutProbabilityPct)
	assert.Zero(t, result.SurplusProbabilityPct)
	assert.Equal(t, []string{"insufficient_data", "insufficient_data_collect", "insufficient_data_review"}, result.RecommendationCodes)
	assert.Equal(t, domain.PatternInsufficientData, result.Seasonality.Pattern)
	assert.Equal(t, 0, result.HistoricalAnalysis.DataPoints)
}

func TestEngine_ShortHistoriesAreDegenerate(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	stock := domain.StockLevels{CurrentStock: 41, MinStock: 5}

	for _, n := range []int{0, 1, 2} {
		result := engine.Forecast(dailySeries(monday, repeat(500, n)...), stock)
		assert.Equal(t, 20, result.ForecastedDemand, "n=%d", n)
		assert.Equal(t, 49, result.RecommendedStock, "n=%d", n)
		assert.Equal(t, 25.0, result.ConfidenceScore, "n=%d", n)
		assert.Equal(t, n, result.DataPoints)
	}

	// three points is enough for the full path
	result := engine.Forecast(dailySeries(monday, 5, 5, 5), stock)
	assert.Equal(t, 150, result.ForecastedDemand)
}

func TestEngine_GrowingDemand(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := dailySeries(monday, 10, 10, 10, 10, 25, 25, 25, 25)
	result := engine.Forecast(series, domain.StockLevels{CurrentStock: 1000})

	assert.Equal(t, domain.TrendUp, result.Trend)
	assert.InDelta(t, 150, result.GrowthRatePct, 1e-9)
	assert.InDelta(t, 1.45, result.TrendMultiplier, 1e-9)

	base := EstimateBaseDemand(DefaultConfig(), series)
	assert.Equal(t, int(math.Round(base*1.45*30)), result.ForecastedDemand)
	assert.Contains(t, result.RecommendationCodes, "trend_up")
}

func TestEngine_DecliningDemand(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Forecast(dailySeries(monday, 20, 20, 10, 10), domain.StockLevels{CurrentStock: 300})

	assert.Equal(t, domain.TrendDown, result.Trend)
	assert.InDelta(t, 0.9, result.TrendMultiplier, 1e-9)
	assert.Contains(t, result.RecommendationCodes, "trend_down")
}

func TestEngine_AllZeroHistory(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Forecast(dailySeries(monday, repeat(0, 14)...), domain.StockLevels{CurrentStock: 10})

	assert.Equal(t, 1, result.ForecastedDemand)
	assert.Zero(t, result.VolatilityPct)
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Equal(t, 1, result.RecommendedStock)
}

func TestEngine_ForecastHorizon(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := dailySeries(monday, repeat(20, 10)...)

	assert.Equal(t, 140, engine.ForecastHorizon(series, domain.StockLevels{}, 7).ForecastedDemand)
	assert.Equal(t, 600, engine.ForecastHorizon(series, domain.StockLevels{}, 0).ForecastedDemand)
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := dailySeries(monday, weekendPattern(42)...)
	stock := domain.StockLevels{CurrentStock: 250, MinStock: 40}

	first := engine.Forecast(series, stock)
	second := engine.Forecast(series, stock)
	assert.Equal(t, first, second)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := dailySeries(monday, weekendPattern(35)...)
	stock := domain.StockLevels{CurrentStock: 120, MinStock: 10}
	want := engine.Forecast(series, stock)

	var wg sync.WaitGroup
	results := make([]domain.ForecastResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Forecast(series, stock)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEngine_OutputBounds(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := 3 + rng.Intn(90)
		qty := make([]int, n)
		for j := range qty {
			qty[j] = rng.Intn(60)
		}
		stock := domain.StockLevels{CurrentStock: rng.Intn(2000), MinStock: rng.Intn(40)}

		result := engine.Forecast(dailySeries(monday, qty...), stock)

		require.GreaterOrEqual(t, result.ForecastedDemand, 1)
		assert.GreaterOrEqual(t, result.ConfidenceScore, 10.0)
		assert.LessOrEqual(t, result.ConfidenceScore, 100.0)
		assert.GreaterOrEqual(t, result.SurplusProbabilityPct, 0.0)
		assert.LessOrEqual(t, result.SurplusProbabilityPct, 100.0)
		assert.GreaterOrEqual(t, result.StockoutProbabilityPct, 0.0)
		assert.LessOrEqual(t, result.StockoutProbabilityPct, 100.0)
		assert.LessOrEqual(t, result.RecommendedStock, result.ForecastedDemand*3)
		if float64(stock.MinStock)*1.5 <= float64(result.ForecastedDemand*3) {
			assert.GreaterOrEqual(t, float64(result.RecommendedStock), math.Round(float64(stock.MinStock)*1.5)-0.5)
		}
		assert.NotEmpty(t, result.Recommendations)
		assert.Len(t, result.RecommendationCodes, len(result.Recommendations))
		if n < 28 {
			assert.False(t, result.Seasonality.HasSeasonality)
		}
	}
}

func TestTrendMultiplier(t *testing.T) {
	assert.InDelta(t, 1.45, TrendMultiplier(domain.TrendUp, 150), 1e-9)
	assert.InDelta(t, 0.9, TrendMultiplier(domain.TrendDown, -50), 1e-9)
	assert.Equal(t, 1.0, TrendMultiplier(domain.TrendStable, 4))
}

func TestNewEngine_FillsDefaults(t *testing.T) {
	engine := NewEngine(Config{ForecastDays: 14})
	cfg := engine.Config()
	assert.Equal(t, 14, cfg.ForecastDays)
	assert.Equal(t, 3, cfg.MinHistoricalDays)
	assert.Equal(t, 0.3, cfg.SmoothingAlpha)
	assert.Equal(t, "en", cfg.Locale)
}
