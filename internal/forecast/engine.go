package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	upTrendCoefficient   = 0.3
	downTrendCoefficient = 0.2

	degenerateConfidence = 25.0
	degenerateVolatility = 50.0
	degenerateStockRatio = 1.2
)

// Engine computes demand forecasts. It holds only its configuration and is
// safe for concurrent use.
type Engine struct {
	cfg      Config
	narrator *Narrator
}

// NewEngine creates an engine rendering recommendations with DefaultMessages.
func NewEngine(cfg Config) *Engine {
	return NewEngineWithMessages(cfg, nil)
}

// NewEngineWithMessages creates an engine with a custom message catalog.
func NewEngineWithMessages(cfg Config, catalog MessageCatalog) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:      cfg,
		narrator: NewNarrator(cfg.Locale, catalog),
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Forecast runs the engine with the configured default horizon.
func (e *Engine) Forecast(series []domain.SalesObservation, stock domain.StockLevels) domain.ForecastResult {
	return e.ForecastHorizon(series, stock, e.cfg.ForecastDays)
}

// ForecastHorizon projects demand over horizonDays and derives stock
// guidance. The series must already have passed ValidateSeries.
func (e *Engine) ForecastHorizon(series []domain.SalesObservation, stock domain.StockLevels, horizonDays int) domain.ForecastResult {
	if horizonDays <= 0 {
		horizonDays = e.cfg.ForecastDays
	}
	if len(series) < e.cfg.MinHistoricalDays {
		return e.degenerate(series, stock)
	}

	historical := AnalyzeHistory(e.cfg, series)
	seasonality := DetectSeasonality(e.cfg, series)
	base := EstimateBaseDemand(e.cfg, series)

	multiplier := TrendMultiplier(historical.Trend, historical.GrowthRatePct)
	demand := int(math.Max(1, math.Round(base*multiplier*float64(horizonDays))))

	confidence := ScoreConfidence(len(series), historical.VolatilityPct, historical.Trend)
	risk := AssessRisk(demand, historical.VolatilityPct, stock.CurrentStock)
	recommended := RecommendStock(demand, historical.VolatilityPct, risk.StockoutPct, stock.MinStock)

	recs := e.narrator.Evaluate(NarrationInput{
		CurrentStock:     stock.CurrentStock,
		ForecastedDemand: demand,
		RecommendedStock: recommended,
		StockoutPct:      risk.StockoutPct,
		SurplusPct:       risk.SurplusPct,
		GrowthRatePct:    historical.GrowthRatePct,
		Trend:            historical.Trend,
	})
	messages, codes := e.narrator.Render(recs)

	log.Debug().
		Int("points", len(series)).
		Float64("base", base).
		Float64("trend_multiplier", multiplier).
		Int("forecasted_demand", demand).
		Msg("forecast computed")

	return domain.ForecastResult{
		ForecastedDemand:       demand,
		ConfidenceScore:        confidence,
		Trend:                  historical.Trend,
		VolatilityPct:          roundFloat(historical.VolatilityPct, 2),
		GrowthRatePct:          roundFloat(historical.GrowthRatePct, 2),
		SurplusProbabilityPct:  risk.SurplusPct,
		StockoutProbabilityPct: risk.StockoutPct,
		RecommendedStock:       recommended,
		Recommendations:        messages,
		RecommendationCodes:    codes,
		HistoricalAnalysis:     historical,
		Seasonality:            seasonality,
		TrendMultiplier:        multiplier,
		DataPoints:             len(series),
	}
}

// TrendMultiplier scales the base estimate by the detected growth. Declines
// are damped with a smaller coefficient than growth.
func TrendMultiplier(trend domain.Trend, growthRatePct float64) float64 {
	switch trend {
	case domain.TrendUp:
		return 1 + growthRatePct/100*upTrendCoefficient
	case domain.TrendDown:
		return 1 + growthRatePct/100*downTrendCoefficient
	default:
		return 1.0
	}
}

// TrendSeries builds the chart series for a computed result.
func (e *Engine) TrendSeries(series []domain.SalesObservation, result domain.ForecastResult, horizonDays int, asOf time.Time) domain.TrendSeries {
	return BuildTrendSeries(e.cfg, series, result, horizonDays, asOf)
}

// degenerate is returned when the history is too short to analyse.
func (e *Engine) degenerate(series []domain.SalesObservation, stock domain.StockLevels) domain.ForecastResult {
	messages, codes := e.narrator.Render(e.narrator.InsufficientData(e.cfg.MinHistoricalDays))

	return domain.ForecastResult{
		ForecastedDemand:       stock.CurrentStock / 2,
		ConfidenceScore:        degenerateConfidence,
		Trend:                  domain.TrendStable,
		VolatilityPct:          degenerateVolatility,
		GrowthRatePct:          0,
		SurplusProbabilityPct:  0,
		StockoutProbabilityPct: 0,
		RecommendedStock:       int(math.Round(float64(stock.CurrentStock) * degenerateStockRatio)),
		Recommendations:        messages,
		RecommendationCodes:    codes,
		HistoricalAnalysis:     AnalyzeHistory(e.cfg, nil),
		Seasonality: domain.SeasonalityProfile{
			Pattern:           domain.PatternInsufficientData,
			WeeklyMultipliers: flatMultipliers(),
		},
		TrendMultiplier: 1.0,
		DataPoints:      len(series),
	}
}
