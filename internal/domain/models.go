// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesObservation is one day of sales for a single product.
type SalesObservation struct {
	Date      time.Time       `json:"date" db:"sale_date"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// ProductKey identifies the series a forecast is computed for
type ProductKey struct {
	SellerID  string `json:"seller_id" db:"seller_id"`
	ProductID string `json:"product_id" db:"product_id"`
}

func (k ProductKey) String() string {
	return k.SellerID + "/" + k.ProductID
}

// StockLevels are the inventory scalars a forecast is evaluated against
type StockLevels struct {
	CurrentStock int `json:"current_stock" db:"current_stock"`
	MinStock     int `json:"min_stock" db:"min_stock"`
}

// HistoricalAnalysis summarizes the raw sales series
type HistoricalAnalysis struct {
	DataPoints    int             `json:"data_points"`
	TotalSales    int             `json:"total_sales"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AverageDaily  float64         `json:"average_daily"`
	Trend         Trend           `json:"trend"`
	VolatilityPct float64         `json:"volatility_pct"`
	GrowthRatePct float64         `json:"growth_rate_pct"`
	MinDaily      int             `json:"min_daily"`
	MaxDaily      int             `json:"max_daily"`
	StdDev        float64         `json:"std_dev"`
}

// SeasonalityProfile describes the weekly pattern of a series.
// WeeklyMultipliers is indexed by Weekday (Monday = 0).
type SeasonalityProfile struct {
	HasSeasonality    bool               `json:"has_seasonality"`
	Pattern           SeasonalityPattern `json:"pattern"`
	WeeklyMultipliers [7]float64         `json:"weekly_multipliers"`
	Strength          float64            `json:"strength"`
}

// Multiplier returns the weekday multiplier for t.
func (p SeasonalityProfile) Multiplier(t time.Time) float64 {
	return p.WeeklyMultipliers[WeekdayIndex(t)]
}

// ForecastResult is the output of a single forecast computation
type ForecastResult struct {
	ForecastedDemand       int                `json:"forecasted_demand"`
	ConfidenceScore        float64            `json:"confidence_score"`
	Trend                  Trend              `json:"trend"`
	VolatilityPct          float64            `json:"volatility_pct"`
	GrowthRatePct          float64            `json:"growth_rate_pct"`
	SurplusProbabilityPct  float64            `json:"surplus_probability_pct"`
	StockoutProbabilityPct float64            `json:"stockout_probability_pct"`
	RecommendedStock       int                `json:"recommended_stock"`
	Recommendations        []string           `json:"recommendations"`
	RecommendationCodes    []string           `json:"recommendation_codes"`
	HistoricalAnalysis     HistoricalAnalysis `json:"historical_analysis"`
	Seasonality            SeasonalityProfile `json:"seasonality"`
	TrendMultiplier        float64            `json:"trend_multiplier"`
	DataPoints             int                `json:"data_points"`
}

// ForecastRecord is a ForecastResult positioned in time for one product.
// Callers persist it keyed by (SellerID, ProductID, ForecastDate).
type ForecastRecord struct {
	ID            string         `json:"id"`
	SellerID      string         `json:"seller_id"`
	ProductID     string         `json:"product_id"`
	ForecastDate  time.Time      `json:"forecast_date"`
	ForecastStart time.Time      `json:"forecast_start"`
	ForecastEnd   time.Time      `json:"forecast_end"`
	HorizonDays   int            `json:"horizon_days"`
	Stock         StockLevels    `json:"stock"`
	Result        ForecastResult `json:"result"`
	ActualDemand  *int           `json:"actual_demand,omitempty"`
	AccuracyPct   *float64       `json:"accuracy_pct,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// RecordActual stores the realised demand once the forecast window has
// elapsed and scores the forecast against it.
func (r *ForecastRecord) RecordActual(actual int) {
	if actual < 0 {
		actual = 0
	}
	denom := actual
	if denom < 1 {
		denom = 1
	}
	diff := float64(r.Result.ForecastedDemand - actual)
	if diff < 0 {
		diff = -diff
	}
	accuracy := 100 - diff/float64(denom)*100
	if accuracy < 0 {
		accuracy = 0
	}
	r.ActualDemand = &actual
	r.AccuracyPct = &accuracy
}

// TrendPointKind distinguishes observed points from projected ones
type TrendPointKind string

const (
	PointHistorical TrendPointKind = "historical"
	PointForecast   TrendPointKind = "forecast"
)

// TrendPoint is a single point of a demand chart series
type TrendPoint struct {
	Date  time.Time      `json:"date"`
	Value float64        `json:"value"`
	Kind  TrendPointKind `json:"kind"`
	Label string         `json:"label"`
}

// ConfidenceInterval is the band drawn around the forecast total
type ConfidenceInterval struct {
	Upper  float64 `json:"upper"`
	Lower  float64 `json:"lower"`
	Center float64 `json:"center"`
}

// TrendSeries is the historical + projected chart series
type TrendSeries struct {
	Points             []TrendPoint       `json:"points"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
}
