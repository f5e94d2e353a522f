package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

func sampleRecord() domain.ForecastRecord {
	day := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return domain.ForecastRecord{
		ID:            "rec-1",
		SellerID:      "s-1",
		ProductID:     "p-1",
		ForecastDate:  day,
		ForecastStart: day.AddDate(0, 0, 1),
		ForecastEnd:   day.AddDate(0, 0, 30),
		HorizonDays:   30,
		Stock:         domain.StockLevels{CurrentStock: 100, MinStock: 10},
		Result: domain.ForecastResult{
			ForecastedDemand:       600,
			ConfidenceScore:        59,
			Trend:                  domain.TrendStable,
			StockoutProbabilityPct: 83.33,
			RecommendedStock:       600,
			Recommendations:        []string{"Reorder now, 500 units", "High stockout risk"},
			RecommendationCodes:    []string{"urgent_reorder", "stockout_risk"},
			HistoricalAnalysis:     domain.HistoricalAnalysis{TotalSales: 200, TotalRevenue: decimal.NewFromInt(400)},
			DataPoints:             10,
		},
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, []domain.ForecastRecord{sampleRecord()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[1], len(recordHeader))

	row := map[string]string{}
	for i, col := range rows[0] {
		row[col] = rows[1][i]
	}
	assert.Equal(t, "2024-04-01", row["forecast_start"])
	assert.Equal(t, "2024-04-30", row["forecast_end"])
	assert.Equal(t, "600", row["forecasted_demand"])
	assert.Equal(t, "83.33", row["stockout_probability_pct"])
	assert.Equal(t, "STABLE", row["trend"])
	assert.Equal(t, "Stable", row["trend_label"])
	assert.Equal(t, "400.00", row["total_revenue"])
	assert.Equal(t, "urgent_reorder;stockout_risk", row["recommendation_codes"])
	assert.Equal(t, "Reorder now, 500 units | High stockout risk", row["recommendations"])
}

func TestWriteTrendCSV(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := domain.TrendSeries{Points: []domain.TrendPoint{
		{Date: day, Value: 20, Kind: domain.PointHistorical, Label: "Jan 02"},
		{Date: day.AddDate(0, 0, 1), Value: 12.8, Kind: domain.PointForecast, Label: "Jan 03"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTrendCSV(&buf, series))
	assert.Equal(t, "date,value,kind,label\n2024-01-02,20.00,historical,Jan 02\n2024-01-03,12.80,forecast,Jan 03\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecord()))

	var decoded domain.ForecastRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "rec-1", decoded.ID)
	assert.Equal(t, 600, decoded.Result.ForecastedDemand)
	assert.Contains(t, buf.String(), "\n  \"seller_id\": \"s-1\"")
}
