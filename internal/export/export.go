package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

const dateLayout = "2006-01-02"

var recordHeader = []string{
	"id",
	"seller_id",
	"product_id",
	"forecast_date",
	"forecast_start",
	"forecast_end",
	"horizon_days",
	"current_stock",
	"min_stock",
	"forecasted_demand",
	"confidence_score",
	"trend",
	"trend_label",
	"volatility_pct",
	"growth_rate_pct",
	"surplus_probability_pct",
	"stockout_probability_pct",
	"recommended_stock",
	"has_seasonality",
	"data_points",
	"total_sales",
	"total_revenue",
	"recommendation_codes",
	"recommendations",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func recordRow(r domain.ForecastRecord) []string {
	res := r.Result
	return []string{
		r.ID,
		r.SellerID,
		r.ProductID,
		r.ForecastDate.Format(dateLayout),
		r.ForecastStart.Format(dateLayout),
		r.ForecastEnd.Format(dateLayout),
		strconv.Itoa(r.HorizonDays),
		strconv.Itoa(r.Stock.CurrentStock),
		strconv.Itoa(r.Stock.MinStock),
		strconv.Itoa(res.ForecastedDemand),
		formatFloat(res.ConfidenceScore),
		string(res.Trend),
		domain.TrendLabel(res.Trend),
		formatFloat(res.VolatilityPct),
		formatFloat(res.GrowthRatePct),
		formatFloat(res.SurplusProbabilityPct),
		formatFloat(res.StockoutProbabilityPct),
		strconv.Itoa(res.RecommendedStock),
		strconv.FormatBool(res.Seasonality.HasSeasonality),
		strconv.Itoa(res.DataPoints),
		strconv.Itoa(res.HistoricalAnalysis.TotalSales),
		res.HistoricalAnalysis.TotalRevenue.StringFixed(2),
		strings.Join(res.RecommendationCodes, ";"),
		strings.Join(res.Recommendations, " | "),
	}
}

// WriteRecordsCSV writes one row per forecast record.
func WriteRecordsCSV(w io.Writer, records []domain.ForecastRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(recordHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(recordRow(r)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrendCSV writes a trend series as date,value,kind,label rows.
func WriteTrendCSV(w io.Writer, series domain.TrendSeries) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "value", "kind", "label"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range series.Points {
		row := []string{p.Date.Format(dateLayout), formatFloat(p.Value), string(p.Kind), p.Label}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write point %s: %w", p.Label, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
