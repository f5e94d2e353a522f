package forecast

// RecommendationCode identifies the rule that produced a recommendation
type RecommendationCode string

const (
	CodeUrgentReorder       RecommendationCode = "urgent_reorder"
	CodeReorderSoon         RecommendationCode = "reorder_soon"
	CodeStockoutRisk        RecommendationCode = "stockout_risk"
	CodeSurplusRiskHigh     RecommendationCode = "surplus_risk_high"
	CodeSurplusRiskModerate RecommendationCode = "surplus_risk_moderate"
	CodeTrendUp             RecommendationCode = "trend_up"
	CodeTrendDown           RecommendationCode = "trend_down"
	CodeStableOK            RecommendationCode = "stable_ok"
	CodeStableMonitor       RecommendationCode = "stable_monitor"
	CodeInsufficientData    RecommendationCode = "insufficient_data"
	CodeCollectMoreData     RecommendationCode = "insufficient_data_collect"
	CodeManualReview        RecommendationCode = "insufficient_data_review"
)

// MessageCatalog maps recommendation codes to printf templates. Arguments
// are positional and fixed per code:
//
//	urgent_reorder, reorder_soon: reorder qty, current stock, forecast demand
//	stockout_risk, surplus_risk_*: percentage
//	trend_up, trend_down: growth rate pct
//	insufficient_data_collect: minimum days of history
type MessageCatalog map[RecommendationCode]string

// DefaultMessages is the English catalog used by the seller dashboard
var DefaultMessages = MessageCatalog{
	CodeUrgentReorder:       "🚨 URGENT: only %[2]d units left against a forecast of %[3]d. Reorder %[1]d units immediately.",
	CodeReorderSoon:         "⚠️ Stock of %[2]d units will not cover the forecast of %[3]d. Plan a reorder of %[1]d units soon.",
	CodeStockoutRisk:        "📉 High stockout risk (%.0f%%). Raise safety stock or shorten supplier lead time.",
	CodeSurplusRiskHigh:     "📦 High surplus risk (%.0f%%). Consider promotions or pausing replenishment.",
	CodeSurplusRiskModerate: "📦 Moderate surplus risk (%.0f%%). Watch sell-through before the next order.",
	CodeTrendUp:             "📈 Demand is growing (+%.1f%%). Consider raising stock targets.",
	CodeTrendDown:           "📉 Demand is declining (%.1f%%). Reduce order quantities to avoid overstock.",
	CodeStableOK:            "✅ Stock levels look healthy for the forecast period.",
	CodeStableMonitor:       "📊 Keep monitoring daily sales for changes in demand.",
	CodeInsufficientData:    "ℹ️ Not enough sales history for a reliable forecast.",
	CodeCollectMoreData:     "📝 Collect at least %d days of sales data to enable forecasting.",
	CodeManualReview:        "🔍 Review this product's stock manually until more data is available.",
}

func (c MessageCatalog) template(code RecommendationCode) string {
	if t, ok := c[code]; ok {
		return t
	}
	return DefaultMessages[code]
}
