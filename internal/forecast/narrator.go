package forecast

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// Recommendation is a triggered narrative rule and its template arguments
type Recommendation struct {
	Code RecommendationCode
	Args []interface{}
}

// NarrationInput carries the numbers the narrative rules look at
type NarrationInput struct {
	CurrentStock     int
	ForecastedDemand int
	RecommendedStock int
	StockoutPct      float64
	SurplusPct       float64
	GrowthRatePct    float64
	Trend            domain.Trend
}

// Narrator turns numeric forecast outputs into ordered guidance
type Narrator struct {
	catalog MessageCatalog
	tag     language.Tag
}

// NewNarrator creates a narrator for the given locale. Unknown locales fall
// back to English and a nil catalog to DefaultMessages.
func NewNarrator(locale string, catalog MessageCatalog) *Narrator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if catalog == nil {
		catalog = DefaultMessages
	}
	return &Narrator{catalog: catalog, tag: tag}
}

// Evaluate runs the rules in order. Reorder urgency comes first, then
// stockout risk, surplus risk and finally the trend advisory.
func (n *Narrator) Evaluate(in NarrationInput) []Recommendation {
	var recs []Recommendation

	stock := float64(in.CurrentStock)
	demand := float64(in.ForecastedDemand)
	reorderQty := in.RecommendedStock - in.CurrentStock
	if reorderQty < 0 {
		reorderQty = 0
	}

	switch {
	case stock < 0.5*demand:
		recs = append(recs, Recommendation{Code: CodeUrgentReorder, Args: []interface{}{reorderQty, in.CurrentStock, in.ForecastedDemand}})
	case stock < demand:
		recs = append(recs, Recommendation{Code: CodeReorderSoon, Args: []interface{}{reorderQty, in.CurrentStock, in.ForecastedDemand}})
	}

	if in.StockoutPct > 50 {
		recs = append(recs, Recommendation{Code: CodeStockoutRisk, Args: []interface{}{in.StockoutPct}})
	}

	switch {
	case in.SurplusPct > 50:
		recs = append(recs, Recommendation{Code: CodeSurplusRiskHigh, Args: []interface{}{in.SurplusPct}})
	case in.SurplusPct > 25:
		recs = append(recs, Recommendation{Code: CodeSurplusRiskModerate, Args: []interface{}{in.SurplusPct}})
	}

	switch in.Trend {
	case domain.TrendUp:
		recs = append(recs, Recommendation{Code: CodeTrendUp, Args: []interface{}{in.GrowthRatePct}})
	case domain.TrendDown:
		recs = append(recs, Recommendation{Code: CodeTrendDown, Args: []interface{}{in.GrowthRatePct}})
	}

	if len(recs) == 0 {
		recs = append(recs,
			Recommendation{Code: CodeStableOK},
			Recommendation{Code: CodeStableMonitor},
		)
	}
	return recs
}

// InsufficientData returns the fixed guidance used when the history is too
// short to forecast.
func (n *Narrator) InsufficientData(minDays int) []Recommendation {
	return []Recommendation{
		{Code: CodeInsufficientData},
		{Code: CodeCollectMoreData, Args: []interface{}{minDays}},
		{Code: CodeManualReview},
	}
}

// Render formats recommendations with the narrator's locale and returns the
// messages alongside their codes.
func (n *Narrator) Render(recs []Recommendation) ([]string, []string) {
	p := message.NewPrinter(n.tag)
	messages := make([]string, 0, len(recs))
	codes := make([]string, 0, len(recs))
	for _, r := range recs {
		messages = append(messages, p.Sprintf(n.catalog.template(r.Code), r.Args...))
		codes = append(codes, string(r.Code))
	}
	return messages, codes
}
