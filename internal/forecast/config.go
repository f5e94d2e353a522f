package forecast

// Config holds the tunables of the forecasting engine. It is passed
// explicitly to every component; the package keeps no global state.
type Config struct {
	MinHistoricalDays    int     // fewer observations than this yields the degenerate forecast
	ForecastDays         int     // default horizon in days
	MovingAverageWindow  int     // trailing window of the moving average
	SmoothingAlpha       float64 // exponential smoothing factor
	SeasonalityWindow    int     // period of the seasonal cycle (days)
	SeasonalityMinDays   int     // observations required before seasonality is inferred
	SeasonalityThreshold float64 // multiplier std dev above which a weekly pattern is reported
	TrendThresholdPct    float64 // growth rate beyond which a trend is reported
	TrendPoints          int     // historical points included in a trend series
	Locale               string  // BCP 47 tag used to render recommendations
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		MinHistoricalDays:    3,
		ForecastDays:         30,
		MovingAverageWindow:  7,
		SmoothingAlpha:       0.3,
		SeasonalityWindow:    7,
		SeasonalityMinDays:   28,
		SeasonalityThreshold: 0.15,
		TrendThresholdPct:    5,
		TrendPoints:          30,
		Locale:               "en",
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinHistoricalDays <= 0 {
		c.MinHistoricalDays = d.MinHistoricalDays
	}
	if c.ForecastDays <= 0 {
		c.ForecastDays = d.ForecastDays
	}
	if c.MovingAverageWindow <= 0 {
		c.MovingAverageWindow = d.MovingAverageWindow
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		c.SmoothingAlpha = d.SmoothingAlpha
	}
	if c.SeasonalityWindow <= 0 {
		c.SeasonalityWindow = d.SeasonalityWindow
	}
	if c.SeasonalityMinDays <= 0 {
		c.SeasonalityMinDays = d.SeasonalityMinDays
	}
	if c.SeasonalityThreshold <= 0 {
		c.SeasonalityThreshold = d.SeasonalityThreshold
	}
	if c.TrendThresholdPct <= 0 {
		c.TrendThresholdPct = d.TrendThresholdPct
	}
	if c.TrendPoints <= 0 {
		c.TrendPoints = d.TrendPoints
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	return c
}
