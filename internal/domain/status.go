package domain

import (
	"strings"
	"time"
)

// Trend classifies the direction of recent demand
type Trend string

const (
	TrendUp     Trend = "UPTREND"
	TrendDown   Trend = "DOWNTREND"
	TrendStable Trend = "STABLE"
)

// SeasonalityPattern classifies the weekly shape of a series
type SeasonalityPattern string

const (
	PatternWeekly           SeasonalityPattern = "WEEKLY"
	PatternStable           SeasonalityPattern = "STABLE"
	PatternInsufficientData SeasonalityPattern = "INSUFFICIENT_DATA"
)

var trendLabels = map[Trend]string{
	TrendUp:     "Growing",
	TrendDown:   "Declining",
	TrendStable: "Stable",
}

var trendCodes = map[string]Trend{
	"uptrend":   TrendUp,
	"up":        TrendUp,
	"downtrend": TrendDown,
	"down":      TrendDown,
	"stable":    TrendStable,
}

// TrendLabel returns a human-readable label for a trend.
func TrendLabel(t Trend) string {
	if label, ok := trendLabels[t]; ok {
		return label
	}

	return "Unknown"
}

// ParseTrend returns the trend for a given label (case-insensitive).
func ParseTrend(label string) (Trend, bool) {
	t, ok := trendCodes[strings.ToLower(strings.TrimSpace(label))]

	return t, ok
}

// Weekday indexes are fixed with Monday = 0 through Sunday = 6 so that
// weekly multiplier arrays mean the same thing regardless of date library.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "?"
	}
	return weekdayNames[d]
}

// WeekdayIndex maps a date onto the Monday-origin weekday index.
func WeekdayIndex(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}
