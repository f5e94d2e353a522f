package forecast

import "github.com/andresuchdata/demand-forecast/internal/domain"

func flatMultipliers() [7]float64 {
	return [7]float64{1, 1, 1, 1, 1, 1, 1}
}

// DetectSeasonality infers per-weekday demand multipliers. Series shorter
// than cfg.SeasonalityMinDays never report seasonality.
//
// The overall average only counts weekdays with a non-zero mean, so sparse
// series bias the multipliers upwards. This matches the reports sellers are
// already used to and is kept as is.
func DetectSeasonality(cfg Config, series []domain.SalesObservation) domain.SeasonalityProfile {
	cfg = cfg.withDefaults()
	if len(series) < cfg.SeasonalityMinDays {
		return domain.SeasonalityProfile{
			Pattern:           domain.PatternInsufficientData,
			WeeklyMultipliers: flatMultipliers(),
		}
	}

	var sums [7]float64
	var counts [7]int
	for _, obs := range series {
		d := domain.WeekdayIndex(obs.Date)
		sums[d] += float64(obs.Quantity)
		counts[d]++
	}

	var means [7]float64
	var nonZero []float64
	for d := 0; d < 7; d++ {
		if counts[d] > 0 {
			means[d] = sums[d] / float64(counts[d])
		}
		if means[d] != 0 {
			nonZero = append(nonZero, means[d])
		}
	}
	overallAvg := mean(nonZero)

	profile := domain.SeasonalityProfile{Pattern: domain.PatternStable}
	var present []float64
	for d := 0; d < 7; d++ {
		m := 1.0
		if overallAvg != 0 {
			m = roundFloat(means[d]/overallAvg, 2)
		}
		profile.WeeklyMultipliers[d] = m
		if counts[d] > 0 {
			present = append(present, m)
		}
	}

	profile.Strength = sampleStdDev(present)
	if profile.Strength > cfg.SeasonalityThreshold {
		profile.HasSeasonality = true
		profile.Pattern = domain.PatternWeekly
	}
	return profile
}
