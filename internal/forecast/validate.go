package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

var (
	ErrInvalidSeries = errors.New("invalid sales series")
	ErrInvalidStock  = errors.New("invalid stock levels")
)

// ValidateSeries rejects series the engine must never see: negative
// quantities or prices, and dates that are not strictly ascending.
func ValidateSeries(series []domain.SalesObservation) error {
	for i, obs := range series {
		if obs.Quantity < 0 {
			return fmt.Errorf("%w: observation %d (%s) has negative quantity %d",
				ErrInvalidSeries, i, obs.Date.Format("2006-01-02"), obs.Quantity)
		}
		if obs.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: observation %d (%s) has negative unit price %s",
				ErrInvalidSeries, i, obs.Date.Format("2006-01-02"), obs.UnitPrice.String())
		}
		if i > 0 && !obs.Date.After(series[i-1].Date) {
			return fmt.Errorf("%w: observation %d (%s) is not after %s",
				ErrInvalidSeries, i, obs.Date.Format("2006-01-02"), series[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// ValidateStock rejects negative inventory scalars.
func ValidateStock(levels domain.StockLevels) error {
	if levels.CurrentStock < 0 {
		return fmt.Errorf("%w: current stock %d is negative", ErrInvalidStock, levels.CurrentStock)
	}
	if levels.MinStock < 0 {
		return fmt.Errorf("%w: min stock %d is negative", ErrInvalidStock, levels.MinStock)
	}
	return nil
}

// TrimHistory keeps the observations dated within (asOf - windowDays, asOf].
func TrimHistory(series []domain.SalesObservation, asOf time.Time, windowDays int) []domain.SalesObservation {
	if windowDays <= 0 {
		return series
	}
	end := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location()).AddDate(0, 0, 1)
	from := end.AddDate(0, 0, -windowDays)

	out := make([]domain.SalesObservation, 0, len(series))
	for _, obs := range series {
		if !obs.Date.Before(from) && obs.Date.Before(end) {
			out = append(out, obs)
		}
	}
	return out
}
