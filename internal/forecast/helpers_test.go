package forecast

import (
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// monday is a Monday, so day offsets map directly onto weekday indexes.
var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func dailySeries(start time.Time, qty ...int) []domain.SalesObservation {
	out := make([]domain.SalesObservation, len(qty))
	for i, q := range qty {
		out[i] = domain.SalesObservation{
			Date:      start.AddDate(0, 0, i),
			Quantity:  q,
			UnitPrice: decimal.NewFromInt(10),
		}
	}
	return out
}

func repeat(q, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = q
	}
	return out
}

// weekendPattern sells 10 units on weekdays and 30 on weekends.
func weekendPattern(days int) []int {
	out := make([]int, days)
	for i := range out {
		if i%7 >= 5 {
			out[i] = 30
		} else {
			out[i] = 10
		}
	}
	return out
}
