package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// Forecaster produces a forecast record for one product.
// *service.ForecastService implements it.
type Forecaster interface {
	ForecastHorizon(ctx context.Context, key domain.ProductKey, asOf time.Time, horizonDays int) (*domain.ForecastRecord, error)
}

// ProductLister enumerates the products a batch run covers.
type ProductLister interface {
	Products(ctx context.Context) ([]domain.ProductKey, error)
}

// Config holds configuration for a batch run
type Config struct {
	WorkerCount int // Number of concurrent workers
	HorizonDays int // 0 uses the forecaster's default
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WorkerCount: runtime.NumCPU(),
	}
}

// RunStatus represents the final state of a batch run
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusPartial   RunStatus = "partial"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// KeyError records a product that could not be forecast
type KeyError struct {
	Key   domain.ProductKey `json:"key"`
	Error string            `json:"error"`
}

// RunSummary describes a single execution of a batch run
type RunSummary struct {
	RunID       string                  `json:"run_id"`
	Status      RunStatus               `json:"status"`
	AsOf        time.Time               `json:"as_of"`
	Total       int                     `json:"total"`
	Succeeded   int                     `json:"succeeded"`
	Failed      int                     `json:"failed"`
	Records     []domain.ForecastRecord `json:"records"`
	Errors      []KeyError              `json:"errors,omitempty"`
	StartedAt   time.Time               `json:"started_at"`
	CompletedAt time.Time               `json:"completed_at"`
}

// Duration is the wall time of the run.
func (s *RunSummary) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}
