package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// Runner forecasts many products with a bounded worker pool
type Runner struct {
	forecaster Forecaster
	config     Config
	now        func() time.Time
}

// NewRunner creates a new batch runner
func NewRunner(forecaster Forecaster, config Config) *Runner {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	return &Runner{
		forecaster: forecaster,
		config:     config,
		now:        time.Now,
	}
}

type job struct {
	index int
	key   domain.ProductKey
}

type outcome struct {
	record *domain.ForecastRecord
	err    error
}

// Run forecasts every key as of asOf. A failing key is recorded in the
// summary and does not stop the run; only context cancellation does.
func (r *Runner) Run(ctx context.Context, keys []domain.ProductKey, asOf time.Time) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		AsOf:      asOf,
		Total:     len(keys),
		StartedAt: r.now(),
	}
	logger := log.With().Str("run_id", summary.RunID).Logger()
	logger.Info().Int("keys", len(keys)).Int("workers", r.config.WorkerCount).Msg("batch run started")

	results := make([]outcome, len(keys))
	jobChan := make(chan job)

	g, gctx := errgroup.WithContext(ctx)

	// Start workers
	for i := 0; i < r.config.WorkerCount; i++ {
		workerID := i
		g.Go(func() error {
			for j := range jobChan {
				rec, err := r.forecaster.ForecastHorizon(gctx, j.key, asOf, r.config.HorizonDays)
				if err != nil {
					logger.Warn().Err(err).Int("worker", workerID).
						Str("seller_id", j.key.SellerID).Str("product_id", j.key.ProductID).
						Msg("forecast failed")
				}
				results[j.index] = outcome{record: rec, err: err}
			}
			return nil
		})
	}

	// Enqueue jobs
	g.Go(func() error {
		defer close(jobChan)
		for i, key := range keys {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobChan <- job{index: i, key: key}:
			}
		}
		return nil
	})

	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	for i, res := range results {
		switch {
		case res.err != nil:
			summary.Failed++
			summary.Errors = append(summary.Errors, KeyError{Key: keys[i], Error: res.err.Error()})
		case res.record != nil:
			summary.Succeeded++
			summary.Records = append(summary.Records, *res.record)
		}
	}
	summary.CompletedAt = r.now()

	switch {
	case runErr != nil:
		summary.Status = StatusCancelled
	case summary.Failed == 0:
		summary.Status = StatusCompleted
	case summary.Succeeded == 0:
		summary.Status = StatusFailed
	default:
		summary.Status = StatusPartial
	}

	logger.Info().
		Str("status", string(summary.Status)).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration()).
		Msg("batch run finished")

	if runErr != nil {
		return summary, runErr
	}
	return summary, nil
}
