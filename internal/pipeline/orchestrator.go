package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Orchestrator runs a batch over every product a lister knows about.
type Orchestrator struct {
	lister ProductLister
	runner *Runner
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(lister ProductLister, forecaster Forecaster, cfg Config) *Orchestrator {
	return &Orchestrator{
		lister: lister,
		runner: NewRunner(forecaster, cfg),
	}
}

// Run lists all products and forecasts them as of asOf.
func (o *Orchestrator) Run(ctx context.Context, asOf time.Time) (*RunSummary, error) {
	keys, err := o.lister.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return o.runner.Run(ctx, keys, asOf)
}
