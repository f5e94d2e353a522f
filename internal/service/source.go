package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/andresuchdata/demand-forecast/internal/ingest"
	"github.com/andresuchdata/demand-forecast/internal/repository"
)

// HistorySource supplies sales history and inventory for a product.
// repository.SalesRepository and MemorySource both implement it.
type HistorySource interface {
	SalesHistory(ctx context.Context, key domain.ProductKey, from, to time.Time) ([]domain.SalesObservation, error)
	StockLevels(ctx context.Context, key domain.ProductKey) (domain.StockLevels, error)
	ListProducts(ctx context.Context) ([]domain.ProductKey, error)
}

// MemorySource serves history loaded from CSV exports.
type MemorySource struct {
	sales ingest.SalesSeries
	stock map[domain.ProductKey]domain.StockLevels
}

func NewMemorySource(sales ingest.SalesSeries, stock map[domain.ProductKey]domain.StockLevels) *MemorySource {
	if sales == nil {
		sales = ingest.SalesSeries{}
	}
	if stock == nil {
		stock = map[domain.ProductKey]domain.StockLevels{}
	}
	return &MemorySource{sales: sales, stock: stock}
}

// SalesHistory returns the observations dated within [from, to).
func (m *MemorySource) SalesHistory(ctx context.Context, key domain.ProductKey, from, to time.Time) ([]domain.SalesObservation, error) {
	series, ok := m.sales[key]
	if !ok {
		return nil, nil
	}
	out := make([]domain.SalesObservation, 0, len(series))
	for _, obs := range series {
		if !obs.Date.Before(from) && obs.Date.Before(to) {
			out = append(out, obs)
		}
	}
	return out, nil
}

func (m *MemorySource) StockLevels(ctx context.Context, key domain.ProductKey) (domain.StockLevels, error) {
	levels, ok := m.stock[key]
	if !ok {
		return domain.StockLevels{}, fmt.Errorf("stock levels for %s: %w", key, repository.ErrNotFound)
	}
	return levels, nil
}

// ListProducts returns every product that has sales or stock, sorted.
func (m *MemorySource) ListProducts(ctx context.Context) ([]domain.ProductKey, error) {
	merged := make(ingest.SalesSeries, len(m.sales)+len(m.stock))
	for k := range m.sales {
		merged[k] = nil
	}
	for k := range m.stock {
		merged[k] = nil
	}
	return merged.Keys(), nil
}

var (
	_ HistorySource = (*MemorySource)(nil)
	_ HistorySource = (repository.SalesRepository)(nil)
)
