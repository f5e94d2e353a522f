package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Queryer is the subset of *sqlx.DB the repositories read through.
type Queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// SalesRepository reads order history and inventory for forecasting.
type SalesRepository interface {
	SalesHistory(ctx context.Context, key domain.ProductKey, from, to time.Time) ([]domain.SalesObservation, error)
	StockLevels(ctx context.Context, key domain.ProductKey) (domain.StockLevels, error)
	ListProducts(ctx context.Context) ([]domain.ProductKey, error)
}

type salesRepository struct {
	db Queryer
}

func NewSalesRepository(db Queryer) SalesRepository {
	return &salesRepository{db: db}
}

// SalesHistory aggregates order items into one row per day within [from, to).
// Cancelled and refunded orders do not count as demand.
func (r *salesRepository) SalesHistory(ctx context.Context, key domain.ProductKey, from, to time.Time) ([]domain.SalesObservation, error) {
	query := `
		SELECT
			DATE(o.ordered_at) AS sale_date,
			SUM(oi.quantity)::int AS quantity,
			COALESCE(SUM(oi.quantity * oi.unit_price) / NULLIF(SUM(oi.quantity), 0), 0) AS unit_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.seller_id = $1
			AND oi.product_id = $2
			AND o.ordered_at >= $3
			AND o.ordered_at < $4
			AND o.status NOT IN ('cancelled', 'refunded')
		GROUP BY DATE(o.ordered_at)
		ORDER BY sale_date ASC
	`

	var rows []domain.SalesObservation
	if err := r.db.SelectContext(ctx, &rows, query, key.SellerID, key.ProductID, from, to); err != nil {
		return nil, fmt.Errorf("error getting sales history for %s: %w", key, err)
	}

	return rows, nil
}

func (r *salesRepository) StockLevels(ctx context.Context, key domain.ProductKey) (domain.StockLevels, error) {
	query := `
		SELECT current_stock, min_stock
		FROM inventory
		WHERE seller_id = $1 AND product_id = $2
	`

	var levels domain.StockLevels
	if err := r.db.GetContext(ctx, &levels, query, key.SellerID, key.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StockLevels{}, fmt.Errorf("stock levels for %s: %w", key, ErrNotFound)
		}
		return domain.StockLevels{}, fmt.Errorf("error getting stock levels for %s: %w", key, err)
	}

	return levels, nil
}

// ListProducts returns every product with inventory, ordered by seller.
func (r *salesRepository) ListProducts(ctx context.Context) ([]domain.ProductKey, error) {
	query := `
		SELECT seller_id, product_id
		FROM inventory
		ORDER BY seller_id, product_id
	`

	var keys []domain.ProductKey
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return keys, nil
}
