package ingest

import (
	"fmt"
	"io"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// ReadStockLevels reads an inventory snapshot. A product listed twice keeps
// its last row.
func ReadStockLevels(r io.Reader) (map[domain.ProductKey]domain.StockLevels, error) {
	out := make(map[domain.ProductKey]domain.StockLevels)

	var idxSeller, idxProduct, idxStock, idxMin int
	resolve := func(h header) error {
		var err error
		if idxProduct, err = h.require("product_id", "sku", "product"); err != nil {
			return err
		}
		if idxStock, err = h.require("current_stock", "stock", "stok"); err != nil {
			return err
		}
		idxSeller = h.index("seller_id", "seller", "store", "toko")
		idxMin = h.index("min_stock", "safety_stock")
		return nil
	}

	err := eachRecord(r, resolve, func(record []string, line int) error {
		current, err := parseQuantity(field(record, idxStock))
		if err != nil {
			return fmt.Errorf("line %d: current stock: %w", line, err)
		}
		minStock, err := parseQuantity(field(record, idxMin))
		if err != nil {
			return fmt.Errorf("line %d: min stock: %w", line, err)
		}
		key := domain.ProductKey{
			SellerID:  field(record, idxSeller),
			ProductID: field(record, idxProduct),
		}
		if key.ProductID == "" {
			return fmt.Errorf("line %d: empty product id", line)
		}
		out[key] = domain.StockLevels{CurrentStock: current, MinStock: minStock}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read stock levels: %w", err)
	}
	return out, nil
}

// ReadStockLevelsFile reads an inventory snapshot from disk.
func ReadStockLevelsFile(path string) (map[domain.ProductKey]domain.StockLevels, error) {
	var out map[domain.ProductKey]domain.StockLevels
	err := openFile(path, func(r io.Reader) error {
		var err error
		out, err = ReadStockLevels(r)
		return err
	})
	return out, err
}
