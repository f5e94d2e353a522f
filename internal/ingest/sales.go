package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// SalesSeries holds one ascending daily series per product.
type SalesSeries map[domain.ProductKey][]domain.SalesObservation

// Keys returns the product keys sorted by seller then product.
func (s SalesSeries) Keys() []domain.ProductKey {
	keys := make([]domain.ProductKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []domain.ProductKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SellerID != keys[j].SellerID {
			return keys[i].SellerID < keys[j].SellerID
		}
		return keys[i].ProductID < keys[j].ProductID
	})
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}

func parseQuantity(v string) (int, error) {
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return 0, nil
	}
	if q, err := strconv.Atoi(v); err == nil {
		return q, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", v)
	}
	return int(d.Round(0).IntPart()), nil
}

func parsePrice(v string) (decimal.Decimal, error) {
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid unit price %q", v)
	}
	return d, nil
}

type dayAggregate struct {
	quantity int
	revenue  decimal.Decimal
	price    decimal.Decimal
}

// dailyTotals accumulates one product's rows by day.
type dailyTotals map[time.Time]*dayAggregate

func (d dailyTotals) add(date time.Time, qty int, price decimal.Decimal) {
	agg, ok := d[date]
	if !ok {
		agg = &dayAggregate{revenue: decimal.Zero}
		d[date] = agg
	}
	agg.quantity += qty
	agg.revenue = agg.revenue.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	agg.price = price
}

// series returns a new ascending series with quantity-weighted unit prices.
func (d dailyTotals) series() []domain.SalesObservation {
	out := make([]domain.SalesObservation, 0, len(d))
	for date, agg := range d {
		price := agg.price
		if agg.quantity != 0 {
			price = agg.revenue.Div(decimal.NewFromInt(int64(agg.quantity))).Round(4)
		}
		out = append(out, domain.SalesObservation{
			Date:      date,
			Quantity:  agg.quantity,
			UnitPrice: price,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ReadSales reads a sales export. Rows for the same product and day are
// summed and their unit price becomes the quantity-weighted average.
func ReadSales(r io.Reader) (SalesSeries, error) {
	days := make(map[domain.ProductKey]dailyTotals)

	var idxDate, idxSeller, idxProduct, idxQty, idxPrice int
	resolve := func(h header) error {
		var err error
		if idxDate, err = h.require("date", "sale_date", "order_date", "tanggal"); err != nil {
			return err
		}
		if idxProduct, err = h.require("product_id", "sku", "product"); err != nil {
			return err
		}
		if idxQty, err = h.require("quantity", "qty", "units"); err != nil {
			return err
		}
		idxSeller = h.index("seller_id", "seller", "store", "toko")
		idxPrice = h.index("unit_price", "price", "harga")
		return nil
	}

	err := eachRecord(r, resolve, func(record []string, line int) error {
		date, err := parseDate(field(record, idxDate))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		qty, err := parseQuantity(field(record, idxQty))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		price, err := parsePrice(field(record, idxPrice))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		key := domain.ProductKey{
			SellerID:  field(record, idxSeller),
			ProductID: field(record, idxProduct),
		}
		if key.ProductID == "" {
			return fmt.Errorf("line %d: empty product id", line)
		}

		byDay, ok := days[key]
		if !ok {
			byDay = make(dailyTotals)
			days[key] = byDay
		}
		byDay.add(date, qty, price)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read sales: %w", err)
	}

	out := make(SalesSeries, len(days))
	for key, byDay := range days {
		out[key] = byDay.series()
	}
	return out, nil
}

// ReadSalesFile reads a sales export from disk.
func ReadSalesFile(path string) (SalesSeries, error) {
	var out SalesSeries
	err := openFile(path, func(r io.Reader) error {
		var err error
		out, err = ReadSales(r)
		return err
	})
	return out, err
}

// Merge adds the series of other into s. Days present in both are summed
// and their unit price becomes the quantity-weighted average. Merged series
// are fresh slices, so neither input is modified afterwards.
func (s SalesSeries) Merge(other SalesSeries) {
	for key, series := range other {
		byDay := make(dailyTotals, len(s[key])+len(series))
		for _, obs := range s[key] {
			byDay.add(obs.Date, obs.Quantity, obs.UnitPrice)
		}
		for _, obs := range series {
			byDay.add(obs.Date, obs.Quantity, obs.UnitPrice)
		}
		s[key] = byDay.series()
	}
}
