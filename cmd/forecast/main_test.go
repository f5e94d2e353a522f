package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/demand-forecast/internal/config"
	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/andresuchdata/demand-forecast/internal/storage"
)

func TestResolveObjectKey(t *testing.T) {
	tests := []struct {
		prefix, override, want string
	}{
		{"exports/sales", "", "exports/sales"},
		{"", "/jan.csv", "jan.csv"},
		{"exports/sales/", "jan.csv", "exports/sales/jan.csv"},
		{"exports/sales", "exports/sales/jan.csv", "exports/sales/jan.csv"},
		{"exports/sales", "/feb.csv", "exports/sales/feb.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+"|"+tt.override, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveObjectKey(tt.prefix, tt.override))
		})
	}
}

func asOfContext(t *testing.T, value string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("as-of", "", "")
	if value != "" {
		require.NoError(t, set.Set("as-of", value))
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestParseAsOf(t *testing.T) {
	got, err := parseAsOf(asOfContext(t, "2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = parseAsOf(asOfContext(t, ""))
	require.NoError(t, err)
	assert.Equal(t, got, got.Truncate(24*time.Hour))

	_, err = parseAsOf(asOfContext(t, "15/03/2024"))
	assert.Error(t, err)
}

type objectStore struct {
	objects map[string]string
}

func (s *objectStore) ListObjects(context.Context, string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (s *objectStore) DownloadObject(context.Context, string, string) error {
	return nil
}

func (s *objectStore) OpenObject(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewBufferString(body)), nil
}

func (s *objectStore) UploadObject(context.Context, string, []byte) error {
	return nil
}

func TestLoadObjects(t *testing.T) {
	store := &objectStore{objects: map[string]string{
		"jan.csv":   "date,product_id,quantity\n2024-01-01,sku-1,3\n2024-01-02,sku-1,4\n",
		"feb.csv":   "date,product_id,quantity\n2024-02-01,sku-1,5\n2024-02-01,sku-2,1\n",
		"stock.csv": "product_id,current_stock,min_stock\nsku-1,40,10\n",
	}}

	sales, stock, err := loadObjects(context.Background(), store, []string{"jan.csv", "feb.csv"}, "stock.csv")
	require.NoError(t, err)

	sku1 := domain.ProductKey{ProductID: "sku-1"}
	assert.Len(t, sales, 2)
	assert.Len(t, sales[sku1], 3)
	assert.Equal(t, domain.StockLevels{CurrentStock: 40, MinStock: 10}, stock[sku1])

	_, _, err = loadObjects(context.Background(), store, []string{"missing.csv"}, "")
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	salesPath := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(salesPath, []byte("date,product_id,quantity\n2024-01-01,sku-1,3\n"), 0o644))

	sales, stock, err := loadFiles([]string{salesPath}, "")
	require.NoError(t, err)
	assert.Len(t, sales, 1)
	assert.Nil(t, stock)

	_, _, err = loadFiles([]string{filepath.Join(dir, "nope.csv")}, "")
	assert.Error(t, err)
}

func sourceContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range sourceFlags(&config.Config{}) {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSourceKind(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://orders@db/orders")

	tests := []struct {
		name string
		args []string
		want string
		err  bool
	}{
		{name: "files beat env database url", args: []string{"--sales-csv", "jan.csv"}, want: "files"},
		{name: "objects beat env database url", args: []string{"--object-key", "sales/jan.csv"}, want: "objects"},
		{name: "database from env", want: "database"},
		{name: "files and objects", args: []string{"--sales-csv", "jan.csv", "--object-key", "sales/jan.csv"}, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sourceKind(sourceContext(t, tt.args...))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceKind_NothingConfigured(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := sourceKind(sourceContext(t))
	assert.Error(t, err)
}

func TestFetchObjectKeyStaysInDest(t *testing.T) {
	dest := t.TempDir()

	_, err := storage.LocalPath(dest, resolveObjectKey("sales", "../../escaped.csv"))
	assert.ErrorIs(t, err, storage.ErrUnsafeKey)

	path, err := storage.LocalPath(dest, resolveObjectKey("sales", "jan.csv"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "sales", "jan.csv"), path)
}
