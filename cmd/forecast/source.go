package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/demand-forecast/internal/cache"
	"github.com/andresuchdata/demand-forecast/internal/config"
	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/andresuchdata/demand-forecast/internal/forecast"
	"github.com/andresuchdata/demand-forecast/internal/ingest"
	"github.com/andresuchdata/demand-forecast/internal/repository"
	"github.com/andresuchdata/demand-forecast/internal/repository/postgres"
	"github.com/andresuchdata/demand-forecast/internal/service"
	"github.com/andresuchdata/demand-forecast/internal/storage"
)

const objectFetchConcurrency = 4

type deps struct {
	svc     *service.ForecastService
	closers []func() error
}

func (d *deps) Close() {
	for _, fn := range d.closers {
		if err := fn(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

func newStorage(c *cli.Context) (*storage.S3Client, error) {
	return storage.NewS3Client(storage.Config{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
}

func engineConfig(c *cli.Context, cfg *config.Config) forecast.Config {
	engineCfg := cfg.Forecast.EngineConfig()
	if h := c.Int("horizon"); h > 0 {
		engineCfg.ForecastDays = h
	}
	if l := c.String("locale"); l != "" {
		engineCfg.Locale = l
	}
	return engineCfg
}

func buildService(c *cli.Context, cfg *config.Config) (*deps, error) {
	d := &deps{}

	source, closeFn, err := buildSource(c, cfg)
	if err != nil {
		return nil, err
	}
	if closeFn != nil {
		d.closers = append(d.closers, closeFn)
	}

	cacheCfg := cfg.Cache
	cacheCfg.Enabled = c.Bool("cache")
	forecastCache, err := cache.NewForecastCache(c.Context, cacheCfg)
	if err != nil {
		log.Warn().Err(err).Msg("forecast cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	engine := forecast.NewEngine(engineConfig(c, cfg))
	d.svc = service.NewForecastService(source, engine, forecastCache, c.Int("history-days"))
	return d, nil
}

// sourceKind picks the history source. Explicit file or bucket flags win
// over a database URL that may only be set through DATABASE_URL; naming both
// kinds of file source is ambiguous and rejected.
func sourceKind(c *cli.Context) (string, error) {
	files := len(c.StringSlice("sales-csv")) > 0
	objects := len(c.StringSlice("object-key")) > 0
	switch {
	case files && objects:
		return "", fmt.Errorf("--sales-csv and --object-key cannot be combined")
	case files:
		return "files", nil
	case objects:
		return "objects", nil
	case c.String("db-url") != "":
		return "database", nil
	default:
		return "", fmt.Errorf("one of --sales-csv, --object-key or --db-url is required")
	}
}

func buildSource(c *cli.Context, cfg *config.Config) (service.HistorySource, func() error, error) {
	kind, err := sourceKind(c)
	if err != nil {
		return nil, nil, err
	}
	if kind != "database" && c.IsSet("db-url") {
		log.Warn().Str("source", kind).Msg("ignoring database url, reading sales exports instead")
	}

	switch kind {
	case "database":
		dbCfg := cfg.Database
		dbCfg.URL = c.String("db-url")
		dbCfg.Driver = c.String("db-driver")
		db, err := postgres.NewDB(c.Context, &dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewSalesRepository(db), db.Close, nil

	case "objects":
		store, err := newStorage(c)
		if err != nil {
			return nil, nil, err
		}
		sales, stock, err := loadObjects(c.Context, store, c.StringSlice("object-key"), c.String("stock-object-key"))
		if err != nil {
			return nil, nil, err
		}
		return service.NewMemorySource(sales, stock), nil, nil

	default:
		sales, stock, err := loadFiles(c.StringSlice("sales-csv"), c.String("stock-csv"))
		if err != nil {
			return nil, nil, err
		}
		return service.NewMemorySource(sales, stock), nil, nil
	}
}

func loadFiles(salesPaths []string, stockPath string) (ingest.SalesSeries, map[domain.ProductKey]domain.StockLevels, error) {
	sales := ingest.SalesSeries{}
	for _, path := range salesPaths {
		series, err := ingest.ReadSalesFile(path)
		if err != nil {
			return nil, nil, err
		}
		sales.Merge(series)
	}

	var stock map[domain.ProductKey]domain.StockLevels
	if stockPath != "" {
		var err error
		if stock, err = ingest.ReadStockLevelsFile(stockPath); err != nil {
			return nil, nil, err
		}
	}

	log.Info().Int("files", len(salesPaths)).Int("products", len(sales)).Msg("loaded sales exports")
	return sales, stock, nil
}

// loadObjects reads sales exports straight from the bucket, a few at a time.
func loadObjects(ctx context.Context, store storage.ObjectStorage, keys []string, stockKey string) (ingest.SalesSeries, map[domain.ProductKey]domain.StockLevels, error) {
	parsed := make([]ingest.SalesSeries, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(objectFetchConcurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			rc, err := store.OpenObject(gctx, key)
			if err != nil {
				return err
			}
			defer rc.Close()

			series, err := ingest.ReadSales(rc)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			parsed[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sales := ingest.SalesSeries{}
	for _, series := range parsed {
		sales.Merge(series)
	}

	var stock map[domain.ProductKey]domain.StockLevels
	if stockKey != "" {
		rc, err := store.OpenObject(ctx, stockKey)
		if err != nil {
			return nil, nil, err
		}
		defer rc.Close()
		if stock, err = ingest.ReadStockLevels(rc); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", stockKey, err)
		}
	}

	log.Info().Int("objects", len(keys)).Int("products", len(sales)).Msg("loaded sales exports from storage")
	return sales, stock, nil
}
