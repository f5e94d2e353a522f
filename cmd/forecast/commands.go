package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/demand-forecast/internal/cache"
	"github.com/andresuchdata/demand-forecast/internal/config"
	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/andresuchdata/demand-forecast/internal/export"
	"github.com/andresuchdata/demand-forecast/internal/pipeline"
	"github.com/andresuchdata/demand-forecast/internal/storage"
)

type productOutput struct {
	Record *domain.ForecastRecord `json:"record"`
	Trend  *domain.TrendSeries    `json:"trend,omitempty"`
}

func productCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "Forecast a single product and print the record as JSON",
		Flags: concat(
			[]cli.Flag{
				&cli.StringFlag{Name: "seller", Usage: "Seller id"},
				&cli.StringFlag{Name: "product", Usage: "Product id", Required: true},
				&cli.BoolFlag{Name: "trend", Usage: "Include the historical + projected chart series"},
				&cli.StringFlag{Name: "trend-format", Usage: "Trend output: json embeds it in the record, csv prints only the series", Value: "json"},
			},
			sourceFlags(cfg),
			forecastFlags(cfg),
			storageFlags(cfg),
		),
		Action: func(c *cli.Context) error {
			trendFormat := strings.ToLower(c.String("trend-format"))
			if trendFormat != "json" && trendFormat != "csv" {
				return fmt.Errorf("unsupported --trend-format %q", trendFormat)
			}
			asOf, err := parseAsOf(c)
			if err != nil {
				return err
			}
			d, err := buildService(c, cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			key := domain.ProductKey{SellerID: c.String("seller"), ProductID: c.String("product")}
			rec, err := d.svc.ForecastHorizon(c.Context, key, asOf, c.Int("horizon"))
			if err != nil {
				return err
			}

			out := productOutput{Record: rec}
			if c.Bool("trend") {
				if out.Trend, err = d.svc.Trend(c.Context, key, asOf); err != nil {
					return err
				}
				if trendFormat == "csv" {
					log.Info().Str("seller_id", key.SellerID).Str("product_id", key.ProductID).
						Int("forecasted_demand", rec.Result.ForecastedDemand).
						Str("trend", domain.TrendLabel(rec.Result.Trend)).
						Msg("forecast computed")
					return export.WriteTrendCSV(c.App.Writer, *out.Trend)
				}
			}
			return export.WriteJSON(c.App.Writer, out)
		},
	}
}

func batchCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Forecast every product known to the source",
		Flags: concat(
			[]cli.Flag{
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file, - for stdout", Value: "-"},
				&cli.StringFlag{Name: "format", Usage: "Output format (csv, json)", Value: "csv"},
				&cli.IntFlag{
					Name:    "workers",
					Usage:   "Concurrent forecast workers",
					Value:   cfg.Pipeline.Workers,
					EnvVars: []string{"PIPELINE_WORKERS"},
				},
				&cli.StringFlag{Name: "upload-key", Usage: "Also upload the report to this object key"},
			},
			sourceFlags(cfg),
			forecastFlags(cfg),
			storageFlags(cfg),
		),
		Action: func(c *cli.Context) error {
			format := strings.ToLower(c.String("format"))
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported --format %q", format)
			}
			asOf, err := parseAsOf(c)
			if err != nil {
				return err
			}
			d, err := buildService(c, cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			orchestrator := pipeline.NewOrchestrator(d.svc, d.svc, pipeline.Config{
				WorkerCount: c.Int("workers"),
				HorizonDays: c.Int("horizon"),
			})
			summary, err := orchestrator.Run(c.Context, asOf)
			if err != nil {
				return err
			}
			for _, e := range summary.Errors {
				log.Warn().Str("seller_id", e.Key.SellerID).Str("product_id", e.Key.ProductID).Msg(e.Error)
			}

			var buf bytes.Buffer
			if err := renderSummary(&buf, summary, format); err != nil {
				return err
			}
			if err := writeOutput(c, c.String("output"), buf.Bytes()); err != nil {
				return err
			}

			if key := c.String("upload-key"); key != "" {
				store, err := newStorage(c)
				if err != nil {
					return err
				}
				if err := store.UploadObject(c.Context, key, buf.Bytes()); err != nil {
					return err
				}
				log.Info().Str("key", key).Msg("uploaded forecast report")
			}

			if summary.Status == pipeline.StatusFailed {
				return fmt.Errorf("all %d forecasts failed", summary.Failed)
			}
			return nil
		},
	}
}

func renderSummary(w io.Writer, summary *pipeline.RunSummary, format string) error {
	if format == "json" {
		return export.WriteJSON(w, summary)
	}
	return export.WriteRecordsCSV(w, summary.Records)
}

func writeOutput(c *cli.Context, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to prepare directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("wrote forecast report")
	return nil
}

func fetchCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download sales export CSVs from object storage",
		Flags: concat(
			[]cli.Flag{
				&cli.StringFlag{Name: "prefix", Usage: "Object prefix to list", EnvVars: []string{"STORAGE_SALES_PREFIX"}},
				&cli.StringFlag{Name: "object-key", Usage: "Download only this object (relative to --prefix)"},
				&cli.StringFlag{Name: "dest", Usage: "Local download directory", Value: "./data/sales"},
			},
			storageFlags(cfg),
		),
		Action: func(c *cli.Context) error {
			store, err := newStorage(c)
			if err != nil {
				return err
			}

			prefix := c.String("prefix")
			dest := c.String("dest")
			if override := c.String("object-key"); override != "" {
				key := resolveObjectKey(prefix, override)
				path, err := storage.LocalPath(dest, key)
				if err != nil {
					return err
				}
				if err := store.DownloadObject(c.Context, key, path); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, path)
				return nil
			}

			paths, err := storage.FetchCSVs(c.Context, store, prefix, dest)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no CSV files found for prefix %s", prefix)
			}
			for _, p := range paths {
				fmt.Fprintln(c.App.Writer, p)
			}
			return nil
		},
	}
}

func invalidateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "invalidate",
		Usage: "Drop cached forecasts from Redis",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "seller", Usage: "Seller id"},
			&cli.StringFlag{Name: "product", Usage: "Drop only this product's forecasts"},
			&cli.BoolFlag{Name: "all", Usage: "Drop every cached forecast"},
		},
		Action: func(c *cli.Context) error {
			product := c.String("product")
			if product == "" && !c.Bool("all") {
				return fmt.Errorf("either --product or --all is required")
			}

			cacheCfg := cfg.Cache
			cacheCfg.Enabled = true
			forecastCache, err := cache.NewForecastCache(c.Context, cacheCfg)
			if err != nil {
				return err
			}

			var removed int64
			if product != "" {
				key := domain.ProductKey{SellerID: c.String("seller"), ProductID: product}
				removed, err = forecastCache.InvalidateProduct(c.Context, key)
			} else {
				removed, err = forecastCache.InvalidateAll(c.Context)
			}
			if err != nil {
				return err
			}

			log.Info().Int64("removed", removed).Msg("invalidated cached forecasts")
			fmt.Fprintln(c.App.Writer, removed)
			return nil
		},
	}
}

func resolveObjectKey(prefix, override string) string {
	if override == "" {
		return strings.TrimSpace(prefix)
	}
	if prefix == "" {
		return strings.TrimPrefix(override, "/")
	}

	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	overrideTrimmed := strings.TrimPrefix(strings.TrimSpace(override), "/")

	if strings.HasPrefix(overrideTrimmed, prefixTrimmed) {
		return overrideTrimmed
	}
	return fmt.Sprintf("%s/%s", prefixTrimmed, overrideTrimmed)
}
