package main

import (
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/demand-forecast/internal/config"
)

func sourceFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "sales-csv",
			Usage: "Sales export CSV file (repeatable)",
		},
		&cli.StringFlag{
			Name:  "stock-csv",
			Usage: "Inventory snapshot CSV file",
		},
		&cli.StringSliceFlag{
			Name:  "object-key",
			Usage: "Sales export object in the storage bucket (repeatable)",
		},
		&cli.StringFlag{
			Name:  "stock-object-key",
			Usage: "Inventory snapshot object in the storage bucket",
		},
		&cli.StringFlag{
			Name:    "db-url",
			Usage:   "Order history database connection string",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "db-driver",
			Usage:   "database/sql driver for --db-url (pgx, postgres)",
			Value:   cfg.Database.Driver,
			EnvVars: []string{"DB_DRIVER"},
		},
		&cli.BoolFlag{
			Name:    "cache",
			Usage:   "Cache forecast results in Redis",
			Value:   cfg.Cache.Enabled,
			EnvVars: []string{"CACHE_ENABLED"},
		},
	}
}

func forecastFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "as-of",
			Usage: "Forecast date (YYYY-MM-DD); history up to and including this day is used",
		},
		&cli.IntFlag{
			Name:    "horizon",
			Usage:   "Forecast horizon in days",
			Value:   cfg.Forecast.HorizonDays,
			EnvVars: []string{"FORECAST_HORIZON_DAYS"},
		},
		&cli.IntFlag{
			Name:    "history-days",
			Usage:   "Days of sales history to consider",
			Value:   cfg.Forecast.HistoryWindowDays,
			EnvVars: []string{"FORECAST_HISTORY_WINDOW_DAYS"},
		},
		&cli.StringFlag{
			Name:    "locale",
			Usage:   "Locale used to render recommendations",
			Value:   cfg.Forecast.Locale,
			EnvVars: []string{"FORECAST_LOCALE"},
		},
	}
}

func storageFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "storage-endpoint",
			Usage:   "S3-compatible storage endpoint",
			Value:   cfg.Storage.Endpoint,
			EnvVars: []string{"STORAGE_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "storage-access-key",
			Usage:   "Storage access key",
			Value:   cfg.Storage.AccessKey,
			EnvVars: []string{"STORAGE_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-secret-key",
			Usage:   "Storage secret key",
			Value:   cfg.Storage.SecretKey,
			EnvVars: []string{"STORAGE_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-bucket",
			Usage:   "Storage bucket",
			Value:   cfg.Storage.Bucket,
			EnvVars: []string{"STORAGE_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "storage-region",
			Usage:   "Storage region",
			Value:   cfg.Storage.Region,
			EnvVars: []string{"STORAGE_REGION"},
		},
		&cli.BoolFlag{
			Name:    "storage-use-ssl",
			Usage:   "Use HTTPS when the endpoint has no scheme",
			Value:   cfg.Storage.UseSSL,
			EnvVars: []string{"STORAGE_USE_SSL"},
		},
	}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
