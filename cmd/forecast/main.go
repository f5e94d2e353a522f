package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/demand-forecast/internal/config"
	"github.com/andresuchdata/demand-forecast/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "forecast",
		Usage: "Forecast product demand and recommend stock levels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   cfg.Log.Level,
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format (console, json)",
				Value:   cfg.Log.Format,
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetFormat(c.String("log-format"))
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			productCommand(cfg),
			batchCommand(cfg),
			fetchCommand(cfg),
			invalidateCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error().Err(err).Msg("forecast failed")
		os.Exit(1)
	}
}

// parseAsOf reads the --as-of flag, defaulting to today.
func parseAsOf(c *cli.Context) (time.Time, error) {
	v := c.String("as-of")
	if v == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q, expected YYYY-MM-DD: %w", v, err)
	}
	return t, nil
}
