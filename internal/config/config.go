package config

import (
	"fmt"
	"net/url"
	"runtime"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/demand-forecast/internal/forecast"
)

type Config struct {
	Log      LogConfig
	Forecast ForecastConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ForecastConfig struct {
	HorizonDays       int
	MinHistoryDays    int
	HistoryWindowDays int
	Locale            string
}

type DatabaseConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type PipelineConfig struct {
	Workers int
}

var (
	once     sync.Once
	instance *Config
)

// Load reads the configuration once per process from the environment and an
// optional .env file.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()
		instance = load(viper.New())
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FORECAST_HORIZON_DAYS", 30)
	v.SetDefault("FORECAST_MIN_HISTORY_DAYS", 3)
	v.SetDefault("FORECAST_HISTORY_WINDOW_DAYS", 90)
	v.SetDefault("FORECAST_LOCALE", "en")

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sales")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_FORECAST_TTL_SECONDS", 3600)

	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("STORAGE_REGION", "")
	v.SetDefault("STORAGE_USE_SSL", true)

	v.SetDefault("PIPELINE_WORKERS", runtime.NumCPU())
}

func load(v *viper.Viper) *Config {
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Forecast: ForecastConfig{
			HorizonDays:       v.GetInt("FORECAST_HORIZON_DAYS"),
			MinHistoryDays:    v.GetInt("FORECAST_MIN_HISTORY_DAYS"),
			HistoryWindowDays: v.GetInt("FORECAST_HISTORY_WINDOW_DAYS"),
			Locale:            v.GetString("FORECAST_LOCALE"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:            v.GetBool("CACHE_ENABLED"),
			RedisURL:           v.GetString("REDIS_URL"),
			RedisHost:          v.GetString("REDIS_HOST"),
			RedisPort:          v.GetString("REDIS_PORT"),
			RedisPassword:      v.GetString("REDIS_PASSWORD"),
			RedisDB:            v.GetInt("REDIS_DB"),
			ForecastTTLSeconds: v.GetInt("CACHE_FORECAST_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Pipeline: PipelineConfig{
			Workers: v.GetInt("PIPELINE_WORKERS"),
		},
	}
	if cfg.Pipeline.Workers < 1 {
		cfg.Pipeline.Workers = 1
	}

	return cfg
}

// EngineConfig builds the forecasting engine configuration.
func (c ForecastConfig) EngineConfig() forecast.Config {
	cfg := forecast.DefaultConfig()
	if c.HorizonDays > 0 {
		cfg.ForecastDays = c.HorizonDays
	}
	if c.MinHistoryDays > 0 {
		cfg.MinHistoricalDays = c.MinHistoryDays
	}
	if c.Locale != "" {
		cfg.Locale = c.Locale
	}
	return cfg
}

// DSN returns the connection string, preferring DATABASE_URL when set.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// DriverName maps the configured driver onto a database/sql driver name.
func (c DatabaseConfig) DriverName() string {
	switch c.Driver {
	case "postgres", "pq", "lib/pq":
		return "postgres"
	default:
		return "pgx"
	}
}

// ForecastTTL returns the cache lifetime of a forecast result.
func (c CacheConfig) ForecastTTL() time.Duration {
	return time.Duration(c.ForecastTTLSeconds) * time.Second
}
