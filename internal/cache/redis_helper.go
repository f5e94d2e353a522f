package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/demand-forecast/internal/config"
)

const (
	defaultCacheTTL  = time.Hour
	redisDialTimeout = 3 * time.Second
	redisIOTimeout   = 2 * time.Second
	redisPingTimeout = 5 * time.Second
	unlinkBatchSize  = 100
)

// connectRedis opens the forecast cache client and makes sure the server
// answers. An unreachable server is an error here rather than on the first
// forecast.
func connectRedis(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", opts.Addr, err)
	}

	log.Debug().Str("addr", opts.Addr).Int("db", opts.DB).Msg("forecast cache connected")
	return client, nil
}

func pingRedis(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

// cacheTTL is how long a forecast stays cached. Results only change when the
// inputs change, and the inputs are part of the key.
func cacheTTL(cfg config.CacheConfig) time.Duration {
	if ttl := cfg.ForecastTTL(); ttl > 0 {
		return ttl
	}
	return defaultCacheTTL
}

// redisOptions prefers REDIS_URL and falls back to host/port settings.
// Timeouts are kept short: a slow cache should not hold up a batch run.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		host, port := cfg.RedisHost, cfg.RedisPort
		if host == "" {
			host = "127.0.0.1"
		}
		if port == "" {
			port = "6379"
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	if opts.DialTimeout == 0 {
		opts.DialTimeout = redisDialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = redisIOTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = redisIOTimeout
	}
	return opts, nil
}

// unlinkMatching removes every key matching pattern and reports how many
// went. Keys are collected before removal so the SCAN cursor never runs over
// a keyspace that is shrinking under it.
func unlinkMatching(ctx context.Context, client *redis.Client, pattern string) (int64, error) {
	var keys []string
	iter := client.Scan(ctx, 0, pattern, unlinkBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan %s failed: %w", pattern, err)
	}

	var removed int64
	for start := 0; start < len(keys); start += unlinkBatchSize {
		end := start + unlinkBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		n, err := client.Unlink(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += n
	}
	return removed, nil
}
