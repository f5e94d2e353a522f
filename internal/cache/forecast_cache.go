package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/demand-forecast/internal/config"
	"github.com/andresuchdata/demand-forecast/internal/domain"
)

// forecastNamespace prefixes every key this cache writes.
const forecastNamespace = "forecast:result:"

// Query identifies one forecast computation. Two queries with the same key
// always produce the same result, so results can be shared between runs.
type Query struct {
	Product     domain.ProductKey
	AsOf        time.Time
	HorizonDays int
	Stock       domain.StockLevels
	Series      []domain.SalesObservation
}

// ForecastCache stores computed forecasts. Invalidation returns the number of
// entries removed.
type ForecastCache interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, q Query) (*domain.ForecastResult, bool, error)
	Set(ctx context.Context, q Query, result *domain.ForecastResult) error
	InvalidateProduct(ctx context.Context, product domain.ProductKey) (int64, error)
	InvalidateAll(ctx context.Context) (int64, error)
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache returns a Redis-backed cache when caching is enabled and
// the server answers a ping, and a no-op cache when caching is disabled.
func NewForecastCache(ctx context.Context, cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisForecastCache(client, cacheTTL(cfg)), nil
}

// NewRedisForecastCache wraps an existing client.
func NewRedisForecastCache(client *redis.Client, ttl time.Duration) ForecastCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Ping(ctx context.Context) error {
	if err := pingRedis(ctx, c.client); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) Get(ctx context.Context, q Query) (*domain.ForecastResult, bool, error) {
	key := buildForecastKey(q)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ForecastResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, q Query, result *domain.ForecastResult) error {
	key := buildForecastKey(q)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateProduct(ctx context.Context, product domain.ProductKey) (int64, error) {
	return unlinkMatching(ctx, c.client, productPrefix(product)+"*")
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) (int64, error) {
	return unlinkMatching(ctx, c.client, forecastNamespace+"*")
}

func (n *noopForecastCache) Ping(ctx context.Context) error {
	return nil
}

func (n *noopForecastCache) Get(ctx context.Context, q Query) (*domain.ForecastResult, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, q Query, result *domain.ForecastResult) error {
	return nil
}

func (n *noopForecastCache) InvalidateProduct(ctx context.Context, product domain.ProductKey) (int64, error) {
	return 0, nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) (int64, error) {
	return 0, nil
}

func productPrefix(product domain.ProductKey) string {
	return fmt.Sprintf("%s%s:%s:", forecastNamespace, escapeKeyPart(product.SellerID), escapeKeyPart(product.ProductID))
}

// escapeKeyPart keeps ':' and glob characters in ids from leaking into the
// key structure or SCAN patterns.
func escapeKeyPart(s string) string {
	return strings.NewReplacer(":", "%3A", "*", "%2A", "?", "%3F", "[", "%5B", "]", "%5D").Replace(s)
}

func buildForecastKey(q Query) string {
	return fmt.Sprintf("%s%s:%d:%s",
		productPrefix(q.Product), q.AsOf.Format("2006-01-02"), q.HorizonDays, inputHash(q))
}

func inputHash(q Query) string {
	var b strings.Builder
	b.WriteString("stock=")
	b.WriteString(strconv.Itoa(q.Stock.CurrentStock))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(q.Stock.MinStock))
	for _, obs := range q.Series {
		b.WriteByte('|')
		b.WriteString(obs.Date.Format("2006-01-02"))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(obs.Quantity))
		b.WriteByte(',')
		b.WriteString(obs.UnitPrice.String())
	}
	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
