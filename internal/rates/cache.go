package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"txnsense/internal/constants"
	"txnsense/internal/currency"
)

// Quote is one observed conversion rate from Currency to the base currency.
type Quote struct {
	Currency   currency.Code   `json:"currency"`
	Rate       decimal.Decimal `json:"rate"`
	ObservedAt time.Time       `json:"observed_at"`
}

// Fresh reports whether the quote may still be reused at now.
func (q Quote) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(q.ObservedAt) < ttl
}

// Cache stores the latest quote per currency. Put replaces any previous entry for the
// same currency as a single operation; readers never see a partially written quote.
type Cache interface {
	Get(ctx context.Context, code currency.Code) (Quote, bool, error)
	Put(ctx context.Context, quote Quote) error
}

// MemoryCache keeps quotes in process memory.
type MemoryCache struct {
	entries sync.Map
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context, code currency.Code) (Quote, bool, error) {
	v, ok := c.entries.Load(code)
	if !ok {
		return Quote{}, false, nil
	}
	return v.(Quote), true, nil
}

func (c *MemoryCache) Put(_ context.Context, quote Quote) error {
	c.entries.Store(quote.Currency, quote)
	return nil
}

// RedisCache shares quotes between service replicas. Entries also carry a Redis
// expiry equal to the TTL so abandoned currencies do not linger.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func redisKey(code currency.Code) string {
	return constants.CacheKeyPrefixRate + string(code)
}

func (c *RedisCache) Get(ctx context.Context, code currency.Code) (Quote, bool, error) {
	raw, err := c.client.Get(ctx, redisKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, fmt.Errorf("redis get %s: %w", redisKey(code), err)
	}

	var quote Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return Quote{}, false, fmt.Errorf("decode cached quote %s: %w", code, err)
	}
	return quote, true, nil
}

func (c *RedisCache) Put(ctx context.Context, quote Quote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encode quote %s: %w", quote.Currency, err)
	}
	if err := c.client.Set(ctx, redisKey(quote.Currency), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", redisKey(quote.Currency), err)
	}
	return nil
}
