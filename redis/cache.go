package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a JSON cache with version keys for invalidation. A nil client turns
// every call into a miss so the API keeps working without redis.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// GetVersion returns the current counter for key, 0 when unset or unreachable.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c == nil || c.client == nil {
		return 0
	}

	v, err := c.client.Get(ctx, key).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("cache version lookup failed")
	}
	return v
}

// IncrementVersion bumps the counter so entries built on the old version are never read again.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache version increment failed")
	}
}
