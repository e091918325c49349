package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// GetOrFetch implements the read-through protocol for one key.
//
// A hit is decoded and returned without calling fetchFn. A miss, a store error
// or an undecodable payload all fall through to fetchFn. Errors from fetchFn
// are returned as-is and nothing is cached for them. A successful result is
// encoded as JSON and stored with ttl; failures to do so are logged and
// counted but never returned.
func GetOrFetch[T any](ctx context.Context, c *Client, family, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	if value, ok := lookup[T](ctx, c, family, key); ok {
		return value, nil
	}

	c.metrics.miss(family)

	value, err := fetchFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.fill(ctx, family, key, value, ttl)
	return value, nil
}

func lookup[T any](ctx context.Context, c *Client, family, key string) (T, bool) {
	var value T

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.failure(family, OpGet)
		c.logger.Warn("cache get failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return value, false
	}
	if !found {
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		c.metrics.failure(family, OpDecode)
		c.logger.Warn("cache decode failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		var zero T
		return zero, false
	}

	c.metrics.hit(family)
	return value, true
}

func (c *Client) fill(ctx context.Context, family, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.metrics.failure(family, OpEncode)
		c.logger.Warn("cache encode failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.metrics.failure(family, OpSet)
		c.logger.Warn("cache set failed",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return
	}

	c.logger.Debug("cache filled",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)
}
