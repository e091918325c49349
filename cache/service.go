package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store is the key-value capability the cache layer is written against.
// Values are opaque bytes; absence is reported through found, never as an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
	// Keys returns every live key matching a glob pattern where * matches any
	// run of characters.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Client wraps a Store with the logging and metrics used by read-through and
// invalidation. It holds no mutable state of its own.
type Client struct {
	store   Store
	logger  *zap.Logger
	metrics *Metrics
}

// NewClient builds a Client. A nil logger or metrics disables that output.
func NewClient(store Store, logger *zap.Logger, metrics *Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Store returns the underlying store.
func (c *Client) Store() Store {
	return c.store
}

// Metrics returns the metrics collector, which may be nil.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}
