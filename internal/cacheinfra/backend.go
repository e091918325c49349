package cacheinfra

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Backend is the method set every store in this package provides. It matches
// cache.Store so the cache package can hand these values out directly.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Open validates cfg and builds the configured backend, wrapped in a circuit
// breaker when cfg.Breaker is set. The returned closer releases backend
// resources and is never nil.
//
// A redis backend is pinged once; a failed ping is logged and the store is
// still returned, since the cache layer degrades to the data store on errors.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Backend, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		backend Backend
		closer  = func() error { return nil }
	)

	switch cfg.Backend {
	case BackendRedis:
		store := NewRedisStore(NewRedisClient(cfg.Redis), cfg.Redis)
		if err := store.Ping(ctx); err != nil {
			logger.Warn("redis cache unreachable, reads will fall through to the database",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err),
			)
		} else {
			logger.Info("redis cache connected", zap.String("addr", cfg.Redis.Addr))
		}
		backend = store
		closer = store.Close
	default:
		store, err := NewMemoryStore(cfg.Memory)
		if err != nil {
			return nil, nil, err
		}
		backend = store
	}

	if cfg.Breaker != nil {
		backend = NewBreakerStore("cache-"+cfg.Backend, backend, *cfg.Breaker, logger)
	}

	return backend, closer, nil
}
