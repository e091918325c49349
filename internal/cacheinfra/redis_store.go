package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared backend used in multi-node deployments. Every call
// is bounded by its own timeout on top of the caller's context.
type RedisStore struct {
	client      *redis.Client
	opTimeout   time.Duration
	scanTimeout time.Duration
	scanCount   int64
}

// NewRedisClient builds a go-redis client from cfg.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	scanCount := cfg.ScanCount
	if scanCount <= 0 {
		scanCount = 100
	}
	return &RedisStore{
		client:      client,
		opTimeout:   cfg.OperationTimeout,
		scanTimeout: cfg.ScanTimeout,
		scanCount:   scanCount,
	}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx, s.opTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := s.bound(ctx, s.opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := s.bound(ctx, s.opTimeout)
	defer cancel()
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	ctx, cancel := s.bound(ctx, s.opTimeout)
	defer cancel()
	return s.client.Del(ctx, keys...).Result()
}

// Keys walks the keyspace with SCAN instead of KEYS so a large keyspace does
// not block the server. SCAN may return a key more than once; the result is
// deduplicated.
func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	ctx, cancel := s.bound(ctx, s.scanTimeout)
	defer cancel()

	seen := make(map[string]struct{})
	var out []string
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, s.scanCount).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.bound(ctx, s.opTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
