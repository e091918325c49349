package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-article-cache/internal/cacheinfra"
	"go.uber.org/zap"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = cacheinfra.BackendMemory
	BackendRedis  = cacheinfra.BackendRedis
)

// Config exposes backend configuration options for consumers of the cache package.
type Config struct {
	Backend string         `yaml:"backend"`
	Memory  MemoryConfig   `yaml:"memory"`
	Redis   RedisConfig    `yaml:"redis"`
	Breaker *BreakerConfig `yaml:"breaker"`
}

// MemoryConfig mirrors the in-process sturdyc backend options.
type MemoryConfig struct {
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	MaxTTL             time.Duration `yaml:"max_ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`
}

// RedisConfig mirrors the redis backend options.
type RedisConfig struct {
	Addr             string        `yaml:"addr"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	DB               int           `yaml:"db"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
	ScanTimeout      time.Duration `yaml:"scan_timeout"`
	ScanCount        int64         `yaml:"scan_count"`
}

// BreakerConfig mirrors the circuit breaker options.
type BreakerConfig struct {
	MaxRequests         uint32        `yaml:"max_requests"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// DefaultBreakerConfig returns the default circuit breaker settings.
func DefaultBreakerConfig() *BreakerConfig {
	return breakerFromInternal(cacheinfra.DefaultBreakerConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the configured backend. The returned close function
// releases its resources and is never nil on success.
func NewStore(ctx context.Context, cfg Config, logger *zap.Logger) (Store, func() error, error) {
	backend, closer, err := cacheinfra.Open(ctx, cfg.toInternal(), logger)
	if err != nil {
		return nil, nil, err
	}
	return backend, closer, nil
}

func (c Config) toInternal() cacheinfra.Config {
	var breaker *cacheinfra.BreakerConfig
	if c.Breaker != nil {
		breaker = &cacheinfra.BreakerConfig{
			MaxRequests:         c.Breaker.MaxRequests,
			Interval:            c.Breaker.Interval,
			Timeout:             c.Breaker.Timeout,
			ConsecutiveFailures: c.Breaker.ConsecutiveFailures,
		}
	}

	return cacheinfra.Config{
		Backend: c.Backend,
		Memory: cacheinfra.MemoryConfig{
			Capacity:           c.Memory.Capacity,
			NumShards:          c.Memory.NumShards,
			MaxTTL:             c.Memory.MaxTTL,
			EvictionPercentage: c.Memory.EvictionPercentage,
			EvictionInterval:   c.Memory.EvictionInterval,
		},
		Redis: cacheinfra.RedisConfig{
			Addr:             c.Redis.Addr,
			Username:         c.Redis.Username,
			Password:         c.Redis.Password,
			DB:               c.Redis.DB,
			DialTimeout:      c.Redis.DialTimeout,
			ReadTimeout:      c.Redis.ReadTimeout,
			WriteTimeout:     c.Redis.WriteTimeout,
			OperationTimeout: c.Redis.OperationTimeout,
			ScanTimeout:      c.Redis.ScanTimeout,
			ScanCount:        c.Redis.ScanCount,
		},
		Breaker: breaker,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Backend: cfg.Backend,
		Memory: MemoryConfig{
			Capacity:           cfg.Memory.Capacity,
			NumShards:          cfg.Memory.NumShards,
			MaxTTL:             cfg.Memory.MaxTTL,
			EvictionPercentage: cfg.Memory.EvictionPercentage,
			EvictionInterval:   cfg.Memory.EvictionInterval,
		},
		Redis: RedisConfig{
			Addr:             cfg.Redis.Addr,
			Username:         cfg.Redis.Username,
			Password:         cfg.Redis.Password,
			DB:               cfg.Redis.DB,
			DialTimeout:      cfg.Redis.DialTimeout,
			ReadTimeout:      cfg.Redis.ReadTimeout,
			WriteTimeout:     cfg.Redis.WriteTimeout,
			OperationTimeout: cfg.Redis.OperationTimeout,
			ScanTimeout:      cfg.Redis.ScanTimeout,
			ScanCount:        cfg.Redis.ScanCount,
		},
		Breaker: breakerFromInternal(cfg.Breaker),
	}
}

func breakerFromInternal(cfg *cacheinfra.BreakerConfig) *BreakerConfig {
	if cfg == nil {
		return nil
	}
	return &BreakerConfig{
		MaxRequests:         cfg.MaxRequests,
		Interval:            cfg.Interval,
		Timeout:             cfg.Timeout,
		ConsecutiveFailures: cfg.ConsecutiveFailures,
	}
}
