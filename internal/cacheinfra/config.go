package cacheinfra

import (
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Supported backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and tunes the key-value backend.
type Config struct {
	// Backend is either "memory" or "redis".
	Backend string `yaml:"backend"`

	Memory MemoryConfig `yaml:"memory"`
	Redis  RedisConfig  `yaml:"redis"`

	// Breaker wraps the backend in a circuit breaker when set.
	Breaker *BreakerConfig `yaml:"breaker"`
}

// MemoryConfig tunes the in-process sturdyc backend.
type MemoryConfig struct {
	// Capacity defines the maximum number of entries that the cache can store.
	Capacity int `yaml:"capacity"`

	// NumShards determines the number of cache shards for concurrent access.
	NumShards int `yaml:"num_shards"`

	// MaxTTL is the client-wide TTL. Per-entry TTLs longer than this are capped.
	MaxTTL time.Duration `yaml:"max_ttl"`

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity.
	EvictionPercentage int `yaml:"eviction_percentage"`

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration `yaml:"eviction_interval"`
}

// RedisConfig configures the go-redis client and per-operation timeouts.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// OperationTimeout bounds get, set, delete and exists calls.
	OperationTimeout time.Duration `yaml:"operation_timeout"`

	// ScanTimeout bounds a full SCAN pass for Keys.
	ScanTimeout time.Duration `yaml:"scan_timeout"`

	// ScanCount is the COUNT hint passed to SCAN.
	ScanCount int64 `yaml:"scan_count"`
}

// BreakerConfig configures the circuit breaker in front of the backend.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval clears the failure counts while closed. Zero never clears.
	Interval time.Duration `yaml:"interval"`

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `yaml:"timeout"`

	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Memory: MemoryConfig{
			Capacity:           10000,
			NumShards:          256,
			MaxTTL:             5 * time.Minute,
			EvictionPercentage: 10,
		},
		Redis: RedisConfig{
			Addr:             "127.0.0.1:6379",
			DialTimeout:      time.Second,
			ReadTimeout:      500 * time.Millisecond,
			WriteTimeout:     500 * time.Millisecond,
			OperationTimeout: 100 * time.Millisecond,
			ScanTimeout:      5 * time.Second,
			ScanCount:        100,
		},
	}
}

// DefaultBreakerConfig returns breaker settings that trip after five
// consecutive failures and probe again after thirty seconds.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		MaxRequests:         1,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Validate checks the selected backend's settings.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendRedis)),
	)
	if err != nil {
		return asConfigError("", err)
	}

	switch c.Backend {
	case BackendMemory:
		if err := c.Memory.Validate(); err != nil {
			return err
		}
	case BackendRedis:
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}

	if c.Breaker != nil {
		return c.Breaker.Validate()
	}
	return nil
}

// Validate checks the sturdyc parameters.
func (c MemoryConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxTTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
	return asConfigError("Memory.", err)
}

// Validate checks the redis connection settings.
func (c RedisConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
		validation.Field(&c.OperationTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ScanTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ScanCount, validation.Min(int64(0))),
	)
	return asConfigError("Redis.", err)
}

// Validate checks the breaker thresholds.
func (c BreakerConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.ConsecutiveFailures, validation.Required, validation.Min(uint32(1))),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
	return asConfigError("Breaker.", err)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// asConfigError reports the first failing field, in name order, as a
// *ConfigError.
func asConfigError(prefix string, err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ConfigError{Field: prefix, Message: err.Error()}
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	first := fields[0]
	return &ConfigError{Field: prefix + first, Message: errs[first].Error()}
}
