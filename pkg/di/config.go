package di

import (
	"fmt"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-yaml"
	"github.com/goliatone/go-article-cache/articlecache"
	"github.com/goliatone/go-article-cache/cache"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config aggregates everything the container wires.
type Config struct {
	LogLevel         string               `yaml:"log_level"`
	MetricsNamespace string               `yaml:"metrics_namespace"`
	Database         DatabaseConfig       `yaml:"database"`
	Cache            cache.Config         `yaml:"cache"`
	Articles         articlecache.Options `yaml:"articles"`
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	// AutoMigrate creates the users and articles tables on startup.
	AutoMigrate bool `yaml:"auto_migrate"`

	// MaxOpenConns caps the pool. In-memory sqlite needs 1.
	MaxOpenConns int `yaml:"max_open_conns"`
}

// DefaultConfig returns an in-memory sqlite database with the in-process
// cache backend.
func DefaultConfig() Config {
	return Config{
		LogLevel:         "info",
		MetricsNamespace: "articles",
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          ":memory:",
			AutoMigrate:  true,
			MaxOpenConns: 1,
		},
		Cache:    cache.DefaultConfig(),
		Articles: articlecache.DefaultOptions(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Articles.Validate(); err != nil {
		return fmt.Errorf("articles: %w", err)
	}
	return nil
}

// Validate checks the driver and DSN.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
	)
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig expands ${VAR} references from the environment, decodes the
// YAML over DefaultConfig and validates the result. Unset variables are left
// as written.
func ParseConfig(data []byte) (Config, error) {
	expanded := envPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
