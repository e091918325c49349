package di

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-article-cache/cache"
	"github.com/goliatone/go-article-cache/internal/cacheinfra"
	"github.com/goliatone/go-article-cache/pkg/testsupport"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Cache.Backend != cache.BackendMemory {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Articles.ItemTTL != 300*time.Second || cfg.Articles.ListTTL != 60*time.Second {
		t.Errorf("unexpected TTL defaults %+v", cfg.Articles)
	}
}

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("ARTICLECACHE_TEST_DSN", "postgres://blog@db:5432/blog?sslmode=disable")
	t.Setenv("ARTICLECACHE_TEST_REDIS", "cache:6380")

	path := testsupport.TempFile(t, []byte(`
log_level: debug
metrics_namespace: blog
database:
  driver: postgres
  dsn: ${ARTICLECACHE_TEST_DSN}
  auto_migrate: false
  max_open_conns: 8
cache:
  backend: redis
  redis:
    addr: ${ARTICLECACHE_TEST_REDIS}
    operation_timeout: 250ms
  breaker:
    consecutive_failures: 3
    timeout: 10s
articles:
  item_ttl: 10m
  list_ttl: 30s
  legacy_index_cleanup: true
`))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.MetricsNamespace != "blog" {
		t.Errorf("unexpected top level %q %q", cfg.LogLevel, cfg.MetricsNamespace)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.DSN != "postgres://blog@db:5432/blog?sslmode=disable" {
		t.Errorf("unexpected database %+v", cfg.Database)
	}
	if cfg.Database.AutoMigrate || cfg.Database.MaxOpenConns != 8 {
		t.Errorf("unexpected pool settings %+v", cfg.Database)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Redis.Addr != "cache:6380" {
		t.Errorf("unexpected cache %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.OperationTimeout != 250*time.Millisecond {
		t.Errorf("unexpected operation timeout %v", cfg.Cache.Redis.OperationTimeout)
	}
	if cfg.Cache.Breaker == nil || cfg.Cache.Breaker.ConsecutiveFailures != 3 || cfg.Cache.Breaker.Timeout != 10*time.Second {
		t.Errorf("unexpected breaker %+v", cfg.Cache.Breaker)
	}
	if cfg.Articles.ItemTTL != 10*time.Minute || cfg.Articles.ListTTL != 30*time.Second || !cfg.Articles.LegacyIndexCleanup {
		t.Errorf("unexpected article options %+v", cfg.Articles)
	}
}

func TestParseConfig_KeepsDefaultsForMissingSections(t *testing.T) {
	cfg, err := ParseConfig([]byte("log_level: warn\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected warn, got %q", cfg.LogLevel)
	}
	def := DefaultConfig()
	if cfg.Database != def.Database || cfg.Articles != def.Articles {
		t.Errorf("expected defaults to survive, got %+v", cfg)
	}
}

func TestParseConfig_UnsetVariableIsKept(t *testing.T) {
	cfg, err := ParseConfig([]byte("database:\n  dsn: ${ARTICLECACHE_TEST_UNSET_VAR}\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Database.DSN != "${ARTICLECACHE_TEST_UNSET_VAR}" {
		t.Errorf("expected literal reference, got %q", cfg.Database.DSN)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "database: [", "failed to parse YAML"},
		{"unknown driver", "database:\n  driver: oracle\n", "database"},
		{"unknown backend", "cache:\n  backend: memcached\n", "cache"},
		{"zero list ttl", "articles:\n  list_ttl: 0s\n", "articles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q in %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseConfig_CacheErrorIsConfigError(t *testing.T) {
	_, err := ParseConfig([]byte("cache:\n  backend: memcached\n"))
	var cfgErr *cacheinfra.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "Backend" {
		t.Errorf("expected Backend field, got %q", cfgErr.Field)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("testdata/does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_SampleFile(t *testing.T) {
	t.Setenv("ARTICLECACHE_DB_DRIVER", "postgres")
	t.Setenv("ARTICLECACHE_DB_DSN", "postgres://blog@localhost:5432/blog?sslmode=disable")
	t.Setenv("ARTICLECACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("ARTICLECACHE_REDIS_PASSWORD", "")

	cfg, err := LoadConfig("../../configs/articlecache.yaml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Breaker == nil {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Articles.ItemTTL != 300*time.Second || cfg.Articles.ListTTL != 60*time.Second {
		t.Errorf("unexpected TTLs %+v", cfg.Articles)
	}
}
