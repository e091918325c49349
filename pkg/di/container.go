package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-article-cache/articlecache"
	"github.com/goliatone/go-article-cache/cache"
	"github.com/goliatone/go-article-cache/internal/articlestore"
	"github.com/goliatone/go-article-cache/pkg/logging"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"
)

// Container owns the database, the cache backend and the article components
// built on them.
type Container struct {
	config  Config
	logger  *zap.Logger
	db      *bun.DB
	store   cache.Store
	closers []func() error
	metrics *cache.Metrics
	client  *cache.Client
	repo    *articlecache.CachedRepository
	service *articlecache.Service
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	cacheStore cache.Store
	db         *bun.DB
}

// WithLogger uses logger instead of building one from Config.LogLevel.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCacheStore uses store instead of opening Config.Cache. The caller keeps
// ownership of it.
func WithCacheStore(store cache.Store) Option {
	return func(o *options) { o.cacheStore = store }
}

// WithDB uses db instead of opening Config.Database. The caller keeps
// ownership of it.
func WithDB(db *bun.DB) Option {
	return func(o *options) { o.db = db }
}

// NewContainer validates config and wires every component.
func NewContainer(ctx context.Context, config Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{config: config, logger: o.logger}
	if c.logger == nil {
		logger, err := logging.New(config.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		c.logger = logger
	}

	c.db = o.db
	if c.db == nil {
		db, err := OpenDatabase(config.Database)
		if err != nil {
			return nil, err
		}
		c.db = db
		c.closers = append(c.closers, db.Close)
	}

	if config.Database.AutoMigrate {
		if err := articlestore.CreateSchema(ctx, c.db); err != nil {
			c.Close()
			return nil, err
		}
	}

	c.store = o.cacheStore
	if c.store == nil {
		store, closeStore, err := cache.NewStore(ctx, config.Cache, logging.Named(c.logger, "cache"))
		if err != nil {
			c.Close()
			return nil, err
		}
		c.store = store
		c.closers = append(c.closers, closeStore)
	}

	c.metrics = cache.NewMetrics(config.MetricsNamespace)
	c.client = cache.NewClient(c.store, logging.Named(c.logger, "cache"), c.metrics)
	c.repo = articlecache.New(articlestore.New(c.db), c.client, config.Articles, logging.Named(c.logger, "articles"))
	c.service = articlecache.NewService(c.repo, logging.Named(c.logger, "articles"))

	return c, nil
}

// NewContainerWithDefaults builds a container from DefaultConfig.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, DefaultConfig(), opts...)
}

// OpenDatabase opens cfg.DSN with the driver and bun dialect for cfg.Driver.
func OpenDatabase(cfg DatabaseConfig) (*bun.DB, error) {
	var (
		sqldb *sql.DB
		db    *bun.DB
		err   error
	)

	switch cfg.Driver {
	case DriverPostgres:
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite:
		sqldb, err = sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

// Service returns the article service.
func (c *Container) Service() *articlecache.Service {
	return c.service
}

// Repository returns the cached repository.
func (c *Container) Repository() *articlecache.CachedRepository {
	return c.repo
}

// CacheStore returns the cache backend.
func (c *Container) CacheStore() cache.Store {
	return c.store
}

// CacheClient returns the cache client shared by the repository and the
// invalidator.
func (c *Container) CacheClient() *cache.Client {
	return c.client
}

// Metrics returns the cache metrics.
func (c *Container) Metrics() *cache.Metrics {
	return c.metrics
}

// DB returns the database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns a copy of the configuration the container was built from.
func (c *Container) Config() Config {
	return c.config
}

// Close releases what the container opened, in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	_ = c.logger.Sync()
	return errors.Join(errs...)
}
