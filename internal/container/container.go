// Package container provides dependency injection for the finance-peres application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/finance-peres/internal/cache"
	"fjacquet/finance-peres/internal/catalog"
	"fjacquet/finance-peres/internal/config"
	"fjacquet/finance-peres/internal/connectivity"
	"fjacquet/finance-peres/internal/insights"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/report"
	"fjacquet/finance-peres/internal/sheets"
	"fjacquet/finance-peres/internal/store"

	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	cache    cache.SnapshotCache
	remote   *sheets.Client
	tracker  *connectivity.Tracker
	store    *store.Store
	catalog  *catalog.Catalog
	exporter *report.Exporter
	insights *insights.Service

	redisClient *redis.Client
	gemini      *insights.GeminiGenerator
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewContainer creates and wires all application dependencies.
// The store is created empty; callers decide whether to Warm or Start it.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	c := &Container{logger: logger, config: cfg}

	// Snapshot cache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		c.redisClient = cache.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
		c.cache = cache.NewRedisCache(c.redisClient, cfg.Cache.Key, logger)
	case config.CacheBackendFile, "":
		c.cache = cache.NewFileCache(config.ExpandDirectory(cfg.Cache.Directory), cfg.Cache.Key, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}

	// Remote client and store
	c.remote = sheets.NewClient(cfg.Remote.URL, time.Duration(cfg.Remote.TimeoutSeconds)*time.Second, logger)
	if !c.remote.Configured() {
		logger.Warn("Remote URL not configured, working from the local cache only")
	}
	c.tracker = connectivity.NewTracker(logger)
	c.store = store.New(c.cache, c.remote, c.tracker, logger, store.Options{
		Fallback: store.FallbackPolicy(cfg.Sync.FetchFallback),
	})

	// Category catalog
	cat, err := catalog.Load(cfg.Categories.File, logger)
	if err != nil {
		c.closeClients()
		return nil, fmt.Errorf("error loading categories: %w", err)
	}
	c.catalog = cat

	// Exporter
	delimiter := ';'
	if runes := []rune(cfg.Export.Delimiter); len(runes) == 1 {
		delimiter = runes[0]
	}
	c.exporter = report.NewExporter(delimiter, cfg.Export.IncludeBOM, logger)

	// Insights (if enabled)
	var generator insights.Generator
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := insights.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			c.closeClients()
			return nil, fmt.Errorf("error creating insights client: %w", err)
		}
		c.gemini = gemini
		generator = gemini
		logger.Info("AI insights enabled", logging.F(logging.FieldModel, cfg.AI.Model))
	} else {
		logger.Info("AI insights disabled")
	}
	c.insights = insights.NewService(generator, cfg.AI.RequestsPerMinute,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second, logger)

	logger.Info("Container initialized successfully",
		logging.F("cache_backend", cfg.Cache.Backend),
		logging.F("remote_configured", c.remote.Configured()),
		logging.F("ai_enabled", generator != nil))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the transaction store.
func (c *Container) GetStore() *store.Store {
	return c.store
}

// GetCache returns the snapshot cache backing the store.
func (c *Container) GetCache() cache.SnapshotCache {
	return c.cache
}

// GetRemote returns the spreadsheet client.
func (c *Container) GetRemote() *sheets.Client {
	return c.remote
}

// GetTracker returns the connectivity tracker.
func (c *Container) GetTracker() *connectivity.Tracker {
	return c.tracker
}

// GetCatalog returns the category catalog.
func (c *Container) GetCatalog() *catalog.Catalog {
	return c.catalog
}

// GetExporter returns the CSV and XLSX exporter.
func (c *Container) GetExporter() *report.Exporter {
	return c.exporter
}

// GetInsights returns the insights service. It is never nil; when AI is
// disabled every call returns insights.ErrDisabled.
func (c *Container) GetInsights() *insights.Service {
	return c.insights
}

// Close waits for in-flight remote writes and releases network clients.
func (c *Container) Close() error {
	c.store.Wait()
	err := c.closeClients()
	c.logger.Info("Container closed")
	return err
}

func (c *Container) closeClients() error {
	var errs []error
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing redis client: %w", err))
		}
	}
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing insights client: %w", err))
		}
	}
	return errors.Join(errs...)
}
