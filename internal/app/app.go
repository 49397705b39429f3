// Package app wires the cache service together: configuration, logging,
// the optional Redis tier, the cache service itself, the scheduled expiry
// sweep and the HTTP server. Dependencies are constructed here and passed
// down explicitly; no package holds a process-wide instance.
package app

import (
	goredis "github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"dashboard-cache/internal/cache"
	"dashboard-cache/internal/common/logging"
	"dashboard-cache/internal/config"
	"dashboard-cache/internal/redis"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Cache       *cache.Service
	WarmLoader  cache.Loader
	Logger      logging.Logger

	sweeper *cron.Cron
}

// New creates a new application instance with all dependencies. warmLoader
// backs the warm endpoint and may be nil when no source of truth is wired.
func New(cfg *config.Config, warmLoader cache.Loader) (*App, error) {
	app := &App{
		Config:     cfg,
		WarmLoader: warmLoader,
		Logger:     logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	if err := app.initializeRedis(); err != nil {
		// The distributed tier is optional; the cache degrades to L1-only
		app.Logger.Warn("Redis initialization failed, continuing without distributed tier",
			logging.Field{Key: "error", Value: err.Error()})
	}

	if err := app.initializeCache(); err != nil {
		return nil, err
	}

	if err := app.initializeSweeper(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *App) initializeCache() error {
	cacheConfig := cache.Config{
		MaxEntries:           app.Config.MaxEntries,
		DefaultTTL:           app.Config.DefaultTTL,
		CompressionThreshold: app.Config.CompressionThreshold,
		KeyPrefix:            app.Config.KeyPrefix,
		WarmConcurrency:      app.Config.WarmConcurrency,
	}

	var rdb *goredis.Client
	if app.RedisClient != nil {
		rdb = app.RedisClient.DB()
	}

	service, err := cache.New(cacheConfig, rdb, logging.GetGlobalLogger())
	if err != nil {
		return err
	}

	app.Cache = service
	app.Logger.Info("Cache service initialized",
		logging.Field{Key: "max_entries", Value: cacheConfig.MaxEntries},
		logging.Field{Key: "default_ttl", Value: cacheConfig.DefaultTTL.String()},
		logging.Field{Key: "distributed_tier", Value: rdb != nil},
	)
	return nil
}

// initializeSweeper schedules the proactive expiry sweep. Lazy expiry on
// read already keeps answers correct; the sweep reclaims memory for entries
// nobody asks for.
func (app *App) initializeSweeper() error {
	app.sweeper = cron.New()

	spec := "@every " + app.Config.CleanupInterval.String()
	if _, err := app.sweeper.AddFunc(spec, func() {
		app.Cache.CleanupExpired()
	}); err != nil {
		return err
	}

	app.sweeper.Start()
	app.Logger.Info("Expiry sweep scheduled",
		logging.Field{Key: "interval", Value: app.Config.CleanupInterval.String()})
	return nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
