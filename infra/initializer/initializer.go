// Package initializer builds the infrastructure dependencies of the
// application from its configuration.
package initializer

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/bankmanager/infra"
	infraarchive "github.com/amirasaad/bankmanager/infra/archive"
	infracache "github.com/amirasaad/bankmanager/infra/cache"
	"github.com/amirasaad/bankmanager/infra/lock"
	infranotification "github.com/amirasaad/bankmanager/infra/notification"
	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/pkg/app"
	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/cache"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/scheduler"
	"github.com/redis/go-redis/v9"
)

// InitializeDependencies initializes all the application dependencies.
// The caller owns the returned Deps and must Close them.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	logger := SetupLogger(cfg.Log)
	d := &app.Deps{Logger: logger}
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	d.Closers = append(d.Closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	// Initialize unit of work
	d.Uow = infrarepo.NewUoW(db)

	var rdb *redis.Client
	if cfg.Redis != nil && cfg.Redis.URL != "" {
		if rdb, err = infra.NewRedisClient(cfg.Redis); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		d.Closers = append(d.Closers, rdb.Close)
	}

	d.ArchiveStore = newArchiveStore(cfg.Archive, rdb, cfg.Redis, logger)
	d.Locker = newLocker(rdb, cfg.Redis, logger)

	notifier, err := infranotification.New(cfg.Notification, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	d.Notifier = notifier
	d.Closers = append(d.Closers, notifier.Close)

	return d, nil
}

// newArchiveStore returns the cloud archive behind a lookup cache, shared
// through Redis when available. Without an archive URL, archived accounts
// are kept in memory and are not cached.
func newArchiveStore(
	cfg *config.Archive,
	rdb *redis.Client,
	redisCfg *config.Redis,
	logger *slog.Logger,
) archive.Store {
	if cfg == nil || cfg.URL == "" {
		logger.Warn("No archive URL configured, archived accounts are kept in memory")
		return infraarchive.NewMemoryStore()
	}
	var c cache.RecordCache = infracache.NewMemoryCache()
	if rdb != nil {
		c = infracache.NewRedisRecordCache(rdb, redisCfg.KeyPrefix, logger)
	}
	return infracache.NewArchiveStore(infraarchive.NewCloudStore(cfg, logger), c, cfg.CacheTTL, logger)
}

// newLocker returns a Redis lock shared by every scheduler process when
// Redis is configured, an in-process lock otherwise.
func newLocker(rdb *redis.Client, cfg *config.Redis, logger *slog.Logger) scheduler.Locker {
	if rdb == nil {
		logger.Warn("No Redis URL configured, job locks only cover this process")
		return lock.NewMemory()
	}
	return lock.NewRedisWithClient(rdb, cfg.KeyPrefix, logger)
}
