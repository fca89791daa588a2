package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
	"ledger/internal/store"
	"ledger/internal/store/memory"
)

const (
	statsCacheSize   = 64
	statsCacheSweep  = time.Minute
	redisStatsPrefix = "ledger:"
	defaultStatsTTL  = 5 * time.Minute
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	now    func() time.Time
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		now:    time.Now,
	}
}

// CreateBackend opens a fresh session store and wires the ledger service
// around it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var cleanups []func() error
	cleanup := func() error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			errs = append(errs, cleanups[i]())
		}
		return errors.Join(errs...)
	}

	repo, err := f.createRepository(ctx, config)
	if err != nil {
		return nil, err
	}
	cleanups = append(cleanups, repo.Close)

	opts := []services.Option{
		services.WithLogger(f.logger),
		services.WithClock(f.now),
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			opts = append(opts, services.WithPublisher(client))
			cleanups = append(cleanups, client.Close)
		}
	}

	statsCache, stop := f.createStatsCache(ctx, config)
	opts = append(opts, services.WithStatsCache(statsCache))
	cleanups = append(cleanups, stop)

	svc := services.NewLedgerService(repo, opts...)
	if err := svc.AnnounceSnapshot(ctx); err != nil {
		f.logger.Warn("Failed to announce seeded session", log.FieldError, err)
	}
	f.logger.Info("Initialized ledger backend",
		"backend", config.Type.String(),
		"seed_file", config.SeedFile,
		"amqp_enabled", config.AMQPURL != "",
		"redis_enabled", config.RedisURL != "")

	return &BackendResult{Service: svc, Repo: repo, Cleanup: cleanup}, nil
}

func (f *DefaultFactory) createRepository(ctx context.Context, config Config) (store.Repository, error) {
	switch config.Type {
	case MemoryBackend:
		repo, err := memory.NewFromSeedFile(ctx, config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory store: %w", err)
		}
		return repo, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		snap, err := store.LoadSnapshot(config.SeedFile)
		if err == nil {
			err = store.Seed(ctx, repo, snap)
		}
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("seed SQLite repository: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}

// createStatsCache prefers Redis and falls back to an in-process LRU when
// Redis is not configured or not reachable.
func (f *DefaultFactory) createStatsCache(ctx context.Context, config Config) (cache.Cache[core.MonthlyStats], func() error) {
	ttl := config.StatsCacheTTL
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}

	if config.RedisURL != "" {
		client, err := cache.NewRedisClient(config.RedisURL)
		if err == nil {
			rc := cache.NewRedisCache[core.MonthlyStats](client, redisStatsPrefix, ttl, f.logger.Logger)
			if err = rc.Ping(ctx); err == nil {
				f.logger.Info("Using Redis stats cache", "ttl", ttl)
				return rc, client.Close
			}
			client.Close()
		}
		f.logger.Warn("Redis unavailable, using in-process stats cache", log.FieldError, err)
	}

	lru := cache.NewLRUCache[core.MonthlyStats](statsCacheSize, ttl)
	manager := cache.NewManager(f.logger.Logger)
	manager.Register(lru)
	manager.StartCleanup(statsCacheSweep)
	return lru, func() error {
		manager.Stop()
		return nil
	}
}
