package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/auth"
	"github.com/SAP-F-2025/skilltree-service/internal/config"
	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/observability"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/skilltree-service/internal/services"
	"github.com/SAP-F-2025/skilltree-service/internal/storage"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
	"github.com/SAP-F-2025/skilltree-service/pkg"
)

// Runtime is everything one command invocation needs
type Runtime struct {
	Config   *config.Config
	Logger   utils.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Repo     repositories.Repository
	Services services.ServiceManager
	Metrics  *observability.Metrics
	Verifier auth.CredentialVerifier
}

// NewRuntime connects to the configured stores and initializes services.
// Redis is optional; a failed connection only disables the catalog cache.
func NewRuntime(ctx context.Context, cfg *config.Config) (rt *Runtime, err error) {
	logger, err := utils.NewZapLogger(utils.LoggerOptions{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		FilePath:    cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt = &Runtime{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}
	defer func() {
		if err != nil {
			_ = rt.Close(ctx)
		}
	}()

	rt.DB, err = pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.URL != "" {
		rt.Redis, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", "error", err)
			rt.Redis, err = nil, nil
		}
	}

	rt.Repo = postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          rt.DB,
		RedisClient: rt.Redis,
		CacheTTL:    cfg.Redis.CacheTTL,
		Logger:      logger,
	})

	publisher, err := events.NewEventPublisher(cfg.Events, logger)
	if err != nil {
		return nil, err
	}

	blobs, err := storage.NewBlobResolver(cfg.Storage)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	rt.Verifier = auth.NewBcryptVerifier(0)
	rt.Services = services.NewServiceManager(services.ServiceDependencies{
		Repo:      rt.Repo,
		Logger:    logger,
		Validator: validator.New(),
		Verifier:  rt.Verifier,
		Clock:     services.SystemClock{},
		Publisher: publisher,
		Metrics:   rt.Metrics,
		Blobs:     blobs,
	})
	if err = rt.Services.Initialize(ctx); err != nil {
		return nil, err
	}

	return rt, nil
}

// Close pushes metrics when a gateway is configured, then releases
// connections in reverse order of creation
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error

	if r.Config != nil && r.Metrics != nil {
		if err := r.Metrics.Push(ctx, r.Config.Metrics.PushgatewayURL, r.Config.Metrics.Job); err != nil {
			r.Logger.Warn("Metrics push failed", "error", err)
		}
	}

	if r.Services != nil {
		errs = append(errs, r.Services.Shutdown(ctx))
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if r.Logger != nil {
		r.Logger.Sync()
	}

	return errors.Join(errs...)
}
