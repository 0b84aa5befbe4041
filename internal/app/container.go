// Package app wires configuration, storage, messaging, and the application
// services into a single container used by the CLI entrypoint.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	digestServices "github.com/Sc0remac/cadenzor/internal/digest/application/services"
	digestCache "github.com/Sc0remac/cadenzor/internal/digest/infrastructure/cache"
	priorityServices "github.com/Sc0remac/cadenzor/internal/priority/application/services"
	"github.com/Sc0remac/cadenzor/internal/priority/infrastructure/classify"
	priorityPersistence "github.com/Sc0remac/cadenzor/internal/priority/infrastructure/persistence"
	rulesDomain "github.com/Sc0remac/cadenzor/internal/rules/domain"
	rulesPersistence "github.com/Sc0remac/cadenzor/internal/rules/infrastructure/persistence"
	"github.com/Sc0remac/cadenzor/internal/shared/infrastructure/database"
	"github.com/Sc0remac/cadenzor/internal/shared/infrastructure/eventbus"
	"github.com/Sc0remac/cadenzor/pkg/config"
	"github.com/Sc0remac/cadenzor/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	SQLiteDB     *sql.DB
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client
	Publisher    eventbus.Publisher

	RuleRepo      rulesDomain.Repository
	ConfigService *priorityServices.ConfigService
	DigestService *digestServices.DigestService
	Classifier    *classify.Client
	Health        *observability.HealthRegistry
}

// NewContainer builds the dependency graph. SQLite and PostgreSQL are
// required; Redis, RabbitMQ, and the classifier degrade to reduced
// functionality when unavailable.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	sqliteDB, err := database.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule store: %w", err)
	}
	c.SQLiteDB = sqliteDB
	c.Health.Register("sqlite", observability.DatabaseHealthChecker(sqliteDB.PingContext))

	ruleRepo := rulesPersistence.NewSQLiteRuleRepository(sqliteDB)
	if err := ruleRepo.EnsureSchema(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to migrate rule store: %w", err)
	}
	c.RuleRepo = ruleRepo

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, 0)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	c.PostgresPool = pool
	c.Health.Register("postgres", observability.DatabaseHealthChecker(pool.Ping))

	configRepo := priorityPersistence.NewPostgresConfigRepository(pool)
	if err := configRepo.EnsureSchema(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to migrate scoring config store: %w", err)
	}
	c.ConfigService = priorityServices.NewConfigService(configRepo)

	// Redis is optional: without it digests are rebuilt on every request.
	var cache digestServices.PayloadCache
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.Warn("invalid redis url, digest caching disabled", "error", err)
	} else {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, digest caching disabled", "error", err)
			_ = client.Close()
		} else {
			c.RedisClient = client
			cache = digestCache.NewRedisDigestCache(client, cfg.DigestCacheTTL)
			c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
		}
	}

	// RabbitMQ is optional: without it events stay in process.
	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, using in-process event bus", "error", err)
		c.Publisher = eventbus.NewInProcessBus(logger)
	} else {
		c.Publisher = publisher
		c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
	}

	c.DigestService = digestServices.NewDigestService(cache, c.Publisher, logger, digestServices.DigestLimits{
		PerProject: cfg.DigestPerProject,
		TopActions: cfg.DigestTopActions,
	})

	if cfg.ClassifierURL != "" {
		clientCfg := classify.DefaultConfig(cfg.ClassifierURL)
		if cfg.ClassifierTimeout > 0 {
			clientCfg.Timeout = cfg.ClassifierTimeout
		}
		c.Classifier = classify.NewClient(clientCfg, logger)
		c.Health.Register("classifier", observability.ClassifierHealthChecker(c.Classifier.Ping))
	}

	return c, nil
}

// Close releases all held connections.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close rule store", "error", err)
		}
	}
}
