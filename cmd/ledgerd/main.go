// Package main - точка входа демона academy-ledger.
//
// ledgerd собирает движок учебного реестра из его зависимостей:
// хранилища (in-memory или PostgreSQL), шина событий (локальная или
// Redis Pub/Sub), шлюз выплат и кеш лидерборда. Выбор реализации
// управляется конфигурацией и feature-флагами, семантика движка от
// выбора не зависит.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/elronom/academy-ledger/config"
	"github.com/elronom/academy-ledger/internal/application"
	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/internal/infrastructure/hashing"
	"github.com/elronom/academy-ledger/internal/infrastructure/messaging"
	"github.com/elronom/academy-ledger/internal/infrastructure/persistence/memory"
	"github.com/elronom/academy-ledger/internal/infrastructure/persistence/postgres"
	"github.com/elronom/academy-ledger/internal/infrastructure/persistence/redis"
	"github.com/elronom/academy-ledger/internal/infrastructure/reward"
	"github.com/elronom/academy-ledger/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	slogLog := setupSlog(cfg)

	log.Info("starting academy ledger",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	owner, err := shared.NewAddress(cfg.Engine.OwnerAddress)
	if err != nil {
		return fmt.Errorf("invalid owner address: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩА (in-memory или PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	var stores application.Stores
	var txRunner shared.TxRunner = shared.NopTxRunner{}

	if cfg.Features.IsEnabled(config.FeaturePersistencePostgres) {
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if err := dbConn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		if cfg.Database.MigrateOnStart {
			log.Info("checking database migrations...")
			migrator := postgres.NewMigrator(dbConn)
			if err := migrator.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("database schema is up to date")
		}

		questRepo := postgres.NewQuestRepository(dbConn)
		stores = application.Stores{
			Quests:      questRepo,
			Completions: questRepo,
			Progresses:  postgres.NewProgressRepository(dbConn),
			Credentials: postgres.NewCredentialRepository(dbConn),
			Scores:      postgres.NewLeaderboardRepository(dbConn),
			Access:      postgres.NewAccessRepository(dbConn),
		}
		txRunner = dbConn
	} else {
		log.Info("using in-memory stores")
		questStore := memory.NewQuestStore()
		stores = application.Stores{
			Quests:      questStore,
			Completions: questStore,
			Progresses:  memory.NewProgressStore(),
			Credentials: memory.NewCredentialStore(),
			Scores:      memory.NewLeaderboardStore(),
			Access:      memory.NewAccessStore(),
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (кеш лидерборда и межэкземплярная шина)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache

	needRedis := !cfg.Redis.Disabled &&
		(cfg.Features.IsEnabled(config.FeatureCacheRedisScores) ||
			cfg.Features.IsEnabled(config.FeatureEventsRedisBus))

	if needRedis {
		log.Info("connecting to Redis...")
		redisCfg := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   3,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolTimeout:  cfg.Redis.DialTimeout,
		}

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, degrading to local-only mode",
				logger.Err(err))
			redisCache = nil
		} else {
			defer func() {
				log.Info("closing Redis connection...")
				_ = redisCache.Close()
			}()
			log.Info("Redis connection established")
		}
	}

	var scores leaderboard.Repository = stores.Scores
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureCacheRedisScores) {
		scores = redis.NewScoreCache(redisCache, stores.Scores)
		stores.Scores = scores
		log.Info("leaderboard score cache enabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ШИНА СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	localBusCfg := messaging.DefaultInMemoryEventBusConfig()
	localBusCfg.AsyncMode = cfg.Features.IsEnabled(config.FeatureEventsAsync)
	localBusCfg.Logger = slogLog

	var eventBus shared.EventBus
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureEventsRedisBus) {
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         messaging.NewGoRedisClient(redisCache.Client()),
			InstanceID:     cfg.Engine.InstanceID,
			LocalBusConfig: localBusCfg,
			Logger:         slogLog,
		})
		if err != nil {
			return fmt.Errorf("failed to start redis event bus: %w", err)
		}
		eventBus = redisBus
		log.Info("cross-instance event bus enabled")
	} else {
		eventBus = messaging.NewInMemoryEventBus(localBusCfg)
	}
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	if cfg.Features.IsEnabled(config.FeatureEventsAudit) {
		trail := messaging.NewAuditTrail()
		if err := trail.Attach(eventBus); err != nil {
			return fmt.Errorf("failed to attach audit trail: %w", err)
		}
		log.Info("audit trail enabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ШЛЮЗ ВЫПЛАТ
	// ─────────────────────────────────────────────────────────────────────────
	var disburser reward.Disburser = reward.NewLedgerDisburser(log)
	if cfg.Features.IsEnabled(config.FeatureRewardsResilient) {
		disburser = reward.NewResilientDisburser(disburser, log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. СБОРКА ДВИЖКА
	// ─────────────────────────────────────────────────────────────────────────
	engine := application.NewEngine(application.Config{
		Owner:     owner,
		Stores:    stores,
		Publisher: eventBus,
		Disburser: disburser,
		Hasher:    hashing.NewKeccakTagHasher(),
		Tx:        txRunner,
		Logger:    log,
	})

	log.Info("academy ledger is running",
		logger.UserAddr(engine.Owner().String()),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout))

	log.Info("shutdown completed successfully")
	return nil
}

// setupSlog настраивает slog для инфраструктурных компонентов,
// которые логируют через стандартный структурированный логгер.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
