package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"refnet/internal/config"
	"refnet/internal/handlers"
	"refnet/internal/logger"
	"refnet/internal/metrics"
	"refnet/internal/ratelimit"
	"refnet/internal/repositories"
	"refnet/internal/repositories/cache"
	"refnet/internal/repositories/memory"
	"refnet/internal/routes"
	"refnet/internal/services/commission"
	"refnet/internal/services/recharge"
	"refnet/internal/services/referral"
	"refnet/internal/services/user"
	"refnet/internal/services/wallet"
	"refnet/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const version = "1.0.0"

func migrate(cfg *config.Config) error {
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer repositories.CloseDB(db) //nolint:errcheck

	if err := repositories.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	log.Info("schema migrated")
	return nil
}

func serve(ctx context.Context, cfg *config.Config, autoMigrate bool) error {
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.Check{}

	store, db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := repositories.CloseDB(db); err != nil {
				log.Warn("failed to close database", zap.Error(err))
			}
		}()
		if autoMigrate {
			if err := repositories.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
		}
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	var redisClient *redis.Client
	var balanceCache wallet.BalanceCache
	if cfg.Redis.Enabled {
		redisClient = cache.NewRedisClient(cfg.Redis)
		if err := cache.Ping(ctx, redisClient); err != nil {
			// the API still works without the cache; counters fall back to memory below
			log.Warn("redis unavailable, continuing without it", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			cacheService := cache.NewCacheService(redisClient, cfg.BalanceCacheTTL)
			defer cacheService.Close() //nolint:errcheck
			balanceCache = cacheService
			checks["redis"] = cacheService.HealthCheck
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)

	wallets := wallet.NewService(store, balanceCache, log, collector)
	referrals := referral.NewService(store, referral.Config{MaxDepth: cfg.ReferralMaxDepth}, log)
	services := routes.Services{
		Users:       user.NewService(store, referrals, log),
		Referrals:   referrals,
		Commissions: commission.NewService(store, wallets, cfg.ReferralMaxDepth, log, collector),
		Wallets:     wallets,
		Withdrawals: withdrawal.NewService(store, wallets, log),
		Recharges:   recharge.NewService(store, wallets, log),
	}

	limiter, closeLimiter := newLimiter(cfg.RateLimit, redisClient, log)
	defer closeLimiter()

	app := fiber.New(fiber.Config{
		AppName:      "refnet",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(collector.Middleware())

	routes.SetupRoutes(app, services, routes.Options{
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
		Limiter:   limiter,
		Health:    handlers.NewHealthHandler(version, checks),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config, log *zap.Logger) (repositories.Store, *gorm.DB, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using the in-memory store, data is lost on exit")
		return memory.New(), nil, nil
	case "postgres":
		db, err := repositories.InitDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewStore(db), db, nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}

func newLimiter(cfg config.RateLimitConfig, client *redis.Client, log *zap.Logger) (*ratelimit.Limiter, func()) {
	if cfg.Backend == "redis" {
		if client != nil {
			return ratelimit.NewLimiter(ratelimit.NewRedisStore(client, ""), cfg.Max, cfg.Window), func() {}
		}
		log.Warn("redis rate limiting requested but redis is unavailable, using memory counters")
	}
	store := ratelimit.NewMemoryStore(cfg.Window)
	return ratelimit.NewLimiter(store, cfg.Max, cfg.Window), store.Close
}
