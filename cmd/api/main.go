package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/grocerylist-backend/api"
	"github.com/angelmondragon/grocerylist-backend/api/routes"
	"github.com/angelmondragon/grocerylist-backend/internal/cart"
	"github.com/angelmondragon/grocerylist-backend/internal/categories"
	"github.com/angelmondragon/grocerylist-backend/internal/items"
	"github.com/angelmondragon/grocerylist-backend/pkg/config"
	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	"github.com/angelmondragon/grocerylist-backend/pkg/instance"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"github.com/angelmondragon/grocerylist-backend/pkg/metrics"
	"github.com/angelmondragon/grocerylist-backend/pkg/migrate"
	"github.com/angelmondragon/grocerylist-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		redisPinger redis.Pinger
		idempotency redis.IdempotencyStore
		locker      cart.Locker = cart.NewLocalLocker(cfg.Cart.LockWait)
	)
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		redisLocker, lockErr := cart.NewRedisLocker(redisClient, cfg.Cart.LockTTL, cfg.Cart.LockWait, logg)
		if lockErr != nil {
			return lockErr
		}
		redisPinger, idempotency, locker = redisClient, redisClient, redisLocker
	} else {
		logg.Warn(ctx, "redis not configured; using in-process cart locks without idempotency replay")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	conn := dbClient.DB()
	categoryService, err := categories.NewService(categories.NewRepository(conn))
	if err != nil {
		return err
	}
	cartRepo := cart.NewRepository(conn)
	itemService, err := items.NewService(items.NewRepository(conn), dbClient, cartRepo, logg)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cartRepo, dbClient, locker, logg, cart.WithMetrics(cartMetrics))
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"db":       dbClient.Dialect(),
		"redis":    cfg.Redis.Enabled(),
	})
	logg.Info(logCtx, "starting api server")

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisPinger,
		idempotency,
		httpMetrics,
		registry,
		categoryService,
		itemService,
		cartService,
	)
	return api.Serve(ctx, api.NewServer(addr, handler), logg)
}
