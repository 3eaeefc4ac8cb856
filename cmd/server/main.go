package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/moyo/internal/migrations/postgres"
	xredis "github.com/garrettladley/moyo/internal/redis"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/server"
	"github.com/garrettladley/moyo/internal/server/handler"
	analyticssvc "github.com/garrettladley/moyo/internal/service/analytics"
	"github.com/garrettladley/moyo/internal/service/auth"
	"github.com/garrettladley/moyo/internal/service/healthfactor"
	"github.com/garrettladley/moyo/internal/service/insight"
	"github.com/garrettladley/moyo/internal/service/medication"
	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/service/reading"
	"github.com/garrettladley/moyo/internal/service/token"
	"github.com/garrettladley/moyo/internal/service/user"
	"github.com/garrettladley/moyo/internal/storage"
	"github.com/garrettladley/moyo/internal/worker/reminder"
	"github.com/garrettladley/moyo/internal/xhttp/middleware"
	"github.com/garrettladley/moyo/internal/xslog"
)

const (
	keyPort        = "port"
	keyGracePeriod = "grace_period"
	keyBackend     = "backend"
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled by a signal or the listener fails.
func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.ReadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	pool, err := initPostgres(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer pool.Close()

	backend, broker, err := initBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close backend", xslog.Error(err))
		}
	}()

	repo := repository.New(pool)

	tokenService := token.NewJWT(cfg.JWT, backend)
	notificationService := notification.NewHybrid(repo.Notifications, broker)
	insightService := insight.NewPostgres(repo.Insights, repo.Users, notificationService)

	mux := server.NewMux(server.Services{
		Auth:          auth.NewPassword(repo.Users, tokenService),
		Tokens:        tokenService,
		Readings:      reading.NewPostgres(repo.Readings, insightService),
		HealthFactors: healthfactor.NewPostgres(repo.HealthFactors),
		Medications:   medication.NewPostgres(repo.Medications),
		Insights:      insightService,
		Notifications: notificationService,
		Users:         user.NewPostgresService(repo.Users),
		Analytics:     analyticssvc.NewPostgres(repo.Readings, repo.HealthFactors, nil),
		Limiter:       backend,
		Checks: map[string]handler.Pinger{
			"postgres": pool,
			"backend":  backend,
		},
	})

	coordinator := server.NewShutdownCoordinator(cfg.Shutdown.StreamGrace)

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: middleware.Chain(mux,
			middleware.Recovery,
			middleware.Logging,
			middleware.Logger(logger),
			middleware.ShutdownContext,
			middleware.RequestID(middleware.WithInboundRequestID()),
			middleware.SecurityHeaders,
			middleware.Gzip(),
		),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Notification streams never finish writing, so there is no global
		// write deadline.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return coordinator.BaseContext() },
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Reminder.Enabled {
		worker := reminder.NewWorker(repo.Notifications, notificationService, cfg.Reminder.Interval, logger)
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.InfoContext(ctx, "starting server", xslog.Version(), slog.String(keyPort, cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "shutting down",
			slog.Duration(keyGracePeriod, cfg.Shutdown.StreamGrace))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Shutdown.Timeout)
		defer cancel()

		// streams get their shutdown event before connections are closed
		coordinator.InitiateShutdown(shutdownCtx)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.InfoContext(ctx, "server stopped")
		return nil
	})

	return g.Wait()
}

// initBackend picks redis when REDIS_URL is set and keeps everything in
// process otherwise.
func initBackend(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.Backend, storage.Broker, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(ctx, "initializing in-memory backend", slog.String(keyBackend, "memory"))
		return storage.NewMemoryBackend(float64(cfg.RateLimit.Limit), cfg.RateLimit.Burst), storage.NewMemoryBroker(), nil
	}

	client, err := xredis.New(ctx, xredis.Config{
		URL:         cfg.Redis.URL,
		PoolSize:    cfg.Redis.PoolSize,
		PingTimeout: cfg.Redis.PingTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis client: %w", err)
	}

	logger.InfoContext(ctx, "initializing Redis backend", slog.String(keyBackend, "redis"))
	backend, err := storage.NewRedisBackend(storage.RedisConfig{
		Client: client,
		// a sliding window has no burst; allow rate plus burst per second
		Limit: cfg.RateLimit.Limit + cfg.RateLimit.Burst,
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return backend, storage.NewRedisBroker(client), nil
}

func initPostgres(ctx context.Context, cfg server.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.InfoContext(ctx, "initializing PostgreSQL")

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return pool, nil
}
