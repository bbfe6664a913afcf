package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/itemhub/item-service/internal/api"
	"github.com/itemhub/item-service/internal/config"
	"github.com/itemhub/item-service/internal/db"
	"github.com/itemhub/item-service/internal/metrics"
	"github.com/itemhub/item-service/internal/processor"
	"github.com/itemhub/item-service/internal/queue"
	"github.com/itemhub/item-service/internal/ratelimiter"
	"github.com/itemhub/item-service/internal/repository"
	"github.com/itemhub/item-service/internal/service"
	"github.com/itemhub/item-service/internal/worker"
)

func serveCmd(deps func() (*zap.Logger, *config.Config)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, then serve the HTTP API until SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg := deps()
			return serve(cmd.Context(), logger, cfg)
		},
	}
}

func serve(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	// ---- database ----
	dbPool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	version, err := db.Migrate(cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations applied", zap.Uint("version", version))

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	repo := repository.NewPgItemRepository(dbPool)
	limiter := ratelimiter.New(cfg.ProcessRateLimit)

	// ---- worker pool ----
	// Its own context: the pool outlives the HTTP server during shutdown so
	// in-flight units can finish.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	pool := worker.NewPool(cfg.ProcessWorkers, queue.New(cfg.ProcessQueueSize), logger, m.PoolHooks())
	pool.Start(workerCtx)
	logger.Info("worker pool started",
		zap.Int("workers", pool.Size()),
		zap.Int("queue_capacity", pool.Capacity()),
		zap.Bool("store_rate_unlimited", limiter.Unlimited()),
	)

	proc := processor.New(repo, pool, limiter, logger, m.ProcessorHooks())
	svc := service.NewItemService(repo, proc, cfg.ProcessTimeout, logger)

	// ---- HTTP server ----
	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.Deps{
			Service:  svc,
			Pool:     pool,
			DB:       dbPool,
			Gatherer: reg,
			Logger:   logger,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.ProcessInterval > 0 {
		runner := worker.NewScheduledRunner(svc, cfg.ProcessInterval, logger)
		g.Go(func() error {
			runner.Run(gctx)
			return nil
		})
	}

	// ---- graceful shutdown ----
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		// 1. Stop accepting new HTTP requests.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", zap.Error(err))
		}

		// 2. Stop the pool; workers drain what is already queued.
		cancelWorkers()

		// 3. Wait for in-flight units to finish.
		pool.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped cleanly")
	return nil
}
