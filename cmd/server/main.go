package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthtrack/internal/api"
	"healthtrack/internal/config"
	"healthtrack/internal/database"
	"healthtrack/internal/fixtures"
	"healthtrack/internal/logs"
	"healthtrack/internal/metrics"
	"healthtrack/internal/store"
	"healthtrack/internal/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "healthtrack: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Root context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Logger
	logger := logs.NewLogger(cfg.Log.MaxSize, logs.ParseLevel(cfg.Log.Level))
	logger.SetOutput(os.Stdout)

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Store
	var (
		repo    store.Repository
		options []api.Option
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg.Database.Pool(), logger, metricsRegistry)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool, logger); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		repo = store.NewPostgres(db.Pool, metricsRegistry)
		options = append(options, api.WithReadinessCheck(db.Health))
	default:
		repo = store.NewMemory(metricsRegistry)
	}

	if cfg.Seed.Enabled {
		if err := seed(ctx, repo, cfg.Seed.Path, logger); err != nil {
			return err
		}
	}

	// Upload simulation
	simulator := upload.NewSimulator(
		repo,
		cfg.Upload.AnalysisDelay,
		cfg.Upload.QueueSize,
		logger,
		metricsRegistry,
	)
	go simulator.Start(ctx)

	// API
	handler := api.NewHandler(
		repo,
		simulator,
		metricsRegistry,
		logger,
		cfg.Notifications,
		options...,
	)

	var routerOpts api.RouterOptions
	if cfg.RateLimit.Enabled {
		routerOpts.RateLimiter = api.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, routerOpts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			"addr", server.Addr,
			"env", cfg.Server.Env,
			"store", cfg.Store.Driver,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// seed loads the mock exams into an empty repository.
func seed(ctx context.Context, repo store.Repository, path string, logger *logs.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect repository: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("repository not empty, skipping seed", "exams", len(existing))
		return nil
	}

	records, err := fixtures.Load(path)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := repo.Append(ctx, r); err != nil {
			return fmt.Errorf("failed to seed exam %s: %w", r.ID, err)
		}
	}
	logger.Info("seeded exams", "count", len(records))
	return nil
}
