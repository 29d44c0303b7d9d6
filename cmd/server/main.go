package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/fraudbase/internal"
	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/cache"
	"github.com/DukeRupert/fraudbase/internal/handler"
	"github.com/DukeRupert/fraudbase/internal/jobs"
	"github.com/DukeRupert/fraudbase/internal/metrics"
	"github.com/DukeRupert/fraudbase/internal/middleware"
	"github.com/DukeRupert/fraudbase/internal/report"
	"github.com/DukeRupert/fraudbase/internal/repository"
	"github.com/DukeRupert/fraudbase/internal/service"
	"github.com/DukeRupert/fraudbase/internal/storage"
	"github.com/DukeRupert/fraudbase/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	repo := repository.New(db)

	// Initialize storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Initialize cache
	var lookupCache cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, "fraudbase:")
		if err != nil {
			return fmt.Errorf("redis initialization failed: %w", err)
		}
		defer rc.Close()
		lookupCache = rc
		logger.Info("Redis cache enabled")
	} else {
		lookupCache = cache.NewMemoryCache()
	}

	// Initialize services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(repo, tokens, logger)
	personService := service.NewPersonService(repo, logger)
	recidivismService := service.NewRecidivismService(repo, logger)
	dashboardService := service.NewDashboardService(repo, lookupCache, cfg.LookupCacheTTL, logger)
	lookupService := service.NewLookupService(repo, lookupCache, cfg.LookupCacheTTL, logger)
	maintenanceService := service.NewMaintenanceService(db, repo, logger)
	uploadService := service.NewUploadService(db, repo, store, cfg.UploadMaxBytes, logger)
	reportService := service.NewReportService(db, repo, store, recidivismService, logger)

	if err := userService.EnsureDefaultAdmin(ctx, cfg.DefaultAdminPassword); err != nil {
		return fmt.Errorf("default admin seed failed: %w", err)
	}

	// Initialize background worker
	var bgWorker *worker.Worker
	if cfg.WorkerEnabled {
		workerCfg := worker.DefaultConfig()
		workerCfg.Concurrency = cfg.WorkerConcurrency
		workerCfg.PollInterval = cfg.WorkerPollInterval
		workerCfg.JobTimeout = cfg.WorkerJobTimeout

		bgWorker, err = worker.New(db, repo, workerCfg, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}

		generators := report.NewRegistry(
			report.NewStyledGenerator(),
			report.NewMonochromeGenerator(nil, logger),
		)
		bgWorker.Register(jobs.NewGenerateReportHandler(reportService, store, generators, logger))
		bgWorker.Register(jobs.NewRefreshViewsHandler(dashboardService, logger))
	}

	// Initialize middleware
	isSecure := !cfg.IsDevelopment()
	authMw := middleware.NewAuthMiddleware(userService, logger)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	defer loginLimiter.Stop()
	loginLimitMw := middleware.NewLoginRateLimitMiddleware(loginLimiter, logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	if cfg.MetricsUsername == "" || cfg.MetricsPassword == "" {
		logger.Warn("Metrics endpoint is not protected; set METRICS_USERNAME and METRICS_PASSWORD")
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	handler.NewHealthHandler(db, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	handler.NewAuthHandler(userService, logger).RegisterRoutes(mux, loginLimitMw.Limit)
	handler.NewUserHandler(userService, logger).RegisterRoutes(mux, authMw.RequireUser, authMw.RequireAdmin)
	handler.NewPersonHandler(personService, logger).RegisterRoutes(mux, authMw.RequireUser)
	handler.NewLookupHandler(lookupService, logger).RegisterRoutes(mux, authMw.RequireUser)
	handler.NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux, authMw.RequireUser, authMw.RequireAdmin)
	handler.NewRecidivismHandler(recidivismService, reportService, logger).RegisterRoutes(mux, authMw.RequireUser)
	handler.NewReportHandler(reportService, logger).RegisterRoutes(mux, authMw.RequireUser)
	handler.NewUploadHandler(uploadService, cfg.UploadMaxBytes, logger).RegisterRoutes(mux, authMw.RequireUser)
	handler.NewMaintenanceHandler(maintenanceService, logger).RegisterRoutes(mux, authMw.RequireUser, authMw.RequireAdmin)

	stack := middleware.Stack(
		middleware.NewRequestLoggingMiddleware(logger).Handler,
		metrics.Middleware,
		middleware.NewSecurityHeadersMiddleware(isSecure).Handler,
		middleware.NewCORS(cfg.AllowedOrigins).Handler,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           stack(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if bgWorker != nil {
		bgWorker.Start(workerCtx)
		logger.Info("Background worker started", "concurrency", cfg.WorkerConcurrency)
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	listenErr := awaitShutdown(sigChan, serverErr, logger)

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if bgWorker != nil {
		bgWorker.Stop()
		stopWorker()
	}

	if listenErr != nil {
		return fmt.Errorf("server error: %w", listenErr)
	}
	logger.Info("Graceful shutdown complete")
	return nil
}

// awaitShutdown blocks until a signal arrives or the listener fails. The
// listener error is returned so run exits non-zero after cleanup.
func awaitShutdown(sig <-chan os.Signal, serverErr <-chan error, logger *slog.Logger) error {
	select {
	case <-sig:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
		return nil
	case err := <-serverErr:
		logger.Error("Server failed", "error", err)
		return err
	}
}

func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.StorageProvider == "r2" {
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		}, logger)
	}
	return storage.NewLocalStorage(storage.LocalConfig{BasePath: cfg.LocalStoragePath}, logger)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
