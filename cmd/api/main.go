package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "wiki-triggers/internal/infra/adapter/persistence/postgres"
	"wiki-triggers/internal/infra/db"
	"wiki-triggers/internal/infra/feedsource"
	"wiki-triggers/internal/infra/mediawiki"
	"wiki-triggers/internal/observability/logging"
	"wiki-triggers/internal/resilience/circuitbreaker"
	"wiki-triggers/pkg/config"
	"wiki-triggers/pkg/ttlcache"

	trgUC "wiki-triggers/internal/usecase/trigger"

	hhttp "wiki-triggers/internal/handler/http"
	"wiki-triggers/internal/handler/http/requestid"
	htrigger "wiki-triggers/internal/handler/http/trigger"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
}

// initDatabase opens the hashtag index connection and runs migrations.
// DB_RESET=true drops and recreates the schema first, for development
// against disposable databases.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if config.GetEnvString("DB_RESET", "") == "true" {
		logger.Warn("DB_RESET set, dropping hashtag index schema")
		if err := db.MigrateDown(database); err != nil {
			logger.Error("failed to reset database", slog.Any("error", err))
			os.Exit(1)
		}
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	upstreamTimeout := config.GetEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	cacheTTL := config.GetEnvDuration("CACHE_TTL", 5*time.Minute)
	if err := config.ValidatePositiveDuration(cacheTTL); err != nil {
		logger.Error("invalid CACHE_TTL", slog.Any("error", err))
		os.Exit(1)
	}

	cache := ttlcache.New(nil)
	feedClient := feedsource.NewClient(feedsource.DefaultHTTPClient(upstreamTimeout))
	queryClient := mediawiki.NewClient(feedsource.DefaultHTTPClient(upstreamTimeout))
	hashtagRepo := pgRepo.NewHashtagRepo(circuitbreaker.NewDBCircuitBreaker(database))

	services := trgUC.All(trgUC.Deps{
		FeedClient:  feedClient,
		QueryClient: queryClient,
		Hashtags:    hashtagRepo,
		Cache:       cache,
		TTL:         cacheTTL,
		Logger:      logger,
	})

	mux := http.NewServeMux()
	htrigger.Register(mux, services)

	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Cache: cache, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	logger.Info("trigger endpoints registered",
		slog.Int("count", len(services)),
		slog.Duration("cache_ttl", cacheTTL),
		slog.Duration("upstream_timeout", upstreamTimeout))

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID, Recovery, Logging, Body Limit, Timeout, Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)

	middlewareChain := handler

	// Applied in reverse order (innermost to outermost).
	middlewareChain = hhttp.MetricsMiddleware(middlewareChain)
	middlewareChain = hhttp.Timeout(requestTimeout)(middlewareChain)
	middlewareChain = hhttp.LimitRequestBody(64 << 10)(middlewareChain)
	middlewareChain = hhttp.Logging(logger)(middlewareChain)
	middlewareChain = hhttp.Recover(logger)(middlewareChain)
	middlewareChain = requestid.Middleware(middlewareChain)

	return middlewareChain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":" + config.GetEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
