// Command api is the CivicLens Data API server.
//
// Usage:
//
//	civiclens-api
//	API_PORT=8080 civiclens-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/civiclens/civiclens-data/internal/api"
	"github.com/civiclens/civiclens-data/internal/cache"
	"github.com/civiclens/civiclens-data/internal/config"
	"github.com/civiclens/civiclens-data/internal/db"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
	"github.com/civiclens/civiclens-data/internal/store"
	"github.com/civiclens/civiclens-data/internal/syncer"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Debug logging outside production
	if cfg.Debug && !cfg.IsProduction() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache, err := cache.New(cfg.RedisURL, cfg.CacheEnabled)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", appCache.Enabled())

	// Build the jurisdiction registry and sync engine
	registry := config.Registry()
	sources := syncer.BuildSources(registry, logger)
	national := openstates.NewClient(cfg.OpenStatesAPIKey, 600, logger)
	st := store.New(pool.Pool)
	sync := syncer.New(syncer.WrapStore(st), national, sources, registry, logger)

	// Start the recurring sync trigger
	if cfg.SyncSchedule != "" {
		cronRunner, err := syncer.StartSchedule(ctx, sync, cfg.SyncSchedule, logger)
		if err != nil {
			logger.Error("Failed to start sync schedule", "error", err)
			os.Exit(1)
		}
		defer cronRunner.Stop()
	}

	// Create router
	router := api.NewRouter(pool, st, appCache, cfg, sync, sources, national, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // the manual sync trigger is synchronous
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting CivicLens Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"jurisdictions", sync.RegisteredJurisdictions())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
