// Command api is the LeetBoard dashboard API server.
//
// Usage:
//
//	leetboard-api
//	TRACKER_BASE_URL=https://tracker.example.com API_PORT=8080 leetboard-api

// @title LeetBoard API
// @version 1.0.0
// @description Student performance ranking dashboard API. Fetches problem-solving and contest data from the LeetCode tracker service, normalizes it, and serves filtered, sorted, densely ranked views.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
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

	"github.com/ducslabs/leetboard/internal/api"
	"github.com/ducslabs/leetboard/internal/cache"
	"github.com/ducslabs/leetboard/internal/config"
	"github.com/ducslabs/leetboard/internal/dashboard"
	"github.com/ducslabs/leetboard/internal/tracker"

	_ "github.com/ducslabs/leetboard/docs" // swagger docs
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

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Tracker client and dashboard store
	client := tracker.NewClient(cfg.TrackerBaseURL, cfg.RequestTimeout, cfg.TrackerRateLimit, logger)
	store := dashboard.NewStore(client, cfg.DefaultView, logger)

	// Warm the default view; a failed initial load is not fatal — the first
	// request retries it.
	if err := store.Reload(ctx); err != nil {
		logger.Warn("Initial view load failed", "view", cfg.DefaultView, "error", err)
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Auto-refresh the active view, if configured
	go dashboard.StartAutoRefresh(ctx, store, cfg.AutoRefreshInterval, logger)

	// Create router
	router := api.NewRouter(store, client, appCache, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting LeetBoard API",
			"addr", addr,
			"environment", cfg.Environment,
			"tracker", cfg.TrackerBaseURL,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
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
