package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nightfall/internal/app"
	"nightfall/internal/config"
	"nightfall/internal/domain"
	httpTransport "nightfall/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting nightfall server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"players", cfg.Game.RosterSize,
	)

	catalog, err := domain.LoadCatalog(cfg.Game.RoleCatalogFile)
	if err != nil {
		logger.Error("failed to load role catalog", "file", cfg.Game.RoleCatalogFile, "error", err)
		os.Exit(1)
	}
	if err := catalog.Validate(cfg.Game.RosterSize); err != nil {
		logger.Error("role catalog does not match the roster", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	session, err := app.NewGameSession(domain.NewRoster(cfg.Game.RosterSize), catalog, logger, app.NewMetrics(registry))
	if err != nil {
		if errors.Is(err, domain.ErrCatalogSize) {
			logger.Error("role catalog does not match the roster", "error", err)
		} else {
			logger.Error("failed to create game session", "error", err)
		}
		os.Exit(1)
	}

	// Create HTTP server
	server, err := httpTransport.NewServer(cfg, session, registry, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
