// Package main runs the quote board HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http"
	"github.com/jsamuelsen/quotesboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesboard/internal/bootstrap"
	"github.com/jsamuelsen/quotesboard/internal/platform/config"
	"github.com/jsamuelsen/quotesboard/internal/platform/logging"
	"github.com/jsamuelsen/quotesboard/internal/platform/telemetry"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig(bootstrap.Profile())
	if err != nil {
		return err
	}

	logger := bootstrap.Logger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("database", cfg.Database.Type),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	core, err := bootstrap.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := core.Close(); closeErr != nil {
			logger.Error("closing database", slog.Any("error", closeErr))
		}
	}()

	if cfg.Database.SeedFile != "" {
		seeded, err := core.Seeder.SeedIfEmpty(ctx, cfg.Database.SeedFile)
		if err != nil {
			return fmt.Errorf("seeding from %s: %w", cfg.Database.SeedFile, err)
		}

		logger.Info("seed check done", slog.String("file", cfg.Database.SeedFile), slog.Bool("seeded", seeded))
	}

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(core.DB); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: serviceName(cfg),
		Timeout:     cfg.Server.RequestTimeout,
		Health: handlers.NewHealthHandler(healthRegistry,
			handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)),
		Authors:      handlers.NewAuthorHandler(core.Authors),
		Quotes:       handlers.NewQuoteHandler(core.Quotes),
		SingleQuotes: handlers.NewSingleQuoteHandler(core.Quotes),
		Index:        handlers.NewIndexHandler(core.Quotes, cfg.App.Title),
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

func serviceName(cfg *config.Config) string {
	if cfg.Telemetry.ServiceName != "" {
		return cfg.Telemetry.ServiceName
	}

	return cfg.App.Name
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
