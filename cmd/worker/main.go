// Package main implements the entry point for the tasksage analysis
// worker, which processes todo and context analysis requests in the
// background and stores suggestions, insights and productivity reports.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tasksage/tasksage/internal/config"
	"github.com/tasksage/tasksage/internal/platform/logger"
)

func main() {
	cfg, appLogger, err := initialize()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer app.cleanup()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Worker error: %v", err)
	}
}

// initialize loads configuration and sets up structured logging.
func initialize() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Worker)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("worker configuration loaded",
		"log_level", cfg.Worker.LogLevel,
		"worker_count", cfg.Worker.WorkerCount,
		"queue_size", cfg.Worker.QueueSize,
		"model_name", cfg.LLM.ModelName,
		"model_enabled", cfg.LLM.APIKey != "")

	return cfg, appLogger, nil
}

// waitForShutdown blocks until the process receives an interrupt or
// termination signal.
func waitForShutdown(ctx context.Context, appLogger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLogger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		appLogger.Info("context cancelled, shutting down")
	}
}
