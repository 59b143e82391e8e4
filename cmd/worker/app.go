package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tasksage/tasksage/internal/analysis"
	"github.com/tasksage/tasksage/internal/config"
	"github.com/tasksage/tasksage/internal/events"
	"github.com/tasksage/tasksage/internal/platform/gemini"
	"github.com/tasksage/tasksage/internal/platform/postgres"
	"github.com/tasksage/tasksage/internal/store"
	"github.com/tasksage/tasksage/internal/task"
)

// application holds the shared application dependencies so they can be
// wired once and cleaned up together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	todoStore    store.TodoStore
	contextStore store.ContextEntryStore
	insightStore store.InsightStore
	taskStore    task.TaskStore

	analyzer     *analysis.Analyzer
	taskFactory  *task.AnalysisTaskFactory
	taskRunner   *task.TaskRunner
	eventEmitter events.EventEmitter
}

// newApplication creates an application instance with all dependencies
// initialized: database connection, stores, model gateway, orchestrator,
// task runner and event wiring.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	// Stores
	app.todoStore = postgres.NewPostgresTodoStore(db, logger)
	app.contextStore = postgres.NewPostgresContextEntryStore(db, logger)
	app.insightStore = postgres.NewPostgresInsightStore(db, logger)

	// Model gateway. An empty API key yields a disabled client and every
	// analysis falls back to the heuristic engine.
	modelClient, err := gemini.NewClient(ctx, logger.With("component", "model_gateway"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model gateway: %w", err)
	}
	logger.Info("model gateway initialized", "enabled", modelClient.Enabled())

	// Analysis orchestrator with the default heuristic engine.
	app.analyzer, err = analysis.NewAnalyzer(modelClient, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	// Task factory shared by the event handler and task recovery.
	app.taskFactory = task.NewAnalysisTaskFactory(
		app.todoStore,
		app.contextStore,
		app.todoStore,
		app.contextStore,
		app.insightStore,
		app.analyzer,
		logger,
	)

	app.taskStore = postgres.NewPostgresTaskStore(db, app.taskFactory)

	// Task runner recovers unfinished tasks on start.
	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Worker.WorkerCount,
		QueueSize:    cfg.Worker.QueueSize,
		StuckTaskAge: time.Duration(cfg.Worker.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	// Event wiring: analysis requests become background tasks.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewAnalysisEventHandler(app.taskFactory, app.taskRunner, logger))
	app.eventEmitter = emitter

	logger.Info("application initialized successfully")
	return app, nil
}

// Run blocks until the worker receives a shutdown signal.
func (app *application) Run(ctx context.Context) error {
	app.logger.Info("worker running",
		"worker_count", app.config.Worker.WorkerCount)

	waitForShutdown(ctx, app.logger)
	return nil
}

// openDatabase establishes the database connection and configures the
// connection pool.
func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("worker shutdown completed")
}
