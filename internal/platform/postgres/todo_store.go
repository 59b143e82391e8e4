package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/domain"
	"github.com/tasksage/tasksage/internal/platform/logger"
	"github.com/tasksage/tasksage/internal/store"
)

// PostgresTodoStore implements the store.TodoStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTodoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTodoStore creates a new PostgreSQL implementation of the
// TodoStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTodoStore(db store.DBTX, logger *slog.Logger) *PostgresTodoStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTodoStore{
		db:     db,
		logger: logger.With(slog.String("component", "todo_store")),
	}
}

// Ensure PostgresTodoStore implements store.TodoStore interface
var _ store.TodoStore = (*PostgresTodoStore)(nil)

// Create implements store.TodoStore.Create
// It saves a new todo to the database, handling domain validation.
func (s *PostgresTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during create",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(todo.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO todos (id, title, description, status, priority, category,
			tags, deadline, ai_reasoning, ai_confidence, analysis_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.Priority,
		todo.Category,
		tags,
		todo.Deadline,
		todo.AIReasoning,
		todo.AIConfidence,
		todo.AnalysisStatus,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return MapError(err)
	}

	log.Info("todo created successfully",
		slog.String("todo_id", todo.ID.String()),
		slog.String("status", string(todo.Status)))
	return nil
}

// GetByID implements store.TodoStore.GetByID
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving todo by ID", slog.String("todo_id", id.String()))

	query := `
		SELECT id, title, description, status, priority, category,
			tags, deadline, ai_reasoning, ai_confidence, analysis_status,
			created_at, updated_at
		FROM todos
		WHERE id = $1
	`

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("todo not found", slog.String("todo_id", id.String()))
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to get todo by ID",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, MapError(err)
	}

	return todo, nil
}

// UpdateAnalysisStatus implements store.TodoStore.UpdateAnalysisStatus
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) UpdateAnalysisStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.AnalysisStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating todo analysis status",
		slog.String("todo_id", id.String()),
		slog.String("analysis_status", string(status)))

	query := `
		UPDATE todos
		SET analysis_status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update todo analysis status",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("todo not found for analysis status update",
			slog.String("todo_id", id.String()))
		return store.ErrTodoNotFound
	}

	return nil
}

// ApplySuggestion implements store.TodoStore.ApplySuggestion
// It persists the suggestion fields onto the todo and marks its analysis
// completed in a single statement.
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) ApplySuggestion(
	ctx context.Context,
	id uuid.UUID,
	suggestion *domain.TaskSuggestion,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tags, err := json.Marshal(suggestion.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		UPDATE todos
		SET priority = $1, category = $2, tags = $3, deadline = $4,
			ai_reasoning = $5, ai_confidence = $6, analysis_status = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		suggestion.Priority,
		suggestion.Category,
		tags,
		suggestion.Deadline,
		suggestion.Reasoning,
		suggestion.Confidence,
		domain.AnalysisStatusCompleted,
		time.Now().UTC(),
		id,
	)

	if err != nil {
		log.Error("failed to apply suggestion",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "todo"); err != nil {
		log.Debug("todo not found for suggestion",
			slog.String("todo_id", id.String()))
		return store.ErrTodoNotFound
	}

	log.Info("suggestion applied to todo",
		slog.String("todo_id", id.String()),
		slog.String("priority", string(suggestion.Priority)),
		slog.String("category", suggestion.Category))
	return nil
}

// ListRecent implements store.TodoStore.ListRecent
// Returns an empty slice if no todos exist.
func (s *PostgresTodoStore) ListRecent(ctx context.Context, limit int) ([]*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, title, description, status, priority, category,
			tags, deadline, ai_reasoning, ai_confidence, analysis_status,
			created_at, updated_at
		FROM todos
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list recent todos",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	todos := []*domain.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			log.Error("failed to scan todo row",
				slog.String("error", err.Error()))
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed recent todos", slog.Int("count", len(todos)))
	return todos, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var todo domain.Todo
	var status, priority, analysisStatus string
	var tags []byte
	var deadline sql.NullTime

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&status,
		&priority,
		&todo.Category,
		&tags,
		&deadline,
		&todo.AIReasoning,
		&todo.AIConfidence,
		&analysisStatus,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	todo.Status = domain.TodoStatus(status)
	todo.Priority = domain.Priority(priority)
	todo.AnalysisStatus = domain.AnalysisStatus(analysisStatus)
	if deadline.Valid {
		t := deadline.Time
		todo.Deadline = &t
	}
	if err := json.Unmarshal(tags, &todo.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if todo.Tags == nil {
		todo.Tags = []string{}
	}

	return &todo, nil
}
