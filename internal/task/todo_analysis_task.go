package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/analysis"
	"github.com/tasksage/tasksage/internal/domain"
)

// Common dependency validation errors
var (
	ErrNilTodoService    = errors.New("todo service cannot be nil")
	ErrNilContextService = errors.New("context service cannot be nil")
	ErrNilAnalyzer       = errors.New("analyzer cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrNilRecorder       = errors.New("analysis recorder cannot be nil")
	ErrEmptyTodoID       = errors.New("todo ID cannot be empty")
	ErrEmptyEntryID      = errors.New("entry ID cannot be empty")
)

// TodoService defines the todo persistence operations the analysis task
// needs. It is satisfied by store.TodoStore implementations.
type TodoService interface {
	// GetByID retrieves a todo by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error)

	// UpdateAnalysisStatus transitions the todo's analysis status
	UpdateAnalysisStatus(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error

	// ApplySuggestion persists the analysis result onto the todo
	ApplySuggestion(ctx context.Context, id uuid.UUID, suggestion *domain.TaskSuggestion) error
}

// AnalysisRecorder appends entries to the analysis audit trail. It is
// satisfied by store.InsightStore implementations.
type AnalysisRecorder interface {
	RecordAnalysis(ctx context.Context, record *domain.AnalysisRecord) error
}

// todoAnalysisPayload represents the serialized data stored in the task
type todoAnalysisPayload struct {
	TodoID uuid.UUID `json:"todo_id"`
}

// TodoAnalysisTask implements the Task interface for analyzing a todo and
// persisting the resulting suggestion.
type TodoAnalysisTask struct {
	id          uuid.UUID
	todoID      uuid.UUID
	todoService TodoService
	contexts    ContextLister
	analyzer    Analyzer
	recorder    AnalysisRecorder
	logger      *slog.Logger
	status      TaskStatus
}

// NewTodoAnalysisTask creates a new todo analysis task. The context lister
// is optional: when present, recent context entries are passed to the
// analyzer so the model can judge urgency against them.
func NewTodoAnalysisTask(
	todoID uuid.UUID,
	todoService TodoService,
	contexts ContextLister,
	analyzer Analyzer,
	recorder AnalysisRecorder,
	logger *slog.Logger,
) (*TodoAnalysisTask, error) {
	if todoService == nil {
		return nil, ErrNilTodoService
	}
	if analyzer == nil {
		return nil, ErrNilAnalyzer
	}
	if recorder == nil {
		return nil, ErrNilRecorder
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if todoID == uuid.Nil {
		return nil, ErrEmptyTodoID
	}

	return &TodoAnalysisTask{
		id:          uuid.New(),
		todoID:      todoID,
		todoService: todoService,
		contexts:    contexts,
		analyzer:    analyzer,
		recorder:    recorder,
		logger:      logger.With("task_type", TaskTypeTodoAnalysis, "todo_id", todoID),
		status:      TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *TodoAnalysisTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *TodoAnalysisTask) Type() string {
	return TaskTypeTodoAnalysis
}

// Payload returns the task data as a byte slice
func (t *TodoAnalysisTask) Payload() []byte {
	data, err := json.Marshal(todoAnalysisPayload{TodoID: t.todoID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *TodoAnalysisTask) Status() TaskStatus {
	return t.status
}

// Execute runs the todo analysis: fetch the record, mark it processing,
// run the orchestrator, persist the suggestion and audit record, and mark
// the analysis completed. The orchestrator itself cannot fail; only
// persistence errors fail the task.
func (t *TodoAnalysisTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting todo analysis task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	todo, err := t.todoService.GetByID(ctx, t.todoID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve todo", "error", err)
		return fmt.Errorf("failed to retrieve todo: %w", err)
	}

	if err := t.todoService.UpdateAnalysisStatus(ctx, t.todoID, domain.AnalysisStatusProcessing); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to mark todo as processing", "error", err)
		return fmt.Errorf("failed to mark todo as processing: %w", err)
	}

	started := time.Now()
	suggestion, engine := t.analyzer.AnalyzeTask(ctx, analysis.TaskInput{
		Title:        todo.Title,
		Description:  todo.Description,
		ContextLines: t.recentContextLines(ctx),
	})
	elapsed := time.Since(started)

	t.logger.Info("todo analyzed",
		"engine", engine,
		"priority", suggestion.Priority,
		"category", suggestion.Category,
		"confidence", suggestion.Confidence,
		"duration_ms", elapsed.Milliseconds())

	if err := t.todoService.ApplySuggestion(ctx, t.todoID, suggestion); err != nil {
		_ = t.todoService.UpdateAnalysisStatus(ctx, t.todoID, domain.AnalysisStatusFailed)
		t.status = TaskStatusFailed
		t.logger.Error("failed to persist suggestion", "error", err)
		return fmt.Errorf("failed to persist suggestion: %w", err)
	}

	if record, err := domain.NewAnalysisRecord(domain.AnalysisKindTask, t.todoID, engine, elapsed); err == nil {
		if err := t.recorder.RecordAnalysis(ctx, record); err != nil {
			// The suggestion is already persisted; a missing audit row is
			// not worth failing the task over.
			t.logger.Warn("failed to record analysis run", "error", err)
		}
	}

	t.status = TaskStatusCompleted
	t.logger.Info("todo analysis task completed")
	return nil
}

// recentContextLines fetches recent context entry contents for the prompt.
// Failures degrade to no context rather than failing the analysis.
func (t *TodoAnalysisTask) recentContextLines(ctx context.Context) []string {
	if t.contexts == nil {
		return nil
	}

	entries, err := t.contexts.ListRecent(ctx, 5)
	if err != nil {
		t.logger.Warn("failed to list recent context entries", "error", err)
		return nil
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.Content)
	}
	return lines
}
