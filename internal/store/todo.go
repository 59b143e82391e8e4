package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/domain"
)

// TodoStore defines the persistence operations for todo records.
type TodoStore interface {
	// Create saves a new todo to the store.
	// Returns ErrInvalidEntity wrapping a validation error if the todo is invalid.
	Create(ctx context.Context, todo *domain.Todo) error

	// GetByID retrieves a todo by its unique ID.
	// Returns ErrTodoNotFound if the todo does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error)

	// UpdateAnalysisStatus transitions the todo's analysis status.
	// Returns ErrTodoNotFound if the todo does not exist.
	UpdateAnalysisStatus(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error

	// ApplySuggestion persists an analysis result onto the todo's
	// suggestion fields and marks its analysis completed.
	// Returns ErrTodoNotFound if the todo does not exist.
	ApplySuggestion(ctx context.Context, id uuid.UUID, suggestion *domain.TaskSuggestion) error

	// ListRecent returns up to limit todos ordered by creation time,
	// newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Todo, error)
}
