package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/analysis"
	"github.com/tasksage/tasksage/internal/domain"
)

// TaskStatus represents the current state of a background task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeTodoAnalysis analyzes a single todo and stores the suggestion.
	TaskTypeTodoAnalysis = "todo_analysis"

	// TaskTypeContextAnalysis analyzes a single context entry.
	TaskTypeContextAnalysis = "context_analysis"

	// TaskTypeInsightGeneration generates productivity insights from recent
	// history.
	TaskTypeInsightGeneration = "insight_generation"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskStore defines the interface for persisting tasks so unfinished work
// survives process restarts.
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only returns tasks that have been in this
	// state longer than the specified duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)
}

// Analyzer is the orchestrator boundary the task types call into. The
// operations never fail; they report which engine produced the result so
// tasks can record it.
type Analyzer interface {
	AnalyzeTask(ctx context.Context, in analysis.TaskInput) (*domain.TaskSuggestion, domain.AnalysisEngine)
	AnalyzeContext(ctx context.Context, content, source string) (*domain.ContextInsight, domain.AnalysisEngine)
	GenerateProductivityInsights(ctx context.Context, in analysis.ProductivityInput) ([]*domain.ProductivityInsight, domain.AnalysisEngine)
}
