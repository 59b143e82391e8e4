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

// Dependency validation errors specific to insight generation
var (
	ErrNilTodoLister    = errors.New("todo lister cannot be nil")
	ErrNilContextLister = errors.New("context lister cannot be nil")
	ErrNilInsightSaver  = errors.New("insight saver cannot be nil")
)

// historyWindow is how many recent todos and context entries feed one
// productivity-insight generation run.
const historyWindow = 50

// TodoLister lists recent todos. Satisfied by store.TodoStore.
type TodoLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.Todo, error)
}

// ContextLister lists recent context entries. Satisfied by
// store.ContextEntryStore.
type ContextLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error)
}

// InsightSaver persists generated productivity insights. Satisfied by
// store.InsightStore.
type InsightSaver interface {
	SaveInsights(ctx context.Context, insights []*domain.ProductivityInsight) error
	RecordAnalysis(ctx context.Context, record *domain.AnalysisRecord) error
}

// insightGenerationPayload represents the serialized data stored in the task
type insightGenerationPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// InsightGenerationTask implements the Task interface for generating
// productivity insights from recent task and context history.
type InsightGenerationTask struct {
	id       uuid.UUID
	todos    TodoLister
	contexts ContextLister
	insights InsightSaver
	analyzer Analyzer
	logger   *slog.Logger
	status   TaskStatus
}

// NewInsightGenerationTask creates a new insight generation task
func NewInsightGenerationTask(
	todos TodoLister,
	contexts ContextLister,
	insights InsightSaver,
	analyzer Analyzer,
	logger *slog.Logger,
) (*InsightGenerationTask, error) {
	if todos == nil {
		return nil, ErrNilTodoLister
	}
	if contexts == nil {
		return nil, ErrNilContextLister
	}
	if insights == nil {
		return nil, ErrNilInsightSaver
	}
	if analyzer == nil {
		return nil, ErrNilAnalyzer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &InsightGenerationTask{
		id:       uuid.New(),
		todos:    todos,
		contexts: contexts,
		insights: insights,
		analyzer: analyzer,
		logger:   logger.With("task_type", TaskTypeInsightGeneration),
		status:   TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *InsightGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *InsightGenerationTask) Type() string {
	return TaskTypeInsightGeneration
}

// Payload returns the task data as a byte slice
func (t *InsightGenerationTask) Payload() []byte {
	data, err := json.Marshal(insightGenerationPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *InsightGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute gathers recent history, runs the orchestrator and persists the
// generated insights.
func (t *InsightGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting insight generation task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	todos, err := t.todos.ListRecent(ctx, historyWindow)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to list recent todos", "error", err)
		return fmt.Errorf("failed to list recent todos: %w", err)
	}

	entries, err := t.contexts.ListRecent(ctx, historyWindow)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to list recent context entries", "error", err)
		return fmt.Errorf("failed to list recent context entries: %w", err)
	}

	input := buildProductivityInput(todos, entries)

	started := time.Now()
	insights, engine := t.analyzer.GenerateProductivityInsights(ctx, input)
	elapsed := time.Since(started)

	t.logger.Info("productivity insights generated",
		"engine", engine,
		"insight_count", len(insights),
		"duration_ms", elapsed.Milliseconds())

	if err := t.insights.SaveInsights(ctx, insights); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to persist insights", "error", err)
		return fmt.Errorf("failed to persist insights: %w", err)
	}

	if record, err := domain.NewAnalysisRecord(domain.AnalysisKindProductivity, t.id, engine, elapsed); err == nil {
		if err := t.insights.RecordAnalysis(ctx, record); err != nil {
			t.logger.Warn("failed to record analysis run", "error", err)
		}
	}

	t.status = TaskStatusCompleted
	t.logger.Info("insight generation task completed")
	return nil
}

// buildProductivityInput summarizes history into the orchestrator's input:
// per-record summary lines plus the aggregate metrics the prompt reports.
func buildProductivityInput(todos []*domain.Todo, entries []*domain.ContextEntry) analysis.ProductivityInput {
	tasks := make([]analysis.TaskSummaryLine, 0, len(todos))
	completed := 0
	var completionTotal time.Duration
	for _, todo := range todos {
		tasks = append(tasks, analysis.TaskSummaryLine{
			Title:    todo.Title,
			Status:   string(todo.Status),
			Priority: string(todo.Priority),
			Category: todo.Category,
		})
		if todo.Status == domain.TodoStatusCompleted {
			completed++
			completionTotal += todo.UpdatedAt.Sub(todo.CreatedAt)
		}
	}

	contexts := make([]analysis.ContextSummaryLine, 0, len(entries))
	sourceCounts := make(map[string]int)
	for _, entry := range entries {
		snippet := entry.Content
		if runes := []rune(snippet); len(runes) > 80 {
			snippet = string(runes[:80])
		}
		contexts = append(contexts, analysis.ContextSummaryLine{
			Source:  string(entry.Source),
			Snippet: snippet,
		})
		sourceCounts[string(entry.Source)]++
	}

	metrics := make(map[string]string)
	if completed > 0 {
		metrics["avg_completion_time"] = (completionTotal / time.Duration(completed)).Round(time.Minute).String()
	}
	if len(todos) > 0 {
		metrics["productivity_score"] = fmt.Sprintf("%.2f", float64(completed)/float64(len(todos)))
	}
	if top := topSource(sourceCounts); top != "" {
		metrics["top_context_source"] = top
	}

	return analysis.ProductivityInput{
		Tasks:    tasks,
		Contexts: contexts,
		Metrics:  metrics,
	}
}

// topSource returns the most frequent context source, breaking ties by name
// so the result is deterministic.
func topSource(counts map[string]int) string {
	best := ""
	bestCount := 0
	for source, count := range counts {
		if count > bestCount || (count == bestCount && source < best) {
			best = source
			bestCount = count
		}
	}
	return best
}
