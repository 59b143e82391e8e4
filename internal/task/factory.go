package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// AnalysisTaskFactory builds the concrete analysis task types with their
// shared dependencies wired in, so event handlers only need record IDs.
type AnalysisTaskFactory struct {
	todoService    TodoService
	contextService ContextService
	todos          TodoLister
	contexts       ContextLister
	insights       InsightSaver
	analyzer       Analyzer
	logger         *slog.Logger
}

// NewAnalysisTaskFactory creates a factory for analysis tasks.
func NewAnalysisTaskFactory(
	todoService TodoService,
	contextService ContextService,
	todos TodoLister,
	contexts ContextLister,
	insights InsightSaver,
	analyzer Analyzer,
	logger *slog.Logger,
) *AnalysisTaskFactory {
	return &AnalysisTaskFactory{
		todoService:    todoService,
		contextService: contextService,
		todos:          todos,
		contexts:       contexts,
		insights:       insights,
		analyzer:       analyzer,
		logger:         logger.With("component", "analysis_task_factory"),
	}
}

// CreateTodoAnalysisTask creates a task that analyzes the given todo.
func (f *AnalysisTaskFactory) CreateTodoAnalysisTask(todoID uuid.UUID) (Task, error) {
	return NewTodoAnalysisTask(todoID, f.todoService, f.contexts, f.analyzer, f.insights, f.logger)
}

// CreateContextAnalysisTask creates a task that analyzes the given context
// entry.
func (f *AnalysisTaskFactory) CreateContextAnalysisTask(entryID uuid.UUID) (Task, error) {
	return NewContextAnalysisTask(entryID, f.contextService, f.analyzer, f.insights, f.logger)
}

// CreateInsightGenerationTask creates a task that generates productivity
// insights from recent history.
func (f *AnalysisTaskFactory) CreateInsightGenerationTask() (Task, error) {
	return NewInsightGenerationTask(f.todos, f.contexts, f.insights, f.analyzer, f.logger)
}

// ResolveTask rebuilds a concrete task from its persisted type and payload.
// It is used to make tasks loaded from the database executable again after
// a restart.
func (f *AnalysisTaskFactory) ResolveTask(taskType string, payload []byte) (Task, error) {
	switch taskType {
	case TaskTypeTodoAnalysis:
		var p todoAnalysisPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal todo analysis payload: %w", err)
		}
		return f.CreateTodoAnalysisTask(p.TodoID)

	case TaskTypeContextAnalysis:
		var p contextAnalysisPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal context analysis payload: %w", err)
		}
		return f.CreateContextAnalysisTask(p.EntryID)

	case TaskTypeInsightGeneration:
		return f.CreateInsightGenerationTask()

	default:
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}
}
