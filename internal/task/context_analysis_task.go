package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/domain"
)

// ContextService defines the context-entry persistence operations the
// analysis task needs. It is satisfied by store.ContextEntryStore
// implementations.
type ContextService interface {
	// GetByID retrieves a context entry by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContextEntry, error)

	// ApplyInsight persists the analysis result onto the entry
	ApplyInsight(ctx context.Context, id uuid.UUID, insight *domain.ContextInsight) error
}

// contextAnalysisPayload represents the serialized data stored in the task
type contextAnalysisPayload struct {
	EntryID uuid.UUID `json:"entry_id"`
}

// ContextAnalysisTask implements the Task interface for analyzing a context
// entry and persisting the resulting insight.
type ContextAnalysisTask struct {
	id             uuid.UUID
	entryID        uuid.UUID
	contextService ContextService
	analyzer       Analyzer
	recorder       AnalysisRecorder
	logger         *slog.Logger
	status         TaskStatus
}

// NewContextAnalysisTask creates a new context analysis task
func NewContextAnalysisTask(
	entryID uuid.UUID,
	contextService ContextService,
	analyzer Analyzer,
	recorder AnalysisRecorder,
	logger *slog.Logger,
) (*ContextAnalysisTask, error) {
	if contextService == nil {
		return nil, ErrNilContextService
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
	if entryID == uuid.Nil {
		return nil, ErrEmptyEntryID
	}

	return &ContextAnalysisTask{
		id:             uuid.New(),
		entryID:        entryID,
		contextService: contextService,
		analyzer:       analyzer,
		recorder:       recorder,
		logger:         logger.With("task_type", TaskTypeContextAnalysis, "entry_id", entryID),
		status:         TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ContextAnalysisTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ContextAnalysisTask) Type() string {
	return TaskTypeContextAnalysis
}

// Payload returns the task data as a byte slice
func (t *ContextAnalysisTask) Payload() []byte {
	data, err := json.Marshal(contextAnalysisPayload{EntryID: t.entryID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *ContextAnalysisTask) Status() TaskStatus {
	return t.status
}

// Execute runs the context analysis: fetch the entry, run the orchestrator,
// persist the insight and audit record. The entry is marked processed by
// ApplyInsight.
func (t *ContextAnalysisTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting context analysis task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	entry, err := t.contextService.GetByID(ctx, t.entryID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve context entry", "error", err)
		return fmt.Errorf("failed to retrieve context entry: %w", err)
	}

	started := time.Now()
	insight, engine := t.analyzer.AnalyzeContext(ctx, entry.Content, string(entry.Source))
	elapsed := time.Since(started)

	t.logger.Info("context entry analyzed",
		"engine", engine,
		"urgency", insight.UrgencyScore,
		"sentiment", insight.SentimentScore,
		"keyword_count", len(insight.Keywords),
		"duration_ms", elapsed.Milliseconds())

	if err := t.contextService.ApplyInsight(ctx, t.entryID, insight); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to persist insight", "error", err)
		return fmt.Errorf("failed to persist insight: %w", err)
	}

	if record, err := domain.NewAnalysisRecord(domain.AnalysisKindContext, t.entryID, engine, elapsed); err == nil {
		if err := t.recorder.RecordAnalysis(ctx, record); err != nil {
			t.logger.Warn("failed to record analysis run", "error", err)
		}
	}

	t.status = TaskStatusCompleted
	t.logger.Info("context analysis task completed")
	return nil
}
