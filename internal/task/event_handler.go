package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/events"
)

// TaskSubmitter accepts tasks for background execution. Satisfied by
// *TaskRunner.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// AnalysisEventHandler implements the events.EventHandler interface,
// turning analysis request events into background tasks.
type AnalysisEventHandler struct {
	factory *AnalysisTaskFactory
	runner  TaskSubmitter
	logger  *slog.Logger
}

// NewAnalysisEventHandler creates an event handler that builds tasks with
// the given factory and submits them to the provided runner.
func NewAnalysisEventHandler(
	factory *AnalysisTaskFactory,
	runner TaskSubmitter,
	logger *slog.Logger,
) *AnalysisEventHandler {
	return &AnalysisEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "analysis_event_handler"),
	}
}

// recordPayload is the common shape of todo/context analysis event payloads.
type recordPayload struct {
	TodoID  string `json:"todo_id,omitempty"`
	EntryID string `json:"entry_id,omitempty"`
}

// HandleEvent processes an analysis request event by creating the matching
// task and submitting it to the runner.
func (h *AnalysisEventHandler) HandleEvent(ctx context.Context, event *events.AnalysisRequestEvent) error {
	var task Task
	var err error

	switch event.Type {
	case TaskTypeTodoAnalysis:
		var id uuid.UUID
		if id, err = h.parseRecordID(event, false); err == nil {
			task, err = h.factory.CreateTodoAnalysisTask(id)
		}

	case TaskTypeContextAnalysis:
		var id uuid.UUID
		if id, err = h.parseRecordID(event, true); err == nil {
			task, err = h.factory.CreateContextAnalysisTask(id)
		}

	case TaskTypeInsightGeneration:
		task, err = h.factory.CreateInsightGenerationTask()

	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	if err != nil {
		h.logger.Error("failed to create task from event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task from event: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"task_type", task.Type())
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("submitted analysis task",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"event_id", event.ID)
	return nil
}

// parseRecordID extracts and parses the record ID from the event payload.
func (h *AnalysisEventHandler) parseRecordID(event *events.AnalysisRequestEvent, isEntry bool) (uuid.UUID, error) {
	var payload recordPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	raw := payload.TodoID
	if isEntry {
		raw = payload.EntryID
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid record ID %q: %w", raw, err)
	}
	return id, nil
}
