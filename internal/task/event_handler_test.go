package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasksage/tasksage/internal/events"
)

// mockSubmitter records submitted tasks.
type mockSubmitter struct {
	submitted []Task
	submitFn  func(ctx context.Context, task Task) error
}

func (m *mockSubmitter) Submit(ctx context.Context, task Task) error {
	if m.submitFn != nil {
		return m.submitFn(ctx, task)
	}
	m.submitted = append(m.submitted, task)
	return nil
}

func analysisEvent(t *testing.T, eventType string, payload any) *events.AnalysisRequestEvent {
	t.Helper()

	event, err := events.NewAnalysisRequestEvent(eventType, payload)
	require.NoError(t, err)
	return event
}

func TestAnalysisEventHandler(t *testing.T) {
	t.Parallel()

	t.Run("todo analysis event becomes a task", func(t *testing.T) {
		t.Parallel()

		submitter := &mockSubmitter{}
		handler := NewAnalysisEventHandler(testFactory(), submitter, testLogger())

		todoID := uuid.New()
		event := analysisEvent(t, TaskTypeTodoAnalysis, map[string]string{"todo_id": todoID.String()})

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, TaskTypeTodoAnalysis, submitter.submitted[0].Type())

		var payload todoAnalysisPayload
		require.NoError(t, json.Unmarshal(submitter.submitted[0].Payload(), &payload))
		assert.Equal(t, todoID, payload.TodoID)
	})

	t.Run("context analysis event becomes a task", func(t *testing.T) {
		t.Parallel()

		submitter := &mockSubmitter{}
		handler := NewAnalysisEventHandler(testFactory(), submitter, testLogger())

		entryID := uuid.New()
		event := analysisEvent(t, TaskTypeContextAnalysis, map[string]string{"entry_id": entryID.String()})

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, TaskTypeContextAnalysis, submitter.submitted[0].Type())
	})

	t.Run("insight generation event needs no payload", func(t *testing.T) {
		t.Parallel()

		submitter := &mockSubmitter{}
		handler := NewAnalysisEventHandler(testFactory(), submitter, testLogger())

		event := analysisEvent(t, TaskTypeInsightGeneration, nil)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, TaskTypeInsightGeneration, submitter.submitted[0].Type())
	})

	t.Run("unsupported event types are ignored", func(t *testing.T) {
		t.Parallel()

		submitter := &mockSubmitter{}
		handler := NewAnalysisEventHandler(testFactory(), submitter, testLogger())

		event := analysisEvent(t, "user_registered", nil)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, submitter.submitted)
	})

	t.Run("invalid record ID fails the event", func(t *testing.T) {
		t.Parallel()

		submitter := &mockSubmitter{}
		handler := NewAnalysisEventHandler(testFactory(), submitter, testLogger())

		event := analysisEvent(t, TaskTypeTodoAnalysis, map[string]string{"todo_id": "not-a-uuid"})

		assert.Error(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, submitter.submitted)
	})

	t.Run("submission failure surfaces to the emitter", func(t *testing.T) {
		t.Parallel()

		submitter := &mockSubmitter{
			submitFn: func(ctx context.Context, task Task) error {
				return errors.New("queue is full")
			},
		}
		handler := NewAnalysisEventHandler(testFactory(), submitter, testLogger())

		event := analysisEvent(t, TaskTypeInsightGeneration, nil)
		assert.Error(t, handler.HandleEvent(context.Background(), event))
	})
}
