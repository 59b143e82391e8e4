package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasksage/tasksage/internal/domain"
)

func testSuggestion() *domain.TaskSuggestion {
	deadline := time.Now().UTC().Add(48 * time.Hour)
	return domain.NewTaskSuggestion(
		"Work",
		domain.PriorityHigh,
		&deadline,
		"Enhanced description",
		[]string{"review"},
		"High urgency keywords detected",
		0.9,
		time.Now().UTC(),
	)
}

func testTodo(id uuid.UUID) *domain.Todo {
	return &domain.Todo{
		ID:             id,
		Title:          "Prepare the quarterly report",
		Description:    "Numbers due to finance",
		Status:         domain.TodoStatusPending,
		Priority:       domain.PriorityMedium,
		Category:       "Work",
		Tags:           []string{},
		AnalysisStatus: domain.AnalysisStatusPending,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestNewTodoAnalysisTask(t *testing.T) {
	t.Parallel()

	todoID := uuid.New()
	service := &mockTodoService{}
	analyzer := &mockAnalyzer{}
	recorder := &mockInsightSaver{}

	t.Run("creates a pending task", func(t *testing.T) {
		t.Parallel()

		task, err := NewTodoAnalysisTask(todoID, service, nil, analyzer, recorder, testLogger())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID())
		assert.Equal(t, TaskTypeTodoAnalysis, task.Type())
		assert.Equal(t, TaskStatusPending, task.Status())

		var payload todoAnalysisPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &payload))
		assert.Equal(t, todoID, payload.TodoID)
	})

	t.Run("validates dependencies", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			fn   func() (*TodoAnalysisTask, error)
			want error
		}{
			{"nil todo service", func() (*TodoAnalysisTask, error) {
				return NewTodoAnalysisTask(todoID, nil, nil, analyzer, recorder, testLogger())
			}, ErrNilTodoService},
			{"nil analyzer", func() (*TodoAnalysisTask, error) {
				return NewTodoAnalysisTask(todoID, service, nil, nil, recorder, testLogger())
			}, ErrNilAnalyzer},
			{"nil recorder", func() (*TodoAnalysisTask, error) {
				return NewTodoAnalysisTask(todoID, service, nil, analyzer, nil, testLogger())
			}, ErrNilRecorder},
			{"nil logger", func() (*TodoAnalysisTask, error) {
				return NewTodoAnalysisTask(todoID, service, nil, analyzer, recorder, nil)
			}, ErrNilLogger},
			{"empty todo ID", func() (*TodoAnalysisTask, error) {
				return NewTodoAnalysisTask(uuid.Nil, service, nil, analyzer, recorder, testLogger())
			}, ErrEmptyTodoID},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				_, err := tc.fn()
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestTodoAnalysisTaskExecute(t *testing.T) {
	t.Parallel()

	t.Run("persists the suggestion and audit record", func(t *testing.T) {
		t.Parallel()

		todoID := uuid.New()
		suggestion := testSuggestion()

		var appliedID uuid.UUID
		var applied *domain.TaskSuggestion
		var statuses []domain.AnalysisStatus
		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				return testTodo(id), nil
			},
			updateAnalysisStatusFn: func(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error {
				statuses = append(statuses, status)
				return nil
			},
			applySuggestionFn: func(ctx context.Context, id uuid.UUID, s *domain.TaskSuggestion) error {
				appliedID = id
				applied = s
				return nil
			},
		}

		var recorded *domain.AnalysisRecord
		recorder := &mockInsightSaver{
			recordAnalysisFn: func(ctx context.Context, record *domain.AnalysisRecord) error {
				recorded = record
				return nil
			},
		}

		analyzer := &mockAnalyzer{suggestion: suggestion, engine: domain.AnalysisEngineModel}

		task, err := NewTodoAnalysisTask(todoID, service, nil, analyzer, recorder, testLogger())
		require.NoError(t, err)

		require.NoError(t, task.Execute(context.Background()))

		assert.Equal(t, TaskStatusCompleted, task.Status())
		assert.Equal(t, todoID, appliedID)
		assert.Equal(t, suggestion, applied)
		assert.Equal(t, []domain.AnalysisStatus{domain.AnalysisStatusProcessing}, statuses)
		assert.Equal(t, "Prepare the quarterly report", analyzer.lastTaskInput.Title)

		require.NotNil(t, recorded)
		assert.Equal(t, domain.AnalysisKindTask, recorded.Kind)
		assert.Equal(t, todoID, recorded.SubjectID)
		assert.Equal(t, domain.AnalysisEngineModel, recorded.Engine)
	})

	t.Run("recent context lines feed the analyzer", func(t *testing.T) {
		t.Parallel()

		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				return testTodo(id), nil
			},
			applySuggestionFn: func(ctx context.Context, id uuid.UUID, s *domain.TaskSuggestion) error {
				return nil
			},
		}
		contexts := &mockContextLister{
			listRecentFn: func(ctx context.Context, limit int) ([]*domain.ContextEntry, error) {
				assert.Equal(t, 5, limit)
				return []*domain.ContextEntry{
					{Content: "client pushed the deadline"},
					{Content: "budget approved"},
				}, nil
			},
		}
		analyzer := &mockAnalyzer{suggestion: testSuggestion(), engine: domain.AnalysisEngineHeuristic}

		task, err := NewTodoAnalysisTask(uuid.New(), service, contexts, analyzer, &mockInsightSaver{}, testLogger())
		require.NoError(t, err)

		require.NoError(t, task.Execute(context.Background()))
		assert.Equal(t, []string{"client pushed the deadline", "budget approved"}, analyzer.lastTaskInput.ContextLines)
	})

	t.Run("context listing failure degrades to no context", func(t *testing.T) {
		t.Parallel()

		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				return testTodo(id), nil
			},
			applySuggestionFn: func(ctx context.Context, id uuid.UUID, s *domain.TaskSuggestion) error {
				return nil
			},
		}
		contexts := &mockContextLister{
			listRecentFn: func(ctx context.Context, limit int) ([]*domain.ContextEntry, error) {
				return nil, errors.New("database offline")
			},
		}
		analyzer := &mockAnalyzer{suggestion: testSuggestion(), engine: domain.AnalysisEngineHeuristic}

		task, err := NewTodoAnalysisTask(uuid.New(), service, contexts, analyzer, &mockInsightSaver{}, testLogger())
		require.NoError(t, err)

		require.NoError(t, task.Execute(context.Background()))
		assert.Empty(t, analyzer.lastTaskInput.ContextLines)
	})

	t.Run("missing todo fails the task", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("todo not found")
		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				return nil, sentinel
			},
		}

		task, err := NewTodoAnalysisTask(uuid.New(), service, nil, &mockAnalyzer{}, &mockInsightSaver{}, testLogger())
		require.NoError(t, err)

		err = task.Execute(context.Background())
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, TaskStatusFailed, task.Status())
	})

	t.Run("persistence failure marks the analysis failed", func(t *testing.T) {
		t.Parallel()

		var statuses []domain.AnalysisStatus
		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				return testTodo(id), nil
			},
			updateAnalysisStatusFn: func(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error {
				statuses = append(statuses, status)
				return nil
			},
			applySuggestionFn: func(ctx context.Context, id uuid.UUID, s *domain.TaskSuggestion) error {
				return errors.New("write failed")
			},
		}
		analyzer := &mockAnalyzer{suggestion: testSuggestion(), engine: domain.AnalysisEngineHeuristic}

		task, err := NewTodoAnalysisTask(uuid.New(), service, nil, analyzer, &mockInsightSaver{}, testLogger())
		require.NoError(t, err)

		err = task.Execute(context.Background())
		assert.Error(t, err)
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.Equal(t, []domain.AnalysisStatus{
			domain.AnalysisStatusProcessing,
			domain.AnalysisStatusFailed,
		}, statuses)
	})

	t.Run("audit failure does not fail the task", func(t *testing.T) {
		t.Parallel()

		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				return testTodo(id), nil
			},
			applySuggestionFn: func(ctx context.Context, id uuid.UUID, s *domain.TaskSuggestion) error {
				return nil
			},
		}
		recorder := &mockInsightSaver{
			recordAnalysisFn: func(ctx context.Context, record *domain.AnalysisRecord) error {
				return errors.New("audit table missing")
			},
		}
		analyzer := &mockAnalyzer{suggestion: testSuggestion(), engine: domain.AnalysisEngineModel}

		task, err := NewTodoAnalysisTask(uuid.New(), service, nil, analyzer, recorder, testLogger())
		require.NoError(t, err)

		require.NoError(t, task.Execute(context.Background()))
		assert.Equal(t, TaskStatusCompleted, task.Status())
	})

	t.Run("cancelled context fails fast", func(t *testing.T) {
		t.Parallel()

		service := &mockTodoService{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
				t.Fatal("should not fetch after cancellation")
				return nil, nil
			},
		}

		task, err := NewTodoAnalysisTask(uuid.New(), service, nil, &mockAnalyzer{}, &mockInsightSaver{}, testLogger())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = task.Execute(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, TaskStatusFailed, task.Status())
	})
}
