package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/analysis"
	"github.com/tasksage/tasksage/internal/domain"
)

// Function-field mocks for the task package's narrow dependencies. Each
// mock delegates to its function fields so individual tests override only
// the calls they care about.

type mockTodoService struct {
	getByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.Todo, error)
	updateAnalysisStatusFn func(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error
	applySuggestionFn      func(ctx context.Context, id uuid.UUID, suggestion *domain.TaskSuggestion) error
}

func (m *mockTodoService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTodoService) UpdateAnalysisStatus(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error {
	if m.updateAnalysisStatusFn == nil {
		return nil
	}
	return m.updateAnalysisStatusFn(ctx, id, status)
}

func (m *mockTodoService) ApplySuggestion(ctx context.Context, id uuid.UUID, suggestion *domain.TaskSuggestion) error {
	return m.applySuggestionFn(ctx, id, suggestion)
}

type mockContextService struct {
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.ContextEntry, error)
	applyInsightFn func(ctx context.Context, id uuid.UUID, insight *domain.ContextInsight) error
}

func (m *mockContextService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContextEntry, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockContextService) ApplyInsight(ctx context.Context, id uuid.UUID, insight *domain.ContextInsight) error {
	return m.applyInsightFn(ctx, id, insight)
}

type mockTodoLister struct {
	listRecentFn func(ctx context.Context, limit int) ([]*domain.Todo, error)
}

func (m *mockTodoLister) ListRecent(ctx context.Context, limit int) ([]*domain.Todo, error) {
	return m.listRecentFn(ctx, limit)
}

type mockContextLister struct {
	listRecentFn func(ctx context.Context, limit int) ([]*domain.ContextEntry, error)
}

func (m *mockContextLister) ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error) {
	return m.listRecentFn(ctx, limit)
}

type mockInsightSaver struct {
	saveInsightsFn   func(ctx context.Context, insights []*domain.ProductivityInsight) error
	recordAnalysisFn func(ctx context.Context, record *domain.AnalysisRecord) error
}

func (m *mockInsightSaver) SaveInsights(ctx context.Context, insights []*domain.ProductivityInsight) error {
	if m.saveInsightsFn == nil {
		return nil
	}
	return m.saveInsightsFn(ctx, insights)
}

func (m *mockInsightSaver) RecordAnalysis(ctx context.Context, record *domain.AnalysisRecord) error {
	if m.recordAnalysisFn == nil {
		return nil
	}
	return m.recordAnalysisFn(ctx, record)
}

// mockAnalyzer returns canned results and records its inputs.
type mockAnalyzer struct {
	suggestion *domain.TaskSuggestion
	insight    *domain.ContextInsight
	insights   []*domain.ProductivityInsight
	engine     domain.AnalysisEngine

	lastTaskInput         analysis.TaskInput
	lastContent           string
	lastSource            string
	lastProductivityInput analysis.ProductivityInput
}

func (m *mockAnalyzer) AnalyzeTask(ctx context.Context, in analysis.TaskInput) (*domain.TaskSuggestion, domain.AnalysisEngine) {
	m.lastTaskInput = in
	return m.suggestion, m.engine
}

func (m *mockAnalyzer) AnalyzeContext(ctx context.Context, content, source string) (*domain.ContextInsight, domain.AnalysisEngine) {
	m.lastContent = content
	m.lastSource = source
	return m.insight, m.engine
}

func (m *mockAnalyzer) GenerateProductivityInsights(ctx context.Context, in analysis.ProductivityInput) ([]*domain.ProductivityInsight, domain.AnalysisEngine) {
	m.lastProductivityInput = in
	return m.insights, m.engine
}

// mockTaskStore is an in-memory TaskStore for runner tests.
type mockTaskStore struct {
	mu       sync.Mutex
	saved    []Task
	statuses map[uuid.UUID]TaskStatus

	saveTaskFn           func(ctx context.Context, task Task) error
	getPendingTasksFn    func(ctx context.Context) ([]Task, error)
	getProcessingTasksFn func(ctx context.Context, olderThan time.Duration) ([]Task, error)
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{statuses: make(map[uuid.UUID]TaskStatus)}
}

func (m *mockTaskStore) SaveTask(ctx context.Context, task Task) error {
	if m.saveTaskFn != nil {
		return m.saveTaskFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, task)
	m.statuses[task.ID()] = task.Status()
	return nil
}

func (m *mockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[taskID] = status
	return nil
}

func (m *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	if m.getPendingTasksFn != nil {
		return m.getPendingTasksFn(ctx)
	}
	return nil, nil
}

func (m *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	if m.getProcessingTasksFn != nil {
		return m.getProcessingTasksFn(ctx, olderThan)
	}
	return nil, nil
}

func (m *mockTaskStore) statusOf(taskID uuid.UUID) TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[taskID]
}

func (m *mockTaskStore) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// funcTask is a minimal Task whose Execute delegates to a function.
type funcTask struct {
	id        uuid.UUID
	taskType  string
	executeFn func(ctx context.Context) error
}

func newFuncTask(taskType string, executeFn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), taskType: taskType, executeFn: executeFn}
}

func (t *funcTask) ID() uuid.UUID      { return t.id }
func (t *funcTask) Type() string       { return t.taskType }
func (t *funcTask) Payload() []byte    { return []byte("{}") }
func (t *funcTask) Status() TaskStatus { return TaskStatusPending }

func (t *funcTask) Execute(ctx context.Context) error {
	if t.executeFn == nil {
		return nil
	}
	return t.executeFn(ctx)
}

func testLogger() *slog.Logger {
	return slog.Default()
}
