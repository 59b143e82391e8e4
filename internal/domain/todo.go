package domain

import (
	"time"

	"github.com/google/uuid"
)

// TodoStatus represents the user-facing state of a todo.
type TodoStatus string

// Possible todo status values
const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
	TodoStatusArchived   TodoStatus = "archived"
)

// AnalysisStatus represents the AI-analysis state of a todo or context
// entry, tracked separately from the user-facing status.
type AnalysisStatus string

// Possible analysis status values
const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// Todo represents a task record submitted by a user. Beyond the fields the
// user edits directly, it carries the suggestion fields filled in by the
// background analysis.
type Todo struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`

	// Fields below are populated by analysis, not by the user.
	Tags           []string       `json:"tags"`
	Deadline       *time.Time     `json:"deadline,omitempty"`
	AIReasoning    string         `json:"ai_reasoning"`
	AIConfidence   float64        `json:"ai_confidence"`
	AnalysisStatus AnalysisStatus `json:"analysis_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTodo creates a new Todo with the given title and description. The todo
// starts pending in both its user-facing status and its analysis status.
// Returns an error if validation fails.
func NewTodo(title, description string) (*Todo, error) {
	todo := &Todo{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Status:         TodoStatusPending,
		Priority:       PriorityMedium,
		Category:       "Work",
		Tags:           []string{},
		AnalysisStatus: AnalysisStatusPending,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := todo.Validate(); err != nil {
		return nil, err
	}

	return todo, nil
}

// Validate checks if the Todo has valid data.
// Returns an error if any field fails validation.
func (t *Todo) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}

	if !isValidTodoStatus(t.Status) {
		return ErrInvalidTodoStatus
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if !isValidAnalysisStatus(t.AnalysisStatus) {
		return ErrInvalidAnalysisStatus
	}

	return nil
}

// ApplySuggestion copies the analysis result onto the todo's suggestion
// fields and marks the analysis completed. The user-edited fields (title,
// description, status) are never overwritten; the enhanced description and
// reasoning land in AIReasoning for the user to review.
func (t *Todo) ApplySuggestion(s *TaskSuggestion) {
	t.Priority = s.Priority
	t.Category = s.Category
	t.Tags = append([]string{}, s.Tags...)
	t.Deadline = s.Deadline
	t.AIReasoning = s.Reasoning
	t.AIConfidence = s.Confidence
	t.AnalysisStatus = AnalysisStatusCompleted
	t.UpdatedAt = time.Now().UTC()
}

// SetAnalysisStatus updates the analysis status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (t *Todo) SetAnalysisStatus(status AnalysisStatus) error {
	if !isValidAnalysisStatus(status) {
		return ErrInvalidAnalysisStatus
	}

	t.AnalysisStatus = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func isValidTodoStatus(status TodoStatus) bool {
	switch status {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted, TodoStatusArchived:
		return true
	default:
		return false
	}
}

func isValidAnalysisStatus(status AnalysisStatus) bool {
	switch status {
	case AnalysisStatusPending, AnalysisStatusProcessing, AnalysisStatusCompleted, AnalysisStatusFailed:
		return true
	default:
		return false
	}
}
