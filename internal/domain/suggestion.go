package domain

import "time"

// Priority represents how soon a todo should be acted upon.
type Priority string

// Possible priority levels, from most to least pressing.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether the priority is one of the recognized levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// TaskSuggestion is the result of analyzing a single todo. It is produced
// fresh per analysis call and is immutable once returned; the caller that
// requested the analysis owns it and decides what to persist.
type TaskSuggestion struct {
	Category            string     `json:"suggested_category"`
	Priority            Priority   `json:"suggested_priority"`
	Deadline            *time.Time `json:"suggested_deadline,omitempty"`
	EnhancedDescription string     `json:"enhanced_description"`
	Tags                []string   `json:"suggested_tags"`
	Reasoning           string     `json:"reasoning"`
	Confidence          float64    `json:"confidence_score"`
}

// NewTaskSuggestion builds a TaskSuggestion with its invariants enforced:
// the confidence is clamped to [0, 1], the tag slice is never nil, an
// unrecognized priority degrades to medium, and a deadline that is not in
// the future is dropped rather than returned.
func NewTaskSuggestion(
	category string,
	priority Priority,
	deadline *time.Time,
	enhancedDescription string,
	tags []string,
	reasoning string,
	confidence float64,
	now time.Time,
) *TaskSuggestion {
	if !priority.IsValid() {
		priority = PriorityMedium
	}
	if category == "" {
		category = "Work"
	}
	if tags == nil {
		tags = []string{}
	}
	if deadline != nil && !deadline.After(now) {
		deadline = nil
	}

	return &TaskSuggestion{
		Category:            category,
		Priority:            priority,
		Deadline:            deadline,
		EnhancedDescription: enhancedDescription,
		Tags:                tags,
		Reasoning:           reasoning,
		Confidence:          ClampScore(confidence),
	}
}
