package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tasksage/tasksage/internal/domain"
)

// Defaults applied to fields the model omitted from a task response.
const (
	defaultCategory   = "Work"
	defaultPriority   = domain.PriorityMedium
	defaultConfidence = 0.7
)

// taskResponseSchema is the expected JSON payload of a task analysis reply.
// Pointer fields distinguish "absent" from zero values so the documented
// defaults apply deterministically.
type taskResponseSchema struct {
	SuggestedPriority     string   `json:"suggested_priority"`
	SuggestedCategory     string   `json:"suggested_category"`
	SuggestedDeadlineDays *int     `json:"suggested_deadline_days"`
	EnhancedDescription   string   `json:"enhanced_description"`
	SuggestedTags         []string `json:"suggested_tags"`
	Reasoning             string   `json:"reasoning"`
	ConfidenceScore       *float64 `json:"confidence_score"`
}

// contextResponseSchema is the expected JSON payload of a context analysis
// reply. Only the urgency score participates in the combination step; the
// topical fields are decoded for logging but superseded by the heuristic
// signal.
type contextResponseSchema struct {
	MainTopics         []string `json:"main_topics"`
	DeadlinesMentioned []string `json:"deadlines_mentioned"`
	ActionItems        []string `json:"action_items"`
	UrgencyScore       float64  `json:"urgency_score"`
	Sentiment          string   `json:"sentiment"`
	SentimentScore     float64  `json:"sentiment_score"`
	KeyEntities        []string `json:"key_entities"`
	Insights           []string `json:"insights"`
}

// productivityResponseSchema is the expected JSON payload of a productivity
// insights reply.
type productivityResponseSchema struct {
	Insights []productivityItemSchema `json:"insights"`
}

type productivityItemSchema struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
	Actionable  bool    `json:"actionable"`
}

// maxProductivityInsights bounds how many items a single generation call
// yields, matching the 3-5 the prompt asks for.
const maxProductivityInsights = 5

// extractJSON locates the JSON object embedded in free-form model output:
// the span from the leftmost '{' to the rightmost '}'. Returns
// ErrMalformedResponse when no such span exists.
func extractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found in model output", ErrMalformedResponse)
	}
	return []byte(text[start : end+1]), nil
}

// ParseTaskResponse decodes a task analysis reply into a TaskSuggestion,
// applying permissive defaults for missing fields. The suggested deadline is
// computed here and only here: now + suggested_deadline_days. A missing or
// non-positive day count leaves the deadline unset rather than fabricating
// one.
func ParseTaskResponse(text string, now time.Time) (*domain.TaskSuggestion, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var schema taskResponseSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	priority := domain.Priority(schema.SuggestedPriority)
	if !priority.IsValid() {
		priority = defaultPriority
	}

	category := schema.SuggestedCategory
	if category == "" {
		category = defaultCategory
	}

	confidence := defaultConfidence
	if schema.ConfidenceScore != nil {
		confidence = *schema.ConfidenceScore
	}

	var deadline *time.Time
	if schema.SuggestedDeadlineDays != nil && *schema.SuggestedDeadlineDays > 0 {
		d := now.Add(time.Duration(*schema.SuggestedDeadlineDays) * 24 * time.Hour)
		deadline = &d
	}

	return domain.NewTaskSuggestion(
		category,
		priority,
		deadline,
		schema.EnhancedDescription,
		schema.SuggestedTags,
		schema.Reasoning,
		confidence,
		now,
	), nil
}

// ParseContextResponse decodes a context analysis reply. The result feeds
// the combination step; it is not returned to callers directly.
func ParseContextResponse(text string) (*contextResponseSchema, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var schema contextResponseSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &schema, nil
}

// ParseProductivityResponse decodes a productivity insights reply into
// insight value objects, preserving model order, clamping impact scores and
// truncating to at most five items.
func ParseProductivityResponse(text string) ([]*domain.ProductivityInsight, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var schema productivityResponseSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(schema.Insights) == 0 {
		return nil, fmt.Errorf("%w: no insights in model output", ErrMalformedResponse)
	}

	items := schema.Insights
	if len(items) > maxProductivityInsights {
		items = items[:maxProductivityInsights]
	}

	insights := make([]*domain.ProductivityInsight, 0, len(items))
	for _, item := range items {
		insights = append(insights, domain.NewProductivityInsight(
			item.Type,
			item.Title,
			item.Description,
			item.ImpactScore,
			item.Actionable,
		))
	}
	return insights, nil
}
