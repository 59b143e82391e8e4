package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known productivity insight type tags. The model is free to emit
// other tags; these are the ones the heuristic engine produces.
const (
	ProductivityTypePattern         = "productivity_pattern"
	ProductivityTypeWorkloadBalance = "workload_balance"
)

// ProductivityInsight is one actionable observation derived from a user's
// recent task and context history. Insights are produced in small batches
// per generation call and persisted as a feed.
type ProductivityInsight struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImpactScore float64   `json:"impact_score"`
	Actionable  bool      `json:"actionable"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProductivityInsight builds a ProductivityInsight with a fresh ID and
// the impact score clamped to [0, 1].
func NewProductivityInsight(
	insightType string,
	title string,
	description string,
	impact float64,
	actionable bool,
) *ProductivityInsight {
	return &ProductivityInsight{
		ID:          uuid.New(),
		Type:        insightType,
		Title:       title,
		Description: description,
		ImpactScore: ClampScore(impact),
		Actionable:  actionable,
		CreatedAt:   time.Now().UTC(),
	}
}
