package store

import (
	"context"

	"github.com/tasksage/tasksage/internal/domain"
)

// InsightStore defines the persistence operations for the productivity
// insight feed and the analysis audit trail.
type InsightStore interface {
	// SaveInsights persists a batch of productivity insights.
	SaveInsights(ctx context.Context, insights []*domain.ProductivityInsight) error

	// ListRecentInsights returns up to limit insights ordered by creation
	// time, newest first.
	ListRecentInsights(ctx context.Context, limit int) ([]*domain.ProductivityInsight, error)

	// RecordAnalysis appends one entry to the analysis audit trail.
	RecordAnalysis(ctx context.Context, record *domain.AnalysisRecord) error
}
