package postgres

import (
	"context"
	"log/slog"

	"github.com/tasksage/tasksage/internal/domain"
	"github.com/tasksage/tasksage/internal/platform/logger"
	"github.com/tasksage/tasksage/internal/store"
)

// PostgresInsightStore implements the store.InsightStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInsightStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInsightStore creates a new PostgreSQL implementation of the
// InsightStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresInsightStore(db store.DBTX, logger *slog.Logger) *PostgresInsightStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInsightStore{
		db:     db,
		logger: logger.With(slog.String("component", "insight_store")),
	}
}

// Ensure PostgresInsightStore implements store.InsightStore interface
var _ store.InsightStore = (*PostgresInsightStore)(nil)

// SaveInsights implements store.InsightStore.SaveInsights
// Each insight is inserted individually; the first failure aborts the batch.
func (s *PostgresInsightStore) SaveInsights(
	ctx context.Context,
	insights []*domain.ProductivityInsight,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO productivity_insights (id, type, title, description,
			impact_score, actionable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, in := range insights {
		_, err := s.db.ExecContext(
			ctx,
			query,
			in.ID,
			in.Type,
			in.Title,
			in.Description,
			in.ImpactScore,
			in.Actionable,
			in.CreatedAt,
		)
		if err != nil {
			log.Error("failed to save productivity insight",
				slog.String("error", err.Error()),
				slog.String("insight_id", in.ID.String()))
			return MapError(err)
		}
	}

	log.Info("productivity insights saved", slog.Int("count", len(insights)))
	return nil
}

// ListRecentInsights implements store.InsightStore.ListRecentInsights
// Returns an empty slice if no insights exist.
func (s *PostgresInsightStore) ListRecentInsights(
	ctx context.Context,
	limit int,
) ([]*domain.ProductivityInsight, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, type, title, description, impact_score, actionable, created_at
		FROM productivity_insights
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list recent insights",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	insights := []*domain.ProductivityInsight{}
	for rows.Next() {
		var in domain.ProductivityInsight
		err := rows.Scan(
			&in.ID,
			&in.Type,
			&in.Title,
			&in.Description,
			&in.ImpactScore,
			&in.Actionable,
			&in.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan insight row",
				slog.String("error", err.Error()))
			return nil, err
		}
		insights = append(insights, &in)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed recent insights", slog.Int("count", len(insights)))
	return insights, nil
}

// RecordAnalysis implements store.InsightStore.RecordAnalysis
// It appends one entry to the analysis audit trail.
func (s *PostgresInsightStore) RecordAnalysis(
	ctx context.Context,
	record *domain.AnalysisRecord,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("analysis record validation failed",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	query := `
		INSERT INTO analysis_records (id, kind, subject_id, engine,
			duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.Kind,
		record.SubjectID,
		record.Engine,
		record.Duration.Milliseconds(),
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to record analysis",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return MapError(err)
	}

	log.Debug("analysis recorded",
		slog.String("kind", string(record.Kind)),
		slog.String("engine", string(record.Engine)),
		slog.String("subject_id", record.SubjectID.String()))
	return nil
}
