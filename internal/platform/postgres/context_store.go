package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/domain"
	"github.com/tasksage/tasksage/internal/platform/logger"
	"github.com/tasksage/tasksage/internal/store"
)

// PostgresContextEntryStore implements the store.ContextEntryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContextEntryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContextEntryStore creates a new PostgreSQL implementation of
// the ContextEntryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresContextEntryStore(db store.DBTX, logger *slog.Logger) *PostgresContextEntryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContextEntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "context_entry_store")),
	}
}

// Ensure PostgresContextEntryStore implements store.ContextEntryStore interface
var _ store.ContextEntryStore = (*PostgresContextEntryStore)(nil)

// Create implements store.ContextEntryStore.Create
func (s *PostgresContextEntryStore) Create(ctx context.Context, entry *domain.ContextEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("context entry validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	keywords, err := json.Marshal(entry.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	query := `
		INSERT INTO context_entries (id, content, source, processed,
			insight_type, insight_message, confidence, keywords,
			urgency_score, sentiment_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Content,
		entry.Source,
		entry.Processed,
		entry.InsightType,
		entry.InsightMessage,
		entry.Confidence,
		keywords,
		entry.UrgencyScore,
		entry.SentimentScore,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create context entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return MapError(err)
	}

	log.Info("context entry created successfully",
		slog.String("entry_id", entry.ID.String()),
		slog.String("source", string(entry.Source)))
	return nil
}

// GetByID implements store.ContextEntryStore.GetByID
// Returns store.ErrContextEntryNotFound if the entry does not exist.
func (s *PostgresContextEntryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContextEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving context entry by ID", slog.String("entry_id", id.String()))

	query := `
		SELECT id, content, source, processed, insight_type, insight_message,
			confidence, keywords, urgency_score, sentiment_score,
			created_at, updated_at
		FROM context_entries
		WHERE id = $1
	`

	entry, err := scanContextEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("context entry not found", slog.String("entry_id", id.String()))
			return nil, store.ErrContextEntryNotFound
		}
		log.Error("failed to get context entry by ID",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return nil, MapError(err)
	}

	return entry, nil
}

// ApplyInsight implements store.ContextEntryStore.ApplyInsight
// It persists the insight fields onto the entry and marks it processed.
// Returns store.ErrContextEntryNotFound if the entry does not exist.
func (s *PostgresContextEntryStore) ApplyInsight(
	ctx context.Context,
	id uuid.UUID,
	insight *domain.ContextInsight,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	keywords, err := json.Marshal(insight.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	query := `
		UPDATE context_entries
		SET processed = TRUE, insight_type = $1, insight_message = $2,
			confidence = $3, keywords = $4, urgency_score = $5,
			sentiment_score = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		insight.Type,
		insight.Message,
		insight.Confidence,
		keywords,
		insight.UrgencyScore,
		insight.SentimentScore,
		time.Now().UTC(),
		id,
	)

	if err != nil {
		log.Error("failed to apply insight",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "context entry"); err != nil {
		log.Debug("context entry not found for insight",
			slog.String("entry_id", id.String()))
		return store.ErrContextEntryNotFound
	}

	log.Info("insight applied to context entry",
		slog.String("entry_id", id.String()),
		slog.String("insight_type", insight.Type))
	return nil
}

// ListRecent implements store.ContextEntryStore.ListRecent
// Returns an empty slice if no entries exist.
func (s *PostgresContextEntryStore) ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, content, source, processed, insight_type, insight_message,
			confidence, keywords, urgency_score, sentiment_score,
			created_at, updated_at
		FROM context_entries
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list recent context entries",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*domain.ContextEntry{}
	for rows.Next() {
		entry, err := scanContextEntry(rows)
		if err != nil {
			log.Error("failed to scan context entry row",
				slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed recent context entries", slog.Int("count", len(entries)))
	return entries, nil
}

func scanContextEntry(row rowScanner) (*domain.ContextEntry, error) {
	var entry domain.ContextEntry
	var source string
	var keywords []byte

	err := row.Scan(
		&entry.ID,
		&entry.Content,
		&source,
		&entry.Processed,
		&entry.InsightType,
		&entry.InsightMessage,
		&entry.Confidence,
		&keywords,
		&entry.UrgencyScore,
		&entry.SentimentScore,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Source = domain.ContextSource(source)
	if err := json.Unmarshal(keywords, &entry.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	if entry.Keywords == nil {
		entry.Keywords = []string{}
	}

	return &entry, nil
}
