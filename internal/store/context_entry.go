package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasksage/tasksage/internal/domain"
)

// ContextEntryStore defines the persistence operations for context entries.
type ContextEntryStore interface {
	// Create saves a new context entry to the store.
	// Returns ErrInvalidEntity wrapping a validation error if the entry is invalid.
	Create(ctx context.Context, entry *domain.ContextEntry) error

	// GetByID retrieves a context entry by its unique ID.
	// Returns ErrContextEntryNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContextEntry, error)

	// ApplyInsight persists an analysis result onto the entry and marks it
	// processed.
	// Returns ErrContextEntryNotFound if the entry does not exist.
	ApplyInsight(ctx context.Context, id uuid.UUID, insight *domain.ContextInsight) error

	// ListRecent returns up to limit entries ordered by creation time,
	// newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error)
}
