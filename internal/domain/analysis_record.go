package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisKind identifies which orchestrator operation produced a record.
type AnalysisKind string

// Possible analysis kinds
const (
	AnalysisKindTask         AnalysisKind = "task_analysis"
	AnalysisKindContext      AnalysisKind = "context_analysis"
	AnalysisKindProductivity AnalysisKind = "productivity_insights"
)

// AnalysisEngine identifies which path produced the result.
type AnalysisEngine string

// Possible analysis engines
const (
	// AnalysisEngineModel means the remote model produced the result.
	AnalysisEngineModel AnalysisEngine = "model"

	// AnalysisEngineHeuristic means the deterministic fallback produced it,
	// either because the model is disabled or because the model path failed.
	AnalysisEngineHeuristic AnalysisEngine = "heuristic"
)

// AnalysisRecord is the audit trail for one orchestrator run: which
// operation ran against which record, which engine answered, and how long
// it took. Useful for spotting how often the fallback path is taken.
type AnalysisRecord struct {
	ID        uuid.UUID      `json:"id"`
	Kind      AnalysisKind   `json:"kind"`
	SubjectID uuid.UUID      `json:"subject_id"`
	Engine    AnalysisEngine `json:"engine"`
	Duration  time.Duration  `json:"duration"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAnalysisRecord creates a record for a completed analysis run.
// Returns an error if validation fails.
func NewAnalysisRecord(
	kind AnalysisKind,
	subjectID uuid.UUID,
	engine AnalysisEngine,
	duration time.Duration,
) (*AnalysisRecord, error) {
	record := &AnalysisRecord{
		ID:        uuid.New(),
		Kind:      kind,
		SubjectID: subjectID,
		Engine:    engine,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the AnalysisRecord has valid data.
func (r *AnalysisRecord) Validate() error {
	switch r.Kind {
	case AnalysisKindTask, AnalysisKindContext, AnalysisKindProductivity:
	default:
		return ErrInvalidAnalysisKind
	}

	if r.SubjectID == uuid.Nil {
		return ErrEmptySubjectID
	}

	return nil
}
