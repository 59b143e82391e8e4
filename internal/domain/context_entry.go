package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContextSource identifies where a context entry came from.
type ContextSource string

// Possible context sources
const (
	ContextSourceEmail    ContextSource = "email"
	ContextSourceWhatsApp ContextSource = "whatsapp"
	ContextSourceNote     ContextSource = "note"
	ContextSourceMeeting  ContextSource = "meeting"
	ContextSourceManual   ContextSource = "manual"
)

// IsValid reports whether the source is one of the recognized values.
func (s ContextSource) IsValid() bool {
	switch s {
	case ContextSourceEmail, ContextSourceWhatsApp, ContextSourceNote,
		ContextSourceMeeting, ContextSourceManual:
		return true
	default:
		return false
	}
}

// ContextEntry is a free-text observation (email, note, meeting transcript)
// supplied for analysis, distinct from a todo. Analysis results are stored
// back onto the entry.
type ContextEntry struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	Source    ContextSource `json:"source"`
	Processed bool          `json:"processed"`

	// Insight fields populated by analysis.
	InsightType    string   `json:"insight_type"`
	InsightMessage string   `json:"insight_message"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords"`
	UrgencyScore   float64  `json:"urgency_score"`
	SentimentScore float64  `json:"sentiment_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContextEntry creates a new unprocessed ContextEntry.
// Returns an error if validation fails.
func NewContextEntry(content string, source ContextSource) (*ContextEntry, error) {
	entry := &ContextEntry{
		ID:        uuid.New(),
		Content:   content,
		Source:    source,
		Keywords:  []string{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ContextEntry has valid data.
// Returns an error if any field fails validation.
func (e *ContextEntry) Validate() error {
	if e.Content == "" {
		return ErrEmptyContent
	}

	if !e.Source.IsValid() {
		return ErrInvalidContextSource
	}

	return nil
}

// ApplyInsight stores the analysis result on the entry and marks it processed.
func (e *ContextEntry) ApplyInsight(in *ContextInsight) {
	e.InsightType = in.Type
	e.InsightMessage = in.Message
	e.Confidence = in.Confidence
	e.Keywords = append([]string{}, in.Keywords...)
	e.UrgencyScore = in.UrgencyScore
	e.SentimentScore = in.SentimentScore
	e.Processed = true
	e.UpdatedAt = time.Now().UTC()
}
