package domain

// Insight type tags attached to ContextInsight results.
const (
	InsightTypeContextAnalysis = "context_analysis"
	InsightTypeMockAnalysis    = "mock_analysis"
)

// ContextInsight is the result of analyzing a single context entry
// (an email, note or meeting transcript). Like TaskSuggestion it is a
// value object: produced per call, immutable once returned, owned by
// the caller.
type ContextInsight struct {
	Type           string   `json:"insight_type"`
	Message        string   `json:"message"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"related_keywords"`
	UrgencyScore   float64  `json:"urgency_score"`
	SentimentScore float64  `json:"sentiment_score"`
}

// NewContextInsight builds a ContextInsight with scores clamped to their
// documented ranges and a never-nil keyword slice.
func NewContextInsight(
	insightType string,
	message string,
	confidence float64,
	keywords []string,
	urgency float64,
	sentiment float64,
) *ContextInsight {
	if keywords == nil {
		keywords = []string{}
	}

	return &ContextInsight{
		Type:           insightType,
		Message:        message,
		Confidence:     ClampScore(confidence),
		Keywords:       keywords,
		UrgencyScore:   ClampScore(urgency),
		SentimentScore: ClampSentiment(sentiment),
	}
}
