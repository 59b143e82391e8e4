package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasksage/tasksage/internal/domain"
)

func TestParseTaskResponse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("parses a complete response", func(t *testing.T) {
		t.Parallel()

		text := `{
			"suggested_priority": "high",
			"suggested_category": "Health",
			"suggested_deadline_days": 2,
			"enhanced_description": "Book the annual checkup",
			"suggested_tags": ["health", "appointment"],
			"reasoning": "Health appointments slip easily",
			"confidence_score": 0.9
		}`

		s, err := ParseTaskResponse(text, now)
		require.NoError(t, err)

		assert.Equal(t, domain.PriorityHigh, s.Priority)
		assert.Equal(t, "Health", s.Category)
		assert.Equal(t, "Book the annual checkup", s.EnhancedDescription)
		assert.Equal(t, []string{"health", "appointment"}, s.Tags)
		assert.InDelta(t, 0.9, s.Confidence, 0.0001)
		require.NotNil(t, s.Deadline)
		assert.Equal(t, now.Add(2*24*time.Hour), *s.Deadline)
	})

	t.Run("extracts JSON embedded in prose", func(t *testing.T) {
		t.Parallel()

		text := `Sure, here is the analysis you asked for:
		{"suggested_priority": "urgent", "confidence_score": 0.8}
		Let me know if you need anything else.`

		s, err := ParseTaskResponse(text, now)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityUrgent, s.Priority)
	})

	t.Run("applies defaults for missing fields", func(t *testing.T) {
		t.Parallel()

		s, err := ParseTaskResponse(`{}`, now)
		require.NoError(t, err)

		assert.Equal(t, domain.PriorityMedium, s.Priority)
		assert.Equal(t, "Work", s.Category)
		assert.InDelta(t, 0.7, s.Confidence, 0.0001)
		assert.Nil(t, s.Deadline)
		assert.NotNil(t, s.Tags)
		assert.Empty(t, s.Tags)
	})

	t.Run("unrecognized priority degrades to medium", func(t *testing.T) {
		t.Parallel()

		s, err := ParseTaskResponse(`{"suggested_priority": "blocker"}`, now)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityMedium, s.Priority)
	})

	t.Run("non-positive deadline days leave deadline unset", func(t *testing.T) {
		t.Parallel()

		for _, days := range []string{"0", "-3"} {
			s, err := ParseTaskResponse(`{"suggested_deadline_days": `+days+`}`, now)
			require.NoError(t, err)
			assert.Nil(t, s.Deadline)
		}
	})

	t.Run("confidence is clamped", func(t *testing.T) {
		t.Parallel()

		s, err := ParseTaskResponse(`{"confidence_score": 1.7}`, now)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, s.Confidence, 0.0001)
	})

	t.Run("output without braces is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ParseTaskResponse("I could not produce JSON, sorry.", now)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("invalid JSON between braces is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ParseTaskResponse(`{"suggested_priority": }`, now)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseContextResponse(t *testing.T) {
	t.Parallel()

	t.Run("parses the urgency and topics", func(t *testing.T) {
		t.Parallel()

		text := `{
			"main_topics": ["contract", "renewal"],
			"urgency_score": 0.8,
			"sentiment": "negative",
			"sentiment_score": -0.4
		}`

		r, err := ParseContextResponse(text)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, r.UrgencyScore, 0.0001)
		assert.Equal(t, []string{"contract", "renewal"}, r.MainTopics)
		assert.InDelta(t, -0.4, r.SentimentScore, 0.0001)
	})

	t.Run("output without braces is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ParseContextResponse("no structured output here")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseProductivityResponse(t *testing.T) {
	t.Parallel()

	t.Run("preserves model order and fields", func(t *testing.T) {
		t.Parallel()

		text := `{"insights": [
			{"type": "time_management", "title": "Batch small tasks", "description": "Group quick wins", "impact_score": 0.8, "actionable": true},
			{"type": "workload_balance", "title": "Spread deadlines", "description": "Two clusters this week", "impact_score": 0.5, "actionable": false}
		]}`

		insights, err := ParseProductivityResponse(text)
		require.NoError(t, err)
		require.Len(t, insights, 2)

		assert.Equal(t, "time_management", insights[0].Type)
		assert.Equal(t, "Batch small tasks", insights[0].Title)
		assert.InDelta(t, 0.8, insights[0].ImpactScore, 0.0001)
		assert.True(t, insights[0].Actionable)
		assert.False(t, insights[1].Actionable)
	})

	t.Run("truncates to five insights", func(t *testing.T) {
		t.Parallel()

		text := `{"insights": [
			{"title": "a"}, {"title": "b"}, {"title": "c"},
			{"title": "d"}, {"title": "e"}, {"title": "f"}, {"title": "g"}
		]}`

		insights, err := ParseProductivityResponse(text)
		require.NoError(t, err)
		assert.Len(t, insights, 5)
	})

	t.Run("impact scores are clamped", func(t *testing.T) {
		t.Parallel()

		insights, err := ParseProductivityResponse(`{"insights": [{"impact_score": 2.5}]}`)
		require.NoError(t, err)
		require.Len(t, insights, 1)
		assert.InDelta(t, 1.0, insights[0].ImpactScore, 0.0001)
	})

	t.Run("empty insight list is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ParseProductivityResponse(`{"insights": []}`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
