package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTaskSuggestion(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("preserves valid fields", func(t *testing.T) {
		t.Parallel()

		deadline := now.Add(48 * time.Hour)
		s := NewTaskSuggestion(
			"Health",
			PriorityUrgent,
			&deadline,
			"Book the appointment",
			[]string{"doctor"},
			"mentions a checkup",
			0.85,
			now,
		)

		assert.Equal(t, "Health", s.Category)
		assert.Equal(t, PriorityUrgent, s.Priority)
		assert.Equal(t, deadline, *s.Deadline)
		assert.Equal(t, []string{"doctor"}, s.Tags)
		assert.Equal(t, 0.85, s.Confidence)
	})

	t.Run("invalid priority degrades to medium", func(t *testing.T) {
		t.Parallel()

		s := NewTaskSuggestion("Work", Priority("asap"), nil, "", nil, "", 0.5, now)
		assert.Equal(t, PriorityMedium, s.Priority)
	})

	t.Run("empty category defaults to Work", func(t *testing.T) {
		t.Parallel()

		s := NewTaskSuggestion("", PriorityLow, nil, "", nil, "", 0.5, now)
		assert.Equal(t, "Work", s.Category)
	})

	t.Run("nil tags become empty slice", func(t *testing.T) {
		t.Parallel()

		s := NewTaskSuggestion("Work", PriorityLow, nil, "", nil, "", 0.5, now)
		assert.NotNil(t, s.Tags)
		assert.Empty(t, s.Tags)
	})

	t.Run("past deadline is dropped", func(t *testing.T) {
		t.Parallel()

		past := now.Add(-time.Hour)
		s := NewTaskSuggestion("Work", PriorityLow, &past, "", nil, "", 0.5, now)
		assert.Nil(t, s.Deadline)
	})

	t.Run("deadline equal to now is dropped", func(t *testing.T) {
		t.Parallel()

		same := now
		s := NewTaskSuggestion("Work", PriorityLow, &same, "", nil, "", 0.5, now)
		assert.Nil(t, s.Deadline)
	})

	t.Run("confidence is clamped to unit range", func(t *testing.T) {
		t.Parallel()

		high := NewTaskSuggestion("Work", PriorityLow, nil, "", nil, "", 1.7, now)
		assert.Equal(t, 1.0, high.Confidence)

		low := NewTaskSuggestion("Work", PriorityLow, nil, "", nil, "", -0.2, now)
		assert.Equal(t, 0.0, low.Confidence)
	})
}

func TestPriorityIsValid(t *testing.T) {
	t.Parallel()

	valid := []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	for _, p := range valid {
		assert.True(t, p.IsValid(), "priority %q should be valid", p)
	}

	assert.False(t, Priority("critical").IsValid())
	assert.False(t, Priority("").IsValid())
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ClampScore(-0.5))
	assert.Equal(t, 0.0, ClampScore(0))
	assert.Equal(t, 0.42, ClampScore(0.42))
	assert.Equal(t, 1.0, ClampScore(1))
	assert.Equal(t, 1.0, ClampScore(3.2))
}

func TestClampSentiment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1.0, ClampSentiment(-2.5))
	assert.Equal(t, -0.3, ClampSentiment(-0.3))
	assert.Equal(t, 0.7, ClampSentiment(0.7))
	assert.Equal(t, 1.0, ClampSentiment(1.1))
}
