package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildTaskPrompt(t *testing.T) {
	t.Parallel()

	t.Run("includes title, description and context", func(t *testing.T) {
		t.Parallel()

		prompt := BuildTaskPrompt(TaskInput{
			Title:        "Renew passport",
			Description:  "Expires in August",
			ContextLines: []string{"email: embassy appointment slots open"},
		})

		assert.Contains(t, prompt, "Task Title: Renew passport")
		assert.Contains(t, prompt, "Task Description: Expires in August")
		assert.Contains(t, prompt, "embassy appointment slots open")
		assert.Contains(t, prompt, `"suggested_priority"`)
	})

	t.Run("empty context renders placeholder", func(t *testing.T) {
		t.Parallel()

		prompt := BuildTaskPrompt(TaskInput{Title: "Renew passport"})
		assert.Contains(t, prompt, "Recent Context: No context available")
	})

	t.Run("context is truncated", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", 3000)
		prompt := BuildTaskPrompt(TaskInput{
			Title:        "Renew passport",
			ContextLines: []string{long},
		})

		assert.Contains(t, prompt, strings.Repeat("x", maxContextChars))
		assert.NotContains(t, prompt, strings.Repeat("x", maxContextChars+1))
	})

	t.Run("truncation counts characters, not bytes", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("é", 3000)
		prompt := BuildTaskPrompt(TaskInput{
			Title:        "Renew passport",
			ContextLines: []string{long},
		})

		assert.True(t, utf8.ValidString(prompt))
		assert.Contains(t, prompt, strings.Repeat("é", maxContextChars))
		assert.NotContains(t, prompt, strings.Repeat("é", maxContextChars+1))
	})

	t.Run("preferences render as sorted lines", func(t *testing.T) {
		t.Parallel()

		prompt := BuildTaskPrompt(TaskInput{
			Title: "Renew passport",
			Preferences: map[string]string{
				"work_hours": "9-17",
				"focus_days": "Tue,Thu",
			},
		})

		assert.Contains(t, prompt, "User Preferences:")
		assert.Contains(t, prompt, "focus_days: Tue,Thu\nwork_hours: 9-17")
	})

	t.Run("no preferences omits the section", func(t *testing.T) {
		t.Parallel()

		prompt := BuildTaskPrompt(TaskInput{Title: "Renew passport"})
		assert.NotContains(t, prompt, "User Preferences:")
	})
}

func TestBuildContextPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildContextPrompt("Client wants the proposal by Friday", "email")

	assert.Contains(t, prompt, "Analyze the following email content")
	assert.Contains(t, prompt, "Content: Client wants the proposal by Friday")
	assert.Contains(t, prompt, `"urgency_score"`)
}

func TestRenderProductivitySummary(t *testing.T) {
	t.Parallel()

	t.Run("counts tasks and completions", func(t *testing.T) {
		t.Parallel()

		summary := RenderProductivitySummary(ProductivityInput{
			Tasks: []TaskSummaryLine{
				{Title: "a", Status: "completed"},
				{Title: "b", Status: "pending"},
				{Title: "c", Status: "completed"},
			},
			Contexts: []ContextSummaryLine{{Source: "email", Snippet: "hi"}},
			Metrics: map[string]string{
				"avg_completion_time": "2.5 days",
				"top_context_source":  "email",
			},
		})

		assert.Contains(t, summary, "Total tasks: 3")
		assert.Contains(t, summary, "Completed tasks: 2")
		assert.Contains(t, summary, "Average completion time: 2.5 days")
		assert.Contains(t, summary, "Total context entries: 1")
		assert.Contains(t, summary, "Most common source: email")
	})

	t.Run("missing metrics render as N/A", func(t *testing.T) {
		t.Parallel()

		summary := RenderProductivitySummary(ProductivityInput{})

		assert.Contains(t, summary, "Average completion time: N/A")
		assert.Contains(t, summary, "Overall score: N/A")
		assert.Contains(t, summary, "Focus time: N/A")
	})
}
