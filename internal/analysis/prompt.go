package analysis

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// maxContextChars bounds how much recent-context text is included in a
// task analysis prompt.
const maxContextChars = 1000

// TaskInput carries the raw fields of a todo into analysis.
type TaskInput struct {
	// Title is required; everything else may be empty.
	Title       string
	Description string

	// ContextLines are recent context snippets that help the model judge
	// urgency and importance.
	ContextLines []string

	// Preferences is an optional map of user preferences, rendered verbatim
	// into the prompt.
	Preferences map[string]string
}

// TaskSummaryLine describes one todo for productivity-insight generation.
type TaskSummaryLine struct {
	Title    string
	Status   string
	Priority string
	Category string
}

// ContextSummaryLine describes one context entry for productivity-insight
// generation.
type ContextSummaryLine struct {
	Source  string
	Snippet string
}

// ProductivityInput aggregates the data productivity insights are derived
// from. Metrics holds pre-computed aggregates keyed by name
// (avg_completion_time, top_context_source, productivity_score, focus_time);
// missing keys render as "N/A".
type ProductivityInput struct {
	Tasks    []TaskSummaryLine
	Contexts []ContextSummaryLine
	Metrics  map[string]string
}

var taskPromptTmpl = template.Must(template.New("task_analysis").Parse(`
Analyze the following task and provide suggestions in JSON format:

Task Title: {{.Title}}
Task Description: {{.Description}}
Recent Context: {{.Context}}
{{- if .Preferences}}
User Preferences:
{{.Preferences}}
{{- end}}

Please analyze this task and provide suggestions for:
1. Priority level (urgent, high, medium, low)
2. Suggested category (Work, Personal, Health, Learning, Finance, etc.)
3. Suggested deadline (estimate in days from now)
4. Enhanced description with more details
5. Relevant tags (3-5 tags)
6. Reasoning for your suggestions

Respond in this exact JSON format:
{
    "suggested_priority": "medium",
    "suggested_category": "Work",
    "suggested_deadline_days": 7,
    "enhanced_description": "Enhanced description here",
    "suggested_tags": ["tag1", "tag2", "tag3"],
    "reasoning": "Explanation of suggestions",
    "confidence_score": 0.85
}

Consider the context to understand urgency and importance. Be concise but helpful.
`))

var contextPromptTmpl = template.Must(template.New("context_analysis").Parse(`
Analyze the following {{.Source}} content and extract actionable insights:

Content: {{.Content}}

Please analyze this content and identify:
1. Main topics and themes
2. Any deadlines or time-sensitive information
3. Action items or tasks that could be created
4. Urgency level (0.0 to 1.0)
5. Emotional tone and sentiment
6. Key entities (people, places, projects)

Respond in this JSON format:
{
    "main_topics": ["topic1", "topic2"],
    "deadlines_mentioned": ["deadline info"],
    "action_items": ["action1", "action2"],
    "urgency_score": 0.7,
    "sentiment": "positive",
    "sentiment_score": 0.3,
    "key_entities": ["entity1", "entity2"],
    "insights": ["insight1", "insight2"]
}

Focus on practical insights that could help with task management.
`))

var productivityPromptTmpl = template.Must(template.New("productivity_insights").Parse(`
Based on the following user productivity data, provide actionable insights:

{{.Summary}}

Analyze the patterns and provide 3-5 specific insights about:
1. Peak productivity times
2. Task completion patterns
3. Areas for improvement
4. Workload optimization suggestions
5. Context utilization effectiveness

Respond in this JSON format:
{
    "insights": [
        {
            "type": "productivity_pattern",
            "title": "Insight title",
            "description": "Detailed description",
            "impact_score": 0.8,
            "actionable": true
        }
    ]
}

Focus on actionable, data-driven insights.
`))

// BuildTaskPrompt renders the task analysis prompt. It is pure and never
// fails: missing fields degrade to placeholders.
func BuildTaskPrompt(in TaskInput) string {
	contextText := truncateRunes(strings.Join(in.ContextLines, "\n"), maxContextChars)
	if contextText == "" {
		contextText = "No context available"
	}

	return render(taskPromptTmpl, struct {
		Title       string
		Description string
		Context     string
		Preferences string
	}{
		Title:       in.Title,
		Description: in.Description,
		Context:     contextText,
		Preferences: renderPreferences(in.Preferences),
	})
}

// BuildContextPrompt renders the context analysis prompt for the given
// content and source label (e.g. "email", "manual").
func BuildContextPrompt(content, source string) string {
	return render(contextPromptTmpl, struct {
		Content string
		Source  string
	}{
		Content: content,
		Source:  source,
	})
}

// BuildProductivityPrompt renders the productivity insights prompt from a
// pre-rendered data summary.
func BuildProductivityPrompt(summary string) string {
	return render(productivityPromptTmpl, struct{ Summary string }{Summary: summary})
}

// RenderProductivitySummary produces the data summary block embedded in the
// productivity prompt. Missing aggregates render as "N/A".
func RenderProductivitySummary(in ProductivityInput) string {
	completed := 0
	for _, t := range in.Tasks {
		if t.Status == "completed" {
			completed++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task Summary:\n")
	fmt.Fprintf(&b, "- Total tasks: %d\n", len(in.Tasks))
	fmt.Fprintf(&b, "- Completed tasks: %d\n", completed)
	fmt.Fprintf(&b, "- Average completion time: %s\n", metric(in.Metrics, "avg_completion_time"))
	fmt.Fprintf(&b, "\nContext Summary:\n")
	fmt.Fprintf(&b, "- Total context entries: %d\n", len(in.Contexts))
	fmt.Fprintf(&b, "- Most common source: %s\n", metric(in.Metrics, "top_context_source"))
	fmt.Fprintf(&b, "\nProductivity Metrics:\n")
	fmt.Fprintf(&b, "- Overall score: %s\n", metric(in.Metrics, "productivity_score"))
	fmt.Fprintf(&b, "- Focus time: %s\n", metric(in.Metrics, "focus_time"))
	return b.String()
}

// metric looks up an aggregate by name, substituting "N/A" when absent.
func metric(metrics map[string]string, key string) string {
	if v, ok := metrics[key]; ok && v != "" {
		return v
	}
	return "N/A"
}

// renderPreferences formats the preference map as sorted "key: value" lines
// so prompts are deterministic for identical input.
func renderPreferences(prefs map[string]string) string {
	if len(prefs) == 0 {
		return ""
	}

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, prefs[k]))
	}
	return strings.Join(lines, "\n")
}

// truncateRunes caps s at max characters, never splitting a multi-byte rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// render executes a prompt template into a string. The templates are static
// and reference only string fields, so execution cannot fail at runtime.
func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
