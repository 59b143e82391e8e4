package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tasksage/tasksage/internal/domain"
)

// ModelClient is the boundary to the remote generative-text model. The
// gateway implementation owns all network I/O and retry behavior; from the
// orchestrator's point of view a call either yields raw response text or
// fails with ErrModelDisabled / ErrModelUnavailable.
type ModelClient interface {
	// Generate sends a prompt to the model and returns its raw text output.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Constructor validation errors
var (
	ErrNilModelClient = errors.New("model client cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
)

// Analyzer sequences the analysis pipeline for one request: prompt
// construction, model call, response parsing, and heuristic fallback. Its
// three operations are total functions: they always return a usable typed
// result and report which engine produced it, never an error. All state is
// immutable after construction, so an Analyzer is safe for concurrent use.
type Analyzer struct {
	client     ModelClient
	heuristics *Heuristics
	logger     *slog.Logger
	now        func() time.Time
}

// NewAnalyzer creates an Analyzer around the given model client. A nil
// heuristics engine gets the default configuration.
func NewAnalyzer(client ModelClient, heuristics *Heuristics, logger *slog.Logger) (*Analyzer, error) {
	if client == nil {
		return nil, ErrNilModelClient
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if heuristics == nil {
		heuristics = NewHeuristics(DefaultHeuristicConfig())
	}

	return &Analyzer{
		client:     client,
		heuristics: heuristics,
		logger:     logger.With("component", "analyzer"),
		now:        time.Now,
	}, nil
}

// AnalyzeTask analyzes a todo and returns a suggestion for its priority,
// category, deadline and tags. Any model or parsing failure degrades to the
// deterministic heuristic; the second return value reports which engine
// produced the result.
func (a *Analyzer) AnalyzeTask(ctx context.Context, in TaskInput) (*domain.TaskSuggestion, domain.AnalysisEngine) {
	now := a.now().UTC()

	text, err := a.client.Generate(ctx, BuildTaskPrompt(in))
	if err != nil {
		a.logDegradation(ctx, "task analysis", err)
		return a.heuristics.TaskSuggestion(in.Title, in.Description, now), domain.AnalysisEngineHeuristic
	}

	suggestion, err := ParseTaskResponse(text, now)
	if err != nil {
		a.logDegradation(ctx, "task analysis", err)
		return a.heuristics.TaskSuggestion(in.Title, in.Description, now), domain.AnalysisEngineHeuristic
	}

	return suggestion, domain.AnalysisEngineModel
}

// AnalyzeContext analyzes a context entry. The traditional-NLP signal
// (lexicon sentiment, keyword extraction, urgency scan) is computed
// regardless of whether the model call succeeds; on success the model's
// urgency is max-combined with the scan while sentiment and keywords come
// from the NLP signal alone.
func (a *Analyzer) AnalyzeContext(ctx context.Context, content, source string) (*domain.ContextInsight, domain.AnalysisEngine) {
	scanUrgency := a.heuristics.UrgencyScore(content)

	text, err := a.client.Generate(ctx, BuildContextPrompt(content, source))
	if err != nil {
		a.logDegradation(ctx, "context analysis", err)
		return a.fallbackContextInsight(content, scanUrgency), domain.AnalysisEngineHeuristic
	}

	modelResult, err := ParseContextResponse(text)
	if err != nil {
		a.logDegradation(ctx, "context analysis", err)
		return a.fallbackContextInsight(content, scanUrgency), domain.AnalysisEngineHeuristic
	}

	keywords := a.heuristics.ExtractKeywords(content)
	wordCount := len(strings.Fields(content))

	insight := domain.NewContextInsight(
		domain.InsightTypeContextAnalysis,
		fmt.Sprintf("Analyzed %d words with %d key topics identified.", wordCount, len(keywords)),
		0.8,
		keywords,
		math.Max(modelResult.UrgencyScore, scanUrgency),
		sentimentScore(content),
	)
	return insight, domain.AnalysisEngineModel
}

// GenerateProductivityInsights asks the model for 3-5 insights derived from
// recent task and context history. On any failure it returns the fixed
// heuristic set.
func (a *Analyzer) GenerateProductivityInsights(ctx context.Context, in ProductivityInput) ([]*domain.ProductivityInsight, domain.AnalysisEngine) {
	prompt := BuildProductivityPrompt(RenderProductivitySummary(in))

	text, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.logDegradation(ctx, "productivity insights", err)
		return a.heuristics.ProductivityInsights(), domain.AnalysisEngineHeuristic
	}

	insights, err := ParseProductivityResponse(text)
	if err != nil {
		a.logDegradation(ctx, "productivity insights", err)
		return a.heuristics.ProductivityInsights(), domain.AnalysisEngineHeuristic
	}

	return insights, domain.AnalysisEngineModel
}

// fallbackContextInsight builds the heuristic context result, keeping its
// urgency at least as high as the standalone urgency scan.
func (a *Analyzer) fallbackContextInsight(content string, scanUrgency float64) *domain.ContextInsight {
	insight := a.heuristics.ContextInsight(content)
	if scanUrgency > insight.UrgencyScore {
		insight.UrgencyScore = scanUrgency
	}
	return insight
}

// logDegradation records why an operation fell back to the heuristic path.
// A disabled model is the expected state on installs without credentials
// and logs at debug; everything else is an operational error.
func (a *Analyzer) logDegradation(ctx context.Context, operation string, err error) {
	if errors.Is(err, ErrModelDisabled) {
		a.logger.DebugContext(ctx, "model disabled, using heuristic analysis",
			"operation", operation)
		return
	}

	a.logger.ErrorContext(ctx, "analysis degraded to heuristic result",
		"operation", operation,
		"error", err)
}
