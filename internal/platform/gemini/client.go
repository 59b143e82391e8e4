package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tasksage/tasksage/internal/analysis"
	"github.com/tasksage/tasksage/internal/config"
	"google.golang.org/genai"
)

// generateFunc performs one raw model call. It is a field so tests can
// substitute a fake without a network dependency.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Client wraps the Gemini API with bounded retry and backoff. It implements
// analysis.ModelClient. A Client constructed without an API key is disabled:
// every Generate call fails immediately with analysis.ErrModelDisabled and
// no retry budget is consumed, which routes all analysis to the heuristic
// path.
type Client struct {
	logger *slog.Logger

	client *genai.Client
	model  string

	maxRetries    int
	backoffFactor float64

	generate generateFunc
}

// NewClient creates a Gemini-backed model client from the LLM configuration.
// A missing API key yields a disabled client rather than an error, so the
// application runs without model credentials.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	c := &Client{
		logger:        logger.With("component", "gemini_client"),
		model:         cfg.ModelName,
		maxRetries:    cfg.MaxRetries,
		backoffFactor: cfg.BackoffFactor,
	}

	if c.maxRetries <= 0 {
		c.logger.Warn("invalid max retries value, using default", "max_retries", config.DefaultLLMMaxRetries)
		c.maxRetries = config.DefaultLLMMaxRetries
	}
	if c.backoffFactor <= 1 {
		c.logger.Warn("invalid backoff factor, using default", "backoff_factor", config.DefaultLLMBackoffFactor)
		c.backoffFactor = config.DefaultLLMBackoffFactor
	}

	if cfg.APIKey == "" {
		c.logger.Warn("gemini API key not configured, AI analysis will use heuristics")
		return c, nil
	}

	if c.model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", analysis.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			analysis.ErrInvalidConfig, err)
	}

	c.client = client
	c.generate = c.callModel
	return c, nil
}

// Enabled reports whether the client holds model credentials.
func (c *Client) Enabled() bool {
	return c.generate != nil
}

// Generate sends the prompt to the model and returns its raw text reply.
//
// Attempts run 1..maxRetries; after each failed attempt except the last the
// call sleeps backoffFactor^attempt seconds (interruptible by ctx) before
// retrying. Each failure is logged as a warning, exhaustion as an error, and
// the last cause is surfaced wrapped in analysis.ErrModelUnavailable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", analysis.ErrModelDisabled
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		text, err := c.generate(ctx, prompt)
		if err == nil {
			c.logger.DebugContext(ctx, "model call succeeded",
				"attempt", attempt,
				"response_length", len(text))
			return text, nil
		}

		lastErr = err
		c.logger.WarnContext(ctx, "model call failed",
			"attempt", attempt,
			"max_attempts", c.maxRetries,
			"error", err)

		if attempt == c.maxRetries {
			break
		}

		delay := time.Duration(math.Pow(c.backoffFactor, float64(attempt)) * float64(time.Second))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			c.logger.WarnContext(ctx, "model call cancelled during retry delay",
				"attempt", attempt,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", analysis.ErrModelUnavailable, ctx.Err())
		}
	}

	c.logger.ErrorContext(ctx, "max retries reached for model call",
		"max_attempts", c.maxRetries,
		"error", lastErr)
	return "", fmt.Errorf("%w: %v", analysis.ErrModelUnavailable, lastErr)
}

// callModel performs one GenerateContent round trip against the Gemini API
// and extracts the concatenated text parts of the reply.
func (c *Client) callModel(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini API returned no content")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini API returned no text parts")
	}

	return text, nil
}
