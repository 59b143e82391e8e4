// Package gemini implements the analysis.ModelClient interface using
// Google's Gemini API. It is the sole component of the application that
// performs network I/O against the model provider, and it owns the
// retry/backoff policy for those calls.
package gemini
