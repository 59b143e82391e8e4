package analysis

import "errors"

// Common errors returned by the analysis package
var (
	// ErrModelDisabled is returned when no model credentials are configured.
	// The gateway fails immediately without consuming its retry budget.
	ErrModelDisabled = errors.New("language model is not configured")

	// ErrModelUnavailable is returned when the remote call failed and the
	// retry budget is exhausted. It wraps the last underlying cause.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrMalformedResponse is returned when the model replied but no valid
	// JSON payload could be extracted or decoded from its output.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidConfig is returned when the gateway or analyzer
	// configuration is invalid.
	ErrInvalidConfig = errors.New("invalid analysis configuration")
)
