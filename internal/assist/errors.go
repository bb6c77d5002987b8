package assist

import "errors"

// The closed set of failures a provider call can surface. Providers wrap
// these with %w and the HTTP layer switches over them with errors.Is; the
// parser itself never produces an error.
var (
	// ErrEmptyPrompt rejects a blank instruction before any provider call.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrNotConfigured means the provider credential was absent.
	ErrNotConfigured = errors.New("AI provider API key not configured")
	// ErrAPIKey means the provider rejected the configured credential.
	ErrAPIKey = errors.New("invalid API key")
	// ErrRateLimit means the provider throttled the request.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrModelUnavailable means the model service failed upstream.
	ErrModelUnavailable = errors.New("AI model service unavailable")
	// ErrService covers every other classified provider failure.
	ErrService = errors.New("AI service error")
)
