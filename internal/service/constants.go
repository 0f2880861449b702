package service

import "time"

// Limits for generation backend calls
const (
	// DefaultRequestTimeout bounds one generation request.
	DefaultRequestTimeout = 60 * time.Second
	// DefaultRetryCount is the number of retries for transient failures.
	DefaultRetryCount = 2
	// DefaultRetryDelay is the base delay for exponential backoff.
	DefaultRetryDelay = 500 * time.Millisecond
	// MaxPromptBytes truncates oversized user prompts (huge diffs) before
	// they reach the backend.
	MaxPromptBytes = 200_000
)
