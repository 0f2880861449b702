package service

import "context"

// Purpose selects which configured model serves a generation request.
type Purpose string

const (
	// PurposeCommit generates commit messages from staged diffs.
	PurposeCommit Purpose = "commit"
	// PurposeChangelog generates and merges changelog entries.
	PurposeChangelog Purpose = "changelog"
)

// GenerateService defines the interface for the remote text-generation
// backend: prompt in, text out, model selection opaque to callers.

type GenerateService interface {
	Generate(ctx context.Context, purpose Purpose, systemPrompt, userPrompt string) (string, error)
	// Close releases the backend session. Idempotent; registered once at
	// startup and invoked on exit or interruption.
	Close() error
}
