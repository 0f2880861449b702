package repository

import "context"

// ReleasePublisher defines the interface for publishing a release on the
// hosting service after a tag has been pushed.

type ReleasePublisher interface {
	// PublishRelease creates a release for the given tag and returns its
	// URL.
	PublishRelease(ctx context.Context, tag, name, body string) (string, error)
}
