package repository

import (
	"context"

	"github.com/gitmuse/gitmuse/internal/domain"
)

// GitRepository defines the interface for Git operations over one working
// directory.

type GitRepository interface {
	// Status returns a fresh snapshot of the working tree.
	Status(ctx context.Context) (*domain.RepositoryStatus, error)
	// StagedDiff returns the textual diff of the index against HEAD.
	StagedDiff(ctx context.Context) (string, error)
	// StageAll stages every modification and untracked file.
	StageAll(ctx context.Context) error
	// Commit records the index as a commit and returns its hash.
	Commit(ctx context.Context, message string) (string, error)
	// Log returns the commits reachable from toRef down to (excluding)
	// fromHash, newest first. An empty fromHash walks the full history.
	Log(ctx context.Context, fromHash, toRef string) ([]domain.CommitRecord, error)
	// ResolveRevision resolves a symbolic reference to a commit hash.
	ResolveRevision(ctx context.Context, ref string) (string, error)
	// Tags returns all tags ordered newest first by commit date.
	Tags(ctx context.Context) ([]domain.TagRecord, error)
	// CreateTag tags HEAD with the given name.
	CreateTag(ctx context.Context, name, message string) error
	// FirstCommit returns the repository's root commit, or empty for an
	// empty repository.
	FirstCommit(ctx context.Context) (string, error)
	// HasRemote reports whether any remote is configured.
	HasRemote(ctx context.Context) (bool, error)
	// RemoteURL returns the first URL of the origin remote.
	RemoteURL(ctx context.Context) (string, error)
	// Push sends commits and any new tags to the remote together.
	Push(ctx context.Context) error
	// FileContentAt reads a file's content as of the given reference.
	FileContentAt(ctx context.Context, ref, path string) (string, error)
}
