package usecase

import (
	"context"
	"strings"

	"github.com/gitmuse/gitmuse/internal/domain"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
	"github.com/gitmuse/gitmuse/internal/repository"
)

// RefResolver resolves symbolic references to concrete commits and
// detects the repository's tag-naming convention.

type RefResolver struct {
	GitRepo repository.GitRepository
}

// ResolveToCommit resolves a reference to a commit hash. A reference that
// does not exist is a user-facing error.
func (r *RefResolver) ResolveToCommit(ctx context.Context, ref string) (string, error) {
	hash, err := r.GitRepo.ResolveRevision(ctx, ref)
	if err != nil {
		return "", gmerrors.WrapUser(err, "invalid reference "+ref,
			"use a branch, tag, commit hash or symbolic name that exists in this repository")
	}
	return hash, nil
}

// DetectTagPrefix inspects all tags and returns "v" or "" by majority
// vote over name prefixes. Ties and tagless repositories default to the
// conventional "v".
func (r *RefResolver) DetectTagPrefix(ctx context.Context) (string, error) {
	tags, err := r.GitRepo.Tags(ctx)
	if err != nil {
		return "", err
	}
	var prefixed, bare int
	for _, tag := range tags {
		if strings.HasPrefix(tag.Name, "v") {
			prefixed++
		} else {
			bare++
		}
	}
	if bare > prefixed {
		return "", nil
	}
	return "v", nil
}

// LatestTag returns the newest tag, or nil when none exist. Tags arrive
// from the backend ordered newest first, so the first one wins.
func (r *RefResolver) LatestTag(ctx context.Context) (*domain.TagRecord, error) {
	tags, err := r.GitRepo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	tag := tags[0]
	return &tag, nil
}

// FirstCommit returns the repository's root commit, or empty for an empty
// repository.
func (r *RefResolver) FirstCommit(ctx context.Context) (string, error) {
	return r.GitRepo.FirstCommit(ctx)
}
