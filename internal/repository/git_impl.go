package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/gitmuse/gitmuse/internal/domain"
)

// DiffCommandTimeout bounds the one operation that shells out to git.
const DiffCommandTimeout = 30 * time.Second

// gitRepository is the go-git backed implementation of GitRepository.

type gitRepository struct {
	repo    *git.Repository
	workdir string
}

// NewGitRepository opens the repository at dir ("." when empty).
func NewGitRepository(dir string) (GitRepository, error) {
	if dir == "" {
		dir = "."
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{repo: repo, workdir: dir}, nil
}

// Status returns a fresh snapshot of the working tree.
func (r *gitRepository) Status(_ context.Context) (*domain.RepositoryStatus, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	snapshot := &domain.RepositoryStatus{}
	for path, fs := range status {
		switch {
		case fs.Worktree == git.Untracked:
			snapshot.Untracked = append(snapshot.Untracked, path)
		default:
			if fs.Staging != git.Unmodified {
				snapshot.Staged = append(snapshot.Staged, path)
			}
			if fs.Worktree != git.Unmodified {
				snapshot.Unstaged = append(snapshot.Unstaged, path)
			}
		}
	}
	sort.Strings(snapshot.Staged)
	sort.Strings(snapshot.Unstaged)
	sort.Strings(snapshot.Untracked)
	return snapshot, nil
}

// StagedDiff returns the textual diff of the index against HEAD. go-git
// cannot diff the index as a tree, so this one operation shells out.
func (r *gitRepository) StagedDiff(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DiffCommandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "git", "-C", r.workdir, "diff", "--cached")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("git diff timed out after %v", DiffCommandTimeout)
		}
		if msg := stderr.String(); msg != "" {
			return "", fmt.Errorf("git diff failed: %w (stderr: %s)", err, msg)
		}
		return "", fmt.Errorf("git diff failed: %w", err)
	}
	return stdout.String(), nil
}

// StageAll stages every modification and untracked file.
func (r *gitRepository) StageAll(_ context.Context) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit records the index as a commit and returns its hash.
func (r *gitRepository) Commit(_ context.Context, message string) (string, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	hash, err := w.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}
	return hash.String(), nil
}

// Log returns the commits reachable from toRef down to (excluding)
// fromHash, newest first.
func (r *gitRepository) Log(ctx context.Context, fromHash, toRef string) ([]domain.CommitRecord, error) {
	toCommit, err := r.ResolveRevision(ctx, toRef)
	if err != nil {
		return nil, err
	}
	iter, err := r.repo.Log(&git.LogOptions{From: plumbing.NewHash(toCommit)})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	var records []domain.CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if fromHash != "" && c.Hash.String() == fromHash {
			return storer.ErrStop
		}
		records = append(records, domain.CommitRecord{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return records, nil
}

// ResolveRevision resolves a symbolic reference to a commit hash.
func (r *gitRepository) ResolveRevision(_ context.Context, ref string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", ref, err)
	}
	return hash.String(), nil
}

// Tags returns all tags ordered newest first by commit date. Tags whose
// commit cannot be resolved keep an empty hash and sort last.
func (r *gitRepository) Tags(_ context.Context) ([]domain.TagRecord, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	type datedTag struct {
		record domain.TagRecord
		when   time.Time
	}
	var tags []datedTag
	err = tagRefs.ForEach(func(ref *plumbing.Reference) error {
		entry := datedTag{record: domain.TagRecord{Name: ref.Name().Short()}}
		if commit, err := r.resolveTagCommit(ref); err == nil {
			entry.record.Hash = commit.Hash.String()
			entry.when = commit.Committer.When
		}
		tags = append(tags, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].when.After(tags[j].when)
	})
	records := make([]domain.TagRecord, 0, len(tags))
	for _, t := range tags {
		records = append(records, t.record)
	}
	return records, nil
}

// resolveTagCommit resolves a tag reference to its commit, handling both
// lightweight and annotated tags.
func (r *gitRepository) resolveTagCommit(ref *plumbing.Reference) (*object.Commit, error) {
	if commit, err := r.repo.CommitObject(ref.Hash()); err == nil {
		return commit, nil
	}
	tagObj, err := r.repo.TagObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag %s: %w", ref.Name().Short(), err)
	}
	commit, err := r.repo.CommitObject(tagObj.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag target %s: %w", ref.Name().Short(), err)
	}
	return commit, nil
}

// CreateTag tags HEAD. An annotated tag is created when a tagger identity
// is configured, a lightweight one otherwise.
func (r *gitRepository) CreateTag(_ context.Context, name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	if cfg.User.Name == "" {
		ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), head.Hash())
		if err := r.repo.Storer.SetReference(ref); err != nil {
			return fmt.Errorf("failed to create tag %s: %w", name, err)
		}
		return nil
	}
	_, err = r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Message: message,
		Tagger: &object.Signature{
			Name:  cfg.User.Name,
			Email: cfg.User.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// FirstCommit returns the repository's root commit, or empty for an empty
// repository.
func (r *gitRepository) FirstCommit(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err == plumbing.ErrReferenceNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", fmt.Errorf("failed to read log: %w", err)
	}
	var root string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() == 0 {
			root = c.Hash.String()
			return storer.ErrStop
		}
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return "", fmt.Errorf("failed to iterate commits: %w", err)
	}
	return root, nil
}

// HasRemote reports whether any remote is configured.
func (r *gitRepository) HasRemote(_ context.Context) (bool, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return false, fmt.Errorf("failed to list remotes: %w", err)
	}
	return len(remotes) > 0, nil
}

// RemoteURL returns the first URL of the origin remote.
func (r *gitRepository) RemoteURL(_ context.Context) (string, error) {
	remote, err := r.repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", git.DefaultRemoteName)
	}
	return urls[0], nil
}

// Push sends the current branch and any new tags together.
func (r *gitRepository) Push(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		FollowTags: true,
		Auth:       r.getAuth(),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// FileContentAt reads a file's content as of the given reference.
func (r *gitRepository) FileContentAt(ctx context.Context, ref, path string) (string, error) {
	hash, err := r.ResolveRevision(ctx, ref)
	if err != nil {
		return "", err
	}
	commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %q: %w", ref, err)
	}
	file, err := commit.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to get %s at %q: %w", path, ref, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %q: %w", path, ref, err)
	}
	return contents, nil
}

// getAuth returns token authentication for HTTPS remotes when available.
func (r *gitRepository) getAuth() *http.BasicAuth {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITMUSE_GITHUB_TOKEN")
	}
	if token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}
}
