package repository

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFixture struct {
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	git  GitRepository
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Tester"
	cfg.User.Email = "tester@example.com"
	require.NoError(t, repo.SetConfig(cfg))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	g, err := NewGitRepository(dir)
	require.NoError(t, err)
	return &repoFixture{dir: dir, repo: repo, wt: wt, git: g}
}

func (f *repoFixture) writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

// commit stages everything and commits with an explicit timestamp so
// date-based ordering is deterministic.
func (f *repoFixture) commit(t *testing.T, message string, when time.Time) string {
	t.Helper()
	require.NoError(t, f.wt.AddWithOptions(&git.AddOptions{All: true}))
	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: when}
	hash, err := f.wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
	return hash.String()
}

func toHash(t *testing.T, s string) plumbing.Hash {
	t.Helper()
	return plumbing.NewHash(s)
}

func TestGitRepository_Status(t *testing.T) {
	t.Run("Should classify untracked, staged and unstaged files", func(t *testing.T) {
		f := newRepoFixture(t)
		ctx := context.Background()
		f.writeFile(t, "tracked.txt", "v1")
		f.commit(t, "initial", time.Now())

		f.writeFile(t, "tracked.txt", "v2")
		f.writeFile(t, "new.txt", "hello")
		status, err := f.git.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"tracked.txt"}, status.Unstaged)
		assert.Equal(t, []string{"new.txt"}, status.Untracked)
		assert.Empty(t, status.Staged)

		require.NoError(t, f.git.StageAll(ctx))
		status, err = f.git.Status(ctx)
		require.NoError(t, err)
		assert.Contains(t, status.Staged, "tracked.txt")
		assert.Contains(t, status.Staged, "new.txt")
		assert.Empty(t, status.Untracked)
	})
	t.Run("Should report a clean tree after committing", func(t *testing.T) {
		f := newRepoFixture(t)
		ctx := context.Background()
		f.writeFile(t, "a.txt", "content")
		require.NoError(t, f.git.StageAll(ctx))
		hash, err := f.git.Commit(ctx, "feat: add a")
		require.NoError(t, err)
		assert.Len(t, hash, 40)
		status, err := f.git.Status(ctx)
		require.NoError(t, err)
		assert.True(t, status.Clean())
	})
}

func TestGitRepository_Log(t *testing.T) {
	t.Run("Should return commits after the boundary, newest first", func(t *testing.T) {
		f := newRepoFixture(t)
		base := time.Now().Add(-3 * time.Hour)
		f.writeFile(t, "a.txt", "1")
		first := f.commit(t, "first", base)
		f.writeFile(t, "a.txt", "2")
		second := f.commit(t, "second", base.Add(time.Hour))
		f.writeFile(t, "a.txt", "3")
		third := f.commit(t, "third", base.Add(2*time.Hour))

		records, err := f.git.Log(context.Background(), first, "HEAD")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, third, records[0].Hash)
		assert.Equal(t, second, records[1].Hash)
		assert.Equal(t, "third", records[0].Message)
	})
	t.Run("Should walk the full history with an empty boundary", func(t *testing.T) {
		f := newRepoFixture(t)
		f.writeFile(t, "a.txt", "1")
		f.commit(t, "first", time.Now())
		records, err := f.git.Log(context.Background(), "", "HEAD")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestGitRepository_Tags(t *testing.T) {
	t.Run("Should order tags newest first by commit date", func(t *testing.T) {
		f := newRepoFixture(t)
		base := time.Now().Add(-2 * time.Hour)
		f.writeFile(t, "a.txt", "1")
		first := f.commit(t, "first", base)
		_, err := f.repo.CreateTag("v1.0.0", toHash(t, first), nil)
		require.NoError(t, err)
		f.writeFile(t, "a.txt", "2")
		second := f.commit(t, "second", base.Add(time.Hour))
		_, err = f.repo.CreateTag("v1.1.0", toHash(t, second), nil)
		require.NoError(t, err)

		tags, err := f.git.Tags(context.Background())
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "v1.1.0", tags[0].Name)
		assert.Equal(t, second, tags[0].Hash)
		assert.Equal(t, "v1.0.0", tags[1].Name)
	})
	t.Run("Should create an annotated tag when an identity is configured", func(t *testing.T) {
		f := newRepoFixture(t)
		f.writeFile(t, "a.txt", "1")
		f.commit(t, "first", time.Now())
		require.NoError(t, f.git.CreateTag(context.Background(), "v1.0.0", "Release v1.0.0"))
		ref, err := f.repo.Tag("v1.0.0")
		require.NoError(t, err)
		tagObj, err := f.repo.TagObject(ref.Hash())
		require.NoError(t, err)
		assert.Contains(t, tagObj.Message, "Release v1.0.0")
		tags, err := f.git.Tags(context.Background())
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.NotEmpty(t, tags[0].Hash)
	})
}

func TestGitRepository_FirstCommit(t *testing.T) {
	t.Run("Should find the root commit", func(t *testing.T) {
		f := newRepoFixture(t)
		f.writeFile(t, "a.txt", "1")
		root := f.commit(t, "first", time.Now().Add(-time.Hour))
		f.writeFile(t, "a.txt", "2")
		f.commit(t, "second", time.Now())
		first, err := f.git.FirstCommit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, root, first)
	})
	t.Run("Should return empty for a repository without commits", func(t *testing.T) {
		f := newRepoFixture(t)
		first, err := f.git.FirstCommit(context.Background())
		require.NoError(t, err)
		assert.Empty(t, first)
	})
}

func TestGitRepository_Remotes(t *testing.T) {
	t.Run("Should report remotes once configured", func(t *testing.T) {
		f := newRepoFixture(t)
		ctx := context.Background()
		has, err := f.git.HasRemote(ctx)
		require.NoError(t, err)
		assert.False(t, has)
		_, err = f.repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: "origin",
			URLs: []string{"https://github.com/acme/widgets.git"},
		})
		require.NoError(t, err)
		has, err = f.git.HasRemote(ctx)
		require.NoError(t, err)
		assert.True(t, has)
		url, err := f.git.RemoteURL(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/acme/widgets.git", url)
	})
}

func TestGitRepository_FileContentAt(t *testing.T) {
	t.Run("Should read file content at each reference", func(t *testing.T) {
		f := newRepoFixture(t)
		ctx := context.Background()
		f.writeFile(t, "package.json", `{"version":"1.0.0"}`)
		first := f.commit(t, "first", time.Now().Add(-time.Hour))
		f.writeFile(t, "package.json", `{"version":"1.1.0"}`)
		f.commit(t, "second", time.Now())

		content, err := f.git.FileContentAt(ctx, first, "package.json")
		require.NoError(t, err)
		assert.Equal(t, `{"version":"1.0.0"}`, content)
		content, err = f.git.FileContentAt(ctx, "HEAD", "package.json")
		require.NoError(t, err)
		assert.Equal(t, `{"version":"1.1.0"}`, content)
	})
	t.Run("Should fail for a missing file", func(t *testing.T) {
		f := newRepoFixture(t)
		f.writeFile(t, "a.txt", "1")
		f.commit(t, "first", time.Now())
		_, err := f.git.FileContentAt(context.Background(), "HEAD", "missing.json")
		require.Error(t, err)
	})
}

func TestGitRepository_ResolveRevision(t *testing.T) {
	t.Run("Should fail for an unknown reference", func(t *testing.T) {
		f := newRepoFixture(t)
		f.writeFile(t, "a.txt", "1")
		f.commit(t, "first", time.Now())
		_, err := f.git.ResolveRevision(context.Background(), "does-not-exist")
		require.Error(t, err)
	})
}

func TestGitRepository_StagedDiff(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	t.Run("Should show only staged changes", func(t *testing.T) {
		f := newRepoFixture(t)
		ctx := context.Background()
		f.writeFile(t, "a.txt", "one\n")
		f.commit(t, "first", time.Now())
		f.writeFile(t, "a.txt", "two\n")
		require.NoError(t, f.git.StageAll(ctx))
		diff, err := f.git.StagedDiff(ctx)
		require.NoError(t, err)
		assert.Contains(t, diff, "-one")
		assert.Contains(t, diff, "+two")
	})
}
