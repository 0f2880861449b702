package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/gitmuse/gitmuse/internal/domain"
)

const (
	// HistoryFilePermissions applies to the persisted history document.
	HistoryFilePermissions = 0o644
	// HistoryLockTimeout bounds how long an append waits for the lock.
	HistoryLockTimeout = 10 * time.Second
	// HistoryLockRetryInterval is the pause between lock attempts.
	HistoryLockRetryInterval = 100 * time.Millisecond
)

// ChangelogHistoryStore owns the persisted changelog history and is its
// sole writer.
type ChangelogHistoryStore interface {
	Load(ctx context.Context) (*domain.ChangelogHistory, error)
	Append(ctx context.Context, entry domain.ChangelogHistoryEntry) error
	LastReference(ctx context.Context) (string, error)
}

// JSONHistoryStore implements ChangelogHistoryStore over a single JSON
// document, written atomically (temp file + rename) under a file lock.
type JSONHistoryStore struct {
	fs   afero.Fs
	path string
}

// NewJSONHistoryStore creates a store persisting to path.
func NewJSONHistoryStore(fs afero.Fs, path string) *JSONHistoryStore {
	return &JSONHistoryStore{fs: fs, path: path}
}

// Load returns the persisted history. A missing or unparseable file is
// self-healing: it yields an empty history, never an error.
func (s *JSONHistoryStore) Load(_ context.Context) (*domain.ChangelogHistory, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return &domain.ChangelogHistory{}, nil
	}
	var history domain.ChangelogHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return &domain.ChangelogHistory{}, nil
	}
	return &history, nil
}

// Append prepends the entry, truncates to the cap and persists the whole
// document in one atomic operation.
func (s *JSONHistoryStore) Append(ctx context.Context, entry domain.ChangelogHistoryEntry) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	history, err := s.Load(ctx)
	if err != nil {
		return err
	}
	history.Prepend(entry)
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	tempFile := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tempFile, data, HistoryFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp history file: %w", err)
	}
	if err := s.fs.Rename(tempFile, s.path); err != nil {
		if removeErr := s.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename history file: %w", err)
	}
	return nil
}

// LastReference returns the target commit of the newest entry, or empty
// when the history is empty.
func (s *JSONHistoryStore) LastReference(ctx context.Context) (string, error) {
	history, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return history.LastReference(), nil
}

// acquireLock takes an exclusive lock on the history file. Locking only
// applies to the real filesystem; in-memory filesystems are single-process
// by construction.
func (s *JSONHistoryStore) acquireLock(ctx context.Context) (func(), error) {
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return func() {}, nil
	}
	lock := flock.New(s.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, HistoryLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, HistoryLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire history lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire history lock within timeout")
	}
	return func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock history file: %v\n", unlockErr)
		}
	}, nil
}
