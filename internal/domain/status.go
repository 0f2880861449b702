package domain

// RepositoryStatus is a snapshot of the working tree. It is recomputed on
// demand and never mutated in place.

type RepositoryStatus struct {
	Staged    []string
	Unstaged  []string
	Untracked []string
}

// Clean reports whether the working tree has no pending changes of any kind.
func (s *RepositoryStatus) Clean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// HasStaged reports whether anything is staged for commit.
func (s *RepositoryStatus) HasStaged() bool {
	return len(s.Staged) > 0
}

// HasUnstaged reports whether there are unstaged or untracked changes.
func (s *RepositoryStatus) HasUnstaged() bool {
	return len(s.Unstaged) > 0 || len(s.Untracked) > 0
}
