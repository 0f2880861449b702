package domain

import "time"

// MaxHistoryEntries caps the persisted changelog history. Inserting beyond
// the cap silently drops the oldest entries.
const MaxHistoryEntries = 50

// ChangelogHistoryEntry is an audit record of one changelog generation.
// Immutable once created.

type ChangelogHistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ToCommit    string    `json:"to_commit"`
	CommitCount int       `json:"commit_count"`
}

// ChangelogHistory is the ordered record of past changelog generations,
// newest first.

type ChangelogHistory struct {
	Entries []ChangelogHistoryEntry `json:"entries"`
}

// Prepend inserts an entry at the front and truncates to the cap.
func (h *ChangelogHistory) Prepend(entry ChangelogHistoryEntry) {
	h.Entries = append([]ChangelogHistoryEntry{entry}, h.Entries...)
	if len(h.Entries) > MaxHistoryEntries {
		h.Entries = h.Entries[:MaxHistoryEntries]
	}
}

// LastReference returns the target commit of the newest entry, or empty
// when the history is empty.
func (h *ChangelogHistory) LastReference() string {
	if len(h.Entries) == 0 {
		return ""
	}
	return h.Entries[0].ToCommit
}
