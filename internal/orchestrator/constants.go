package orchestrator

import "time"

// ChangelogPath is the changelog document at the repository root. Its
// content is treated as opaque text.
const ChangelogPath = "CHANGELOG.md"

// releaseCommitTemplate formats the synthetic release commit message; the
// argument is the prefix-stripped version.
const releaseCommitTemplate = "chore(release): %s"

// Retry settings for hosting-service calls
const (
	DefaultRetryCount = uint64(3)
	DefaultRetryDelay = 1 * time.Second
)

// FilePermissionsReadWrite is the permission for files the workflows
// create.
const FilePermissionsReadWrite = 0o644
