package domain

// DefaultToRef is the ending reference used when none is given.
const DefaultToRef = "HEAD"

// CommitOptions configures the commit workflow.

type CommitOptions struct {
	Message string // use this message instead of generating one
	All     bool   // stage everything without asking
	Yes     bool   // suppress every confirmation
}

// ChangelogOptions configures standalone changelog generation.

type ChangelogOptions struct {
	From string
	To   string
}

// ReleaseOptions configures the release pipeline. Yes implies Tag and
// Push and suppresses every confirmation along the way.

type ReleaseOptions struct {
	From    string
	Version string
	Tag     bool
	Push    bool
	Yes     bool
}

// Normalize applies flag implications and defaults.
func (o *ChangelogOptions) Normalize() {
	if o.To == "" {
		o.To = DefaultToRef
	}
}

// Normalize applies flag implications.
func (o *ReleaseOptions) Normalize() {
	if o.Yes {
		o.Tag = true
		o.Push = true
	}
}
