package domain

import "time"

// ShortHashLength is the number of leading characters used for abbreviated
// commit identifiers.
const ShortHashLength = 7

// CommitRecord describes one commit read from history. Immutable once read.

type CommitRecord struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
}

// ShortHash returns the abbreviated commit identifier.
func (c CommitRecord) ShortHash() string {
	if len(c.Hash) < ShortHashLength {
		return c.Hash
	}
	return c.Hash[:ShortHashLength]
}

// TagRecord pairs a tag name with its resolved commit. Hash may be empty
// when resolution failed; callers must tolerate that.

type TagRecord struct {
	Name string
	Hash string
}
