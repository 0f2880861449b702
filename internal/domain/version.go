package domain

import (
	"regexp"
	"strings"
)

// StripVersionPrefix removes a single leading "v" from a version string.
func StripVersionPrefix(version string) string {
	return strings.TrimPrefix(version, "v")
}

var versionShapePattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[\w.]+)?(\+[\w.]+)?$`)

// ValidVersionShape reports whether the string looks like a semantic
// version after prefix stripping. Used as a soft check only: a failing
// shape produces a warning, never a hard rejection.
func ValidVersionShape(version string) bool {
	return versionShapePattern.MatchString(StripVersionPrefix(version))
}

// VersionChange is the outcome of comparing a manifest's declared version
// across two references. Old and New keep the raw, unstripped strings as
// read from the manifest; empty means the version was absent at that ref.

type VersionChange struct {
	Old string
	New string
}

// Changed reports whether a version bump occurred. True only when the two
// sides differ after prefix stripping and the new side is present: a
// deleted manifest is never a bump.
func (v VersionChange) Changed() bool {
	if v.New == "" {
		return false
	}
	return StripVersionPrefix(v.Old) != StripVersionPrefix(v.New)
}
