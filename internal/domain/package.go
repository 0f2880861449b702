package domain

// Package is the subset of a package manifest consulted for version
// detection. Only the version field matters; everything else is ignored.

type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
