package repository

import "github.com/spf13/afero"

// FileSystemRepository abstracts the working-directory filesystem so the
// changelog and config writers can run against an in-memory tree in
// tests.
type FileSystemRepository interface {
	afero.Fs
}
