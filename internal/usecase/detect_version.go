package usecase

import (
	"context"
	"encoding/json"

	"github.com/gitmuse/gitmuse/internal/domain"
	"github.com/gitmuse/gitmuse/internal/repository"
)

// DefaultManifestPath is the package-metadata file consulted for a
// declared version string.
const DefaultManifestPath = "package.json"

// VersionDetector compares a manifest's declared version across two
// references. Detection is best-effort: it must never abort the
// surrounding workflow.

type VersionDetector struct {
	GitRepo repository.GitRepository
}

// DetectChange reads the manifest at each reference independently. A
// missing file or a parse failure at either ref means that side's version
// is absent, never an error.
func (d *VersionDetector) DetectChange(ctx context.Context, fromRef, toRef, manifestPath string) domain.VersionChange {
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	return domain.VersionChange{
		Old: d.versionAt(ctx, fromRef, manifestPath),
		New: d.versionAt(ctx, toRef, manifestPath),
	}
}

// versionAt extracts the version field at one reference, empty on any
// failure.
func (d *VersionDetector) versionAt(ctx context.Context, ref, manifestPath string) string {
	content, err := d.GitRepo.FileContentAt(ctx, ref, manifestPath)
	if err != nil {
		return ""
	}
	var pkg domain.Package
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return ""
	}
	return pkg.Version
}
