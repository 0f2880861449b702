package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/gitmuse/gitmuse/internal/domain"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
	"github.com/gitmuse/gitmuse/internal/usecase"
)

// releaseState names the stations of the release pipeline. Progress is
// strictly sequential; there is no rollback, so a failure at any state
// leaves the effects of earlier states in place.
type releaseState int

const (
	releaseStateIdle releaseState = iota
	releaseStateCommitting
	releaseStateChangelog
	releaseStateTagging
	releaseStatePushing
	releaseStateDone
)

// String implements fmt.Stringer for state-transition logging.
func (s releaseState) String() string {
	switch s {
	case releaseStateIdle:
		return "idle"
	case releaseStateCommitting:
		return "committing"
	case releaseStateChangelog:
		return "changelog"
	case releaseStateTagging:
		return "tagging"
	case releaseStatePushing:
		return "pushing"
	case releaseStateDone:
		return "done"
	default:
		return "unknown"
	}
}

// releaseContext carries the observed outcomes of earlier steps to later
// ones.
type releaseContext struct {
	fromLabel   string
	fromHash    string
	version     string // as given or detected, prefix preserved
	bare        string // prefix-stripped
	tagName     string
	tagged      bool
	pushed      bool
	commitCount int
}

// Release runs the four-step pipeline: commit, changelog, tag, push (plus
// an optional hosting-service release when credentials allow).
func (o *Orchestrator) Release(ctx context.Context, opts domain.ReleaseOptions) error {
	opts.Normalize()
	rctx := &releaseContext{}
	state := releaseStateIdle
	advance := func(next releaseState) {
		state = next
		o.log.Debug("release state", zap.Stringer("state", state))
	}

	advance(releaseStateCommitting)
	if _, err := o.runCommitStep(ctx, domain.CommitOptions{All: opts.Yes, Yes: opts.Yes}); err != nil {
		return err
	}

	advance(releaseStateChangelog)
	if err := o.releaseChangelogStep(ctx, opts, rctx); err != nil {
		return err
	}

	advance(releaseStateTagging)
	if err := o.releaseTagStep(ctx, opts, rctx); err != nil {
		return err
	}

	advance(releaseStatePushing)
	if err := o.releasePushStep(ctx, opts, rctx); err != nil {
		return err
	}
	if err := o.releasePublishStep(ctx, opts, rctx); err != nil {
		return err
	}

	advance(releaseStateDone)
	o.prompter.Success("release %s complete", rctx.bare)
	return nil
}

// releaseChangelogStep determines the range and version, generates and
// writes the changelog, and commits the result. Failing to determine a
// starting reference is the one fatal condition of the pipeline.
func (o *Orchestrator) releaseChangelogStep(ctx context.Context, opts domain.ReleaseOptions, rctx *releaseContext) error {
	if err := o.releaseStartRef(ctx, opts, rctx); err != nil {
		return err
	}
	if err := o.releaseVersion(ctx, opts, rctx); err != nil {
		return err
	}
	commits, err := o.gitRepo.Log(ctx, rctx.fromHash, domain.DefaultToRef)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		o.prompter.Warn("no commits since %s, skipping changelog", rctx.fromLabel)
		return nil
	}
	rctx.commitCount = len(commits)
	entry, err := o.generateEntry(ctx, commits, rctx.bare)
	if err != nil {
		return err
	}
	written, err := o.saveChangelog(ctx, entry, opts.Yes)
	if err != nil {
		return err
	}
	if !written {
		return nil
	}
	o.prompter.Success("wrote %s", ChangelogPath)
	if err := o.gitRepo.StageAll(ctx); err != nil {
		return err
	}
	hash, err := o.gitRepo.Commit(ctx, fmt.Sprintf(releaseCommitTemplate, rctx.bare))
	if err != nil {
		return err
	}
	record := domain.CommitRecord{Hash: hash}
	o.prompter.Success("created release commit %s", record.ShortHash())
	o.recordHistory(ctx, rctx.fromLabel, domain.DefaultToRef, hash, len(commits))
	return nil
}

// releaseStartRef resolves the starting reference with the fixed priority
// explicit option, latest tag, first commit. No candidate aborts the
// whole release: a changelog with no defined range is meaningless.
func (o *Orchestrator) releaseStartRef(ctx context.Context, opts domain.ReleaseOptions, rctx *releaseContext) error {
	resolver := &usecase.RefResolver{GitRepo: o.gitRepo}
	if opts.From != "" {
		hash, err := resolver.ResolveToCommit(ctx, opts.From)
		if err != nil {
			return err
		}
		rctx.fromLabel, rctx.fromHash = opts.From, hash
		return nil
	}
	tag, err := resolver.LatestTag(ctx)
	if err != nil {
		return err
	}
	if tag != nil && tag.Hash != "" {
		rctx.fromLabel, rctx.fromHash = tag.Name, tag.Hash
		return nil
	}
	first, err := resolver.FirstCommit(ctx)
	if err != nil {
		return err
	}
	if first != "" {
		record := domain.CommitRecord{Hash: first}
		rctx.fromLabel, rctx.fromHash = record.ShortHash(), first
		return nil
	}
	return gmerrors.NewUserError("could not determine starting reference",
		"pass --from explicitly, or create a first commit or tag")
}

// releaseVersion determines the version with the fixed priority explicit
// option, manifest detection, interactive entry.
func (o *Orchestrator) releaseVersion(ctx context.Context, opts domain.ReleaseOptions, rctx *releaseContext) error {
	version := opts.Version
	if version == "" {
		detector := &usecase.VersionDetector{GitRepo: o.gitRepo}
		change := detector.DetectChange(ctx, rctx.fromLabel, domain.DefaultToRef, "")
		if change.Changed() {
			version = change.New
			o.prompter.Info("detected version %s (was %s)", change.New, valueOr(change.Old, "unset"))
		}
	}
	if version == "" {
		entered, err := o.promptVersion(ctx)
		if err != nil {
			return err
		}
		version = entered
	}
	rctx.version = version
	rctx.bare = domain.StripVersionPrefix(version)
	o.warnIfNotNewer(ctx, rctx.bare)
	return nil
}

// promptVersion asks for a manual version with a soft shape check the
// user may override.
func (o *Orchestrator) promptVersion(ctx context.Context) (string, error) {
	for {
		entered, err := o.prompter.Input(ctx, "version for this release:")
		if err != nil {
			return "", err
		}
		entered = strings.TrimSpace(entered)
		if entered == "" {
			o.prompter.Warn("a release needs a version")
			continue
		}
		if domain.ValidVersionShape(entered) {
			return entered, nil
		}
		o.prompter.Warn("%q does not look like a semantic version (x.y.z)", entered)
		keep, err := o.prompter.Confirm(ctx, "use it anyway?", false)
		if err != nil {
			return "", err
		}
		if keep {
			return entered, nil
		}
	}
}

// warnIfNotNewer compares the chosen version against the latest tag when
// both parse as semver. Informational only.
func (o *Orchestrator) warnIfNotNewer(ctx context.Context, bare string) {
	resolver := &usecase.RefResolver{GitRepo: o.gitRepo}
	tag, err := resolver.LatestTag(ctx)
	if err != nil || tag == nil {
		return
	}
	latest, err := semver.NewVersion(domain.StripVersionPrefix(tag.Name))
	if err != nil {
		return
	}
	next, err := semver.NewVersion(bare)
	if err != nil {
		return
	}
	if !next.GreaterThan(latest) {
		o.prompter.Warn("version %s is not newer than latest tag %s", bare, tag.Name)
	}
}

// releaseTagStep computes the tag name from the detected prefix and
// creates the tag behind its confirmation gate.
func (o *Orchestrator) releaseTagStep(ctx context.Context, opts domain.ReleaseOptions, rctx *releaseContext) error {
	resolver := &usecase.RefResolver{GitRepo: o.gitRepo}
	prefix, err := resolver.DetectTagPrefix(ctx)
	if err != nil {
		return err
	}
	rctx.tagName = prefix + rctx.bare
	approved, err := o.gateApproved(ctx, DecideGate(opts.Tag, opts.Yes),
		fmt.Sprintf("create tag %s?", rctx.tagName), true)
	if err != nil {
		return err
	}
	if !approved {
		o.prompter.Info("tag skipped")
		return nil
	}
	if err := o.gitRepo.CreateTag(ctx, rctx.tagName, "Release "+rctx.tagName); err != nil {
		return err
	}
	rctx.tagged = true
	o.prompter.Success("created tag %s", rctx.tagName)
	return nil
}

// releasePushStep pushes commits and tags together, or skips with a
// warning when no remote is configured.
func (o *Orchestrator) releasePushStep(ctx context.Context, opts domain.ReleaseOptions, rctx *releaseContext) error {
	hasRemote, err := o.gitRepo.HasRemote(ctx)
	if err != nil {
		return err
	}
	gate := DecidePushGate(opts.Push, opts.Yes, hasRemote)
	if gate == GateSkip {
		o.prompter.Warn("no remote configured, skipping push")
		return nil
	}
	approved, err := o.gateApproved(ctx, gate, "push commits and tags to the remote?", true)
	if err != nil {
		return err
	}
	if !approved {
		o.prompter.Info("push skipped")
		return nil
	}
	if err := o.gitRepo.Push(ctx); err != nil {
		return err
	}
	rctx.pushed = true
	o.prompter.Success("pushed commits and tags")
	return nil
}

// releasePublishStep optionally publishes a hosting-service release for
// the new tag. Never fatal: failures downgrade to warnings.
func (o *Orchestrator) releasePublishStep(ctx context.Context, opts domain.ReleaseOptions, rctx *releaseContext) error {
	if o.publisher == nil || !rctx.tagged || !rctx.pushed {
		return nil
	}
	approved, err := o.gateApproved(ctx, DecideGate(opts.Push, opts.Yes),
		fmt.Sprintf("publish a GitHub release for %s?", rctx.tagName), true)
	if err != nil {
		return err
	}
	if !approved {
		return nil
	}
	body := ""
	if data, readErr := o.readChangelog(); readErr == nil {
		body = data
	}
	var url string
	err = retry.Do(
		ctx,
		retry.WithMaxRetries(o.retryCount, retry.NewExponential(o.retryDelay)),
		func(ctx context.Context) error {
			var publishErr error
			url, publishErr = o.publisher.PublishRelease(ctx, rctx.tagName, "Release "+rctx.tagName, body)
			if publishErr != nil {
				return retry.RetryableError(publishErr)
			}
			return nil
		},
	)
	if err != nil {
		o.prompter.Warn("failed to publish GitHub release: %v", err)
		return nil
	}
	o.prompter.Success("published GitHub release %s", url)
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
