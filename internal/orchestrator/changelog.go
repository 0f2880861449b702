package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/gitmuse/gitmuse/internal/domain"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
	"github.com/gitmuse/gitmuse/internal/service"
	"github.com/gitmuse/gitmuse/internal/usecase"
)

var changelogReviewMenu = []string{
	"save to CHANGELOG.md",
	"copy to clipboard",
	"done (discard)",
}

var mergeDecisionMenu = []string{
	"merge into existing changelog",
	"overwrite existing changelog",
	"abandon (keep existing as is)",
}

// Changelog runs the standalone changelog workflow: pick a range,
// generate an entry, then loop a save/copy/done menu.
func (o *Orchestrator) Changelog(ctx context.Context, opts domain.ChangelogOptions) error {
	opts.Normalize()
	fromLabel, fromHash, err := o.pickStartRef(ctx, opts.From)
	if err != nil {
		return err
	}
	toCommit, err := o.resolveRef(ctx, opts.To)
	if err != nil {
		return err
	}
	commits, err := o.gitRepo.Log(ctx, fromHash, opts.To)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		o.prompter.Warn("no commits between %s and %s, nothing to do", fromLabel, opts.To)
		return nil
	}
	entry, err := o.generateEntry(ctx, commits, "")
	if err != nil {
		return err
	}
	for {
		o.prompter.Print("\n" + entry + "\n")
		choice, err := o.prompter.Select(ctx, "generated changelog entry above", changelogReviewMenu)
		if err != nil {
			return err
		}
		switch choice {
		case 0: // save
			written, err := o.saveChangelog(ctx, entry, false)
			if err != nil {
				return err
			}
			if written {
				o.prompter.Success("wrote %s", ChangelogPath)
				o.recordHistory(ctx, fromLabel, opts.To, toCommit, len(commits))
			}
			return nil
		case 1: // copy
			if err := clipboard.WriteAll(entry); err != nil {
				o.prompter.Warn("failed to copy to clipboard: %v", err)
			} else {
				o.prompter.Success("copied to clipboard")
			}
		case 2: // done
			o.prompter.Info("nothing saved")
			return nil
		}
	}
}

// pickStartRef resolves the starting reference for a standalone changelog
// run. An explicit ref wins; otherwise the user picks between the last
// changelog anchor, the latest tag and the first commit.
func (o *Orchestrator) pickStartRef(ctx context.Context, explicit string) (label, hash string, err error) {
	if explicit != "" {
		hash, err = o.resolveRef(ctx, explicit)
		return explicit, hash, err
	}
	resolver := &usecase.RefResolver{GitRepo: o.gitRepo}
	type candidate struct {
		display string
		label   string
		hash    string
	}
	var candidates []candidate
	if last, err := o.historyStore.LastReference(ctx); err == nil && last != "" {
		record := domain.CommitRecord{Hash: last}
		candidates = append(candidates, candidate{
			display: fmt.Sprintf("since last changelog (%s)", record.ShortHash()),
			label:   last,
			hash:    last,
		})
	}
	tag, err := resolver.LatestTag(ctx)
	if err != nil {
		return "", "", err
	}
	if tag != nil && tag.Hash != "" {
		candidates = append(candidates, candidate{
			display: fmt.Sprintf("since latest tag (%s)", tag.Name),
			label:   tag.Name,
			hash:    tag.Hash,
		})
	}
	first, err := resolver.FirstCommit(ctx)
	if err != nil {
		return "", "", err
	}
	if first != "" {
		record := domain.CommitRecord{Hash: first}
		candidates = append(candidates, candidate{
			display: fmt.Sprintf("since first commit (%s)", record.ShortHash()),
			label:   first,
			hash:    first,
		})
	}
	if len(candidates) == 0 {
		return "", "", gmerrors.NewUserError("could not determine starting reference",
			"the repository appears to be empty; pass --from explicitly once it has commits")
	}
	if len(candidates) == 1 {
		return candidates[0].label, candidates[0].hash, nil
	}
	options := make([]string, len(candidates))
	for i, c := range candidates {
		options[i] = c.display
	}
	choice, err := o.prompter.Select(ctx, "generate changelog from where?", options)
	if err != nil {
		return "", "", err
	}
	return candidates[choice].label, candidates[choice].hash, nil
}

// resolveRef resolves a reference, converting failures into user-facing
// errors.
func (o *Orchestrator) resolveRef(ctx context.Context, ref string) (string, error) {
	resolver := &usecase.RefResolver{GitRepo: o.gitRepo}
	return resolver.ResolveToCommit(ctx, ref)
}

// generateEntry asks the backend to summarize a commit range. version is
// empty for unreleased content.
func (o *Orchestrator) generateEntry(ctx context.Context, commits []domain.CommitRecord, version string) (string, error) {
	systemPrompt, err := o.cfgManager.ChangelogPrompt()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if version != "" {
		fmt.Fprintf(&b, "Version: %s\nDate: %s\n\n", version, time.Now().Format("2006-01-02"))
	} else {
		b.WriteString("Version: unreleased\n\n")
	}
	b.WriteString("Commits, newest first:\n")
	for _, c := range commits {
		fmt.Fprintf(&b, "%s %s\n", c.ShortHash(), strings.SplitN(c.Message, "\n", 2)[0])
	}
	stop := o.prompter.Busy("generating changelog entry")
	entry, err := o.generateSvc.Generate(ctx, service.PurposeChangelog, systemPrompt, b.String())
	stop()
	if err != nil {
		return "", err
	}
	return entry, nil
}

// saveChangelog reconciles the entry with any existing document and
// writes the result. yes skips the merge-decision menu, defaulting to
// merge. Returns whether anything was written.
func (o *Orchestrator) saveChangelog(ctx context.Context, entry string, yes bool) (bool, error) {
	existing := ""
	if data, err := afero.ReadFile(o.fsRepo, ChangelogPath); err == nil {
		existing = string(data)
	}
	decision := usecase.MergeDecisionMerge
	if existing != "" && !yes {
		choice, err := o.prompter.Select(ctx, ChangelogPath+" already exists", mergeDecisionMenu)
		if err != nil {
			return false, err
		}
		decision = usecase.MergeDecision(choice)
	}
	merger := &usecase.ChangelogMerger{GenerateSvc: o.generateSvc}
	var stop func()
	if existing != "" && decision == usecase.MergeDecisionMerge {
		stop = o.prompter.Busy("merging changelog")
	}
	doc, write, err := merger.Apply(ctx, decision, existing, entry)
	if stop != nil {
		stop()
	}
	if err != nil {
		return false, err
	}
	if !write {
		o.prompter.Info("changelog left untouched, nothing saved")
		return false, nil
	}
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	if err := afero.WriteFile(o.fsRepo, ChangelogPath, []byte(doc), FilePermissionsReadWrite); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", ChangelogPath, err)
	}
	return true, nil
}

// readChangelog returns the current changelog document.
func (o *Orchestrator) readChangelog() (string, error) {
	data, err := afero.ReadFile(o.fsRepo, ChangelogPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// recordHistory appends an audit entry. History failures are warnings,
// never workflow failures.
func (o *Orchestrator) recordHistory(ctx context.Context, from, to, toCommit string, count int) {
	entry := domain.ChangelogHistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		From:        from,
		To:          to,
		ToCommit:    toCommit,
		CommitCount: count,
	}
	if err := o.historyStore.Append(ctx, entry); err != nil {
		o.log.Warn("failed to record changelog history", zap.Error(err))
		o.prompter.Warn("failed to record changelog history: %v", err)
	}
}
