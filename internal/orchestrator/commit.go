package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gitmuse/gitmuse/internal/domain"
	"github.com/gitmuse/gitmuse/internal/service"
)

// commitOutcome is the observed result of the commit step, consumed by
// the release pipeline to decide how to proceed.
type commitOutcome int

const (
	commitOutcomeCommitted commitOutcome = iota
	commitOutcomeSkipped                 // working tree was clean
	commitOutcomeDeclined                // user declined staging or the message
)

// reviewState and reviewAction form the explicit finite-state machine of
// the commit-message review menu.
type reviewState int

const (
	reviewStateGenerating reviewState = iota
	reviewStateReviewing
	reviewStateEditing
	reviewStateAccepted
	reviewStateCanceled
)

type reviewAction int

const (
	reviewActionCommit reviewAction = iota
	reviewActionEdit
	reviewActionRegenerate
	reviewActionCancel
)

// commitReviewTransitions is the full transition table for the review
// menu. Accepted and Canceled are terminal.
var commitReviewTransitions = map[reviewState]map[reviewAction]reviewState{
	reviewStateReviewing: {
		reviewActionCommit:     reviewStateAccepted,
		reviewActionEdit:       reviewStateEditing,
		reviewActionRegenerate: reviewStateGenerating,
		reviewActionCancel:     reviewStateCanceled,
	},
}

var commitReviewMenu = []string{
	"commit this message",
	"edit message",
	"regenerate",
	"cancel",
}

// Commit runs the standalone commit workflow. Declined confirmations end
// the command normally, not as failures.
func (o *Orchestrator) Commit(ctx context.Context, opts domain.CommitOptions) error {
	if opts.Yes {
		opts.All = true
	}
	_, err := o.runCommitStep(ctx, opts)
	return err
}

// runCommitStep stages and commits pending changes with a generated
// message. Shared between the commit command and release step 1.
func (o *Orchestrator) runCommitStep(ctx context.Context, opts domain.CommitOptions) (commitOutcome, error) {
	status, err := o.gitRepo.Status(ctx)
	if err != nil {
		return commitOutcomeSkipped, err
	}
	if status.Clean() {
		o.prompter.Info("working tree is clean, nothing to commit")
		return commitOutcomeSkipped, nil
	}
	outcome, err := o.stagePendingChanges(ctx, status, opts)
	if err != nil || outcome == commitOutcomeDeclined {
		return outcome, err
	}
	diff, err := o.gitRepo.StagedDiff(ctx)
	if err != nil {
		return commitOutcomeSkipped, err
	}
	if strings.TrimSpace(diff) == "" {
		o.prompter.Warn("staged diff is empty, commit skipped")
		return commitOutcomeDeclined, nil
	}
	message := opts.Message
	if message == "" {
		var state reviewState
		message, state, err = o.reviewCommitMessage(ctx, diff, opts.Yes)
		if err != nil {
			return commitOutcomeSkipped, err
		}
		if state == reviewStateCanceled {
			o.prompter.Info("commit canceled, nothing committed")
			return commitOutcomeDeclined, nil
		}
	}
	hash, err := o.gitRepo.Commit(ctx, message)
	if err != nil {
		return commitOutcomeSkipped, err
	}
	record := domain.CommitRecord{Hash: hash}
	o.log.Debug("created commit", zap.String("hash", hash))
	o.prompter.Success("created commit %s", record.ShortHash())
	return commitOutcomeCommitted, nil
}

// stagePendingChanges applies the staging policy: offer to stage
// everything when nothing is staged, offer to stage the remainder when
// the index is partial.
func (o *Orchestrator) stagePendingChanges(ctx context.Context, status *domain.RepositoryStatus, opts domain.CommitOptions) (commitOutcome, error) {
	if !status.HasStaged() {
		pending := len(status.Unstaged) + len(status.Untracked)
		stage := opts.All
		if !stage {
			var err error
			question := fmt.Sprintf("nothing is staged; stage all %d changed files?", pending)
			stage, err = o.prompter.Confirm(ctx, question, true)
			if err != nil {
				return commitOutcomeSkipped, err
			}
		}
		if !stage {
			o.prompter.Warn("nothing staged, commit skipped")
			return commitOutcomeDeclined, nil
		}
		return commitOutcomeCommitted, o.gitRepo.StageAll(ctx)
	}
	if status.HasUnstaged() {
		stage := opts.All
		if !stage {
			var err error
			stage, err = o.prompter.Confirm(ctx, "there are unstaged changes; stage them too?", true)
			if err != nil {
				return commitOutcomeSkipped, err
			}
		}
		// Declining keeps the commit limited to what is already staged.
		if stage {
			if err := o.gitRepo.StageAll(ctx); err != nil {
				return commitOutcomeSkipped, err
			}
		}
	}
	return commitOutcomeCommitted, nil
}

// reviewCommitMessage drives the generate/review/edit loop and returns
// the accepted message together with the terminal state.
func (o *Orchestrator) reviewCommitMessage(ctx context.Context, diff string, yes bool) (string, reviewState, error) {
	var message string
	state := reviewStateGenerating
	for {
		switch state {
		case reviewStateGenerating:
			generated, err := o.generateCommitMessage(ctx, diff)
			if err != nil {
				return "", state, err
			}
			message = generated
			if yes {
				state = reviewStateAccepted
				continue
			}
			state = reviewStateReviewing
		case reviewStateReviewing:
			o.prompter.Print("\n" + message + "\n")
			choice, err := o.prompter.Select(ctx, "proposed commit message above", commitReviewMenu)
			if err != nil {
				return "", state, err
			}
			state = commitReviewTransitions[reviewStateReviewing][reviewAction(choice)]
		case reviewStateEditing:
			edited, err := o.prompter.Input(ctx, "new commit message:")
			if err != nil {
				return "", state, err
			}
			if strings.TrimSpace(edited) != "" {
				message = edited
			}
			state = reviewStateReviewing
		case reviewStateAccepted, reviewStateCanceled:
			return message, state, nil
		}
	}
}

// generateCommitMessage asks the backend to summarize the staged diff.
func (o *Orchestrator) generateCommitMessage(ctx context.Context, diff string) (string, error) {
	systemPrompt, err := o.cfgManager.CommitPrompt()
	if err != nil {
		return "", err
	}
	stop := o.prompter.Busy("generating commit message")
	message, err := o.generateSvc.Generate(ctx, service.PurposeCommit, systemPrompt, diff)
	stop()
	if err != nil {
		return "", err
	}
	return message, nil
}
