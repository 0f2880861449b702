package usecase

import (
	"context"
	"fmt"

	"github.com/gitmuse/gitmuse/internal/service"
)

// MergeDecision selects how a newly generated entry is combined with an
// existing changelog document.
type MergeDecision int

const (
	// MergeDecisionMerge reconciles the new entry into the existing
	// document via the generation backend.
	MergeDecisionMerge MergeDecision = iota
	// MergeDecisionOverwrite discards the existing document.
	MergeDecisionOverwrite
	// MergeDecisionAbandon writes nothing.
	MergeDecisionAbandon
)

// mergeSystemPrompt is the fixed instruction set for reconciling a new
// entry into an existing changelog. The document's internal structure is
// interpreted only here, never parsed locally.
const mergeSystemPrompt = `You are maintaining a CHANGELOG.md file. You will receive the existing
changelog and a new entry. Merge them under these rules:
- Preserve the existing document's structure, header and introduction.
- Insert the new entry in reverse-chronological position, immediately
  after the header.
- Never duplicate an entry that is already present.
- If the new entry is for unreleased changes and the document already has
  an Unreleased section, replace that section instead of adding a second
  one.
- Output the complete merged document and nothing else, no code fences.`

// ChangelogMerger applies a MergeDecision to a document/entry pair.

type ChangelogMerger struct {
	GenerateSvc service.GenerateService
}

// Apply returns the document to write, or ("", false) when nothing should
// be written. An empty existing document short-circuits to the new entry
// verbatim regardless of decision.
func (m *ChangelogMerger) Apply(ctx context.Context, decision MergeDecision, existing, entry string) (string, bool, error) {
	if existing == "" {
		return entry, true, nil
	}
	switch decision {
	case MergeDecisionOverwrite:
		return entry, true, nil
	case MergeDecisionAbandon:
		return "", false, nil
	case MergeDecisionMerge:
		merged, err := m.merge(ctx, existing, entry)
		if err != nil {
			return "", false, err
		}
		return merged, true, nil
	default:
		return "", false, fmt.Errorf("unknown merge decision %d", decision)
	}
}

// merge delegates the reconciliation to the generation backend.
func (m *ChangelogMerger) merge(ctx context.Context, existing, entry string) (string, error) {
	userPrompt := fmt.Sprintf(
		"Existing changelog:\n\n%s\n\nNew entry to merge:\n\n%s", existing, entry)
	merged, err := m.GenerateSvc.Generate(ctx, service.PurposeChangelog, mergeSystemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to merge changelog: %w", err)
	}
	return merged, nil
}
