package orchestrator

import (
	"context"
	"fmt"
)

// GateDecision is the outcome of the pure confirmation-gate function:
// whether a gated action runs, is skipped, or requires asking the user.
type GateDecision int

const (
	// GateAsk means the user must confirm before the action runs.
	GateAsk GateDecision = iota
	// GateProceed means the action runs without confirmation.
	GateProceed
	// GateSkip means the action is skipped without asking.
	GateSkip
)

// DecideGate is the confirmation policy for a single gated action: an
// explicit per-step flag or the global yes flag suppresses the prompt.
func DecideGate(auto, yes bool) GateDecision {
	if auto || yes {
		return GateProceed
	}
	return GateAsk
}

// DecidePushGate extends DecideGate with the no-remote case, which skips
// pushing entirely rather than asking.
func DecidePushGate(auto, yes, hasRemote bool) GateDecision {
	if !hasRemote {
		return GateSkip
	}
	return DecideGate(auto, yes)
}

// gateApproved executes the side-effect-free part of a gate: it turns a
// decision into a go/no-go answer, prompting only for GateAsk.
func (o *Orchestrator) gateApproved(ctx context.Context, gate GateDecision, question string, def bool) (bool, error) {
	switch gate {
	case GateProceed:
		return true, nil
	case GateSkip:
		return false, nil
	case GateAsk:
		return o.prompter.Confirm(ctx, question, def)
	default:
		return false, fmt.Errorf("unknown gate decision %d", gate)
	}
}
