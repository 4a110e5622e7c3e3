// Package head implements the pure Head-protocol transition core: the
// four-phase state machine, the coordinated snapshot sub-protocol, the
// rollback resolver, and the post-transition snapshot emitter (spec.md
// §§2-4, §8-9). Nothing in this package performs I/O, blocks, reads the
// clock, or generates randomness; every external capability (ledger,
// signing, chain state) is passed in by the caller.
package head

import "headnode/headtypes"

// Outcome is the result of applying Transition to one (HeadState, Event)
// pair (§4.1).
type Outcome struct {
	Kind headtypes.OutcomeKind

	State   HeadState
	Effects []headtypes.Effect

	Wait headtypes.WaitReason
	Err  *headtypes.LogicError
}

func onlyEffects(effects ...headtypes.Effect) Outcome {
	return Outcome{Kind: headtypes.OutcomeOnlyEffects, Effects: effects}
}

func newState(state HeadState, effects ...headtypes.Effect) Outcome {
	return Outcome{Kind: headtypes.OutcomeNewState, State: state, Effects: effects}
}

func waitFor(reason headtypes.WaitReason) Outcome {
	return Outcome{Kind: headtypes.OutcomeWait, Wait: reason}
}

func errorOutcome(err *headtypes.LogicError) Outcome {
	return Outcome{Kind: headtypes.OutcomeError, Err: err}
}

// noop is the "benign ignore" default of §7.
func noop() Outcome {
	return Outcome{Kind: headtypes.OutcomeOnlyEffects}
}
