package head

import "headnode/headtypes"

// handleRollback implements §4.8: walk the predecessor chain from the
// current state, returning the deepest state whose chain-state's slot is
// <= slot. Idle is the base case, and the walk always terminates there
// because predecessor chains are finite and strictly decreasing in
// chain-slot (§9).
func handleRollback(current HeadState, slot headtypes.Slot) Outcome {
	resolved := resolveRollback(current, slot)
	if resolved.Phase() == current.Phase() && sameChainState(resolved, current) {
		// Identity case: already at or before the target slot.
		return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputRolledBack}))
	}
	return newState(resolved, headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputRolledBack}))
}

func resolveRollback(s HeadState, slot headtypes.Slot) HeadState {
	for {
		cs := s.ChainState()
		if cs == nil || cs.ChainSlot() <= slot {
			return s
		}
		if s.Phase() == PhaseIdle {
			return s
		}
		s = s.Predecessor()
	}
}

func sameChainState(a, b HeadState) bool {
	ca, cb := a.ChainState(), b.ChainState()
	if ca == nil || cb == nil {
		return ca == cb
	}
	return ca.ChainSlot() == cb.ChainSlot()
}
