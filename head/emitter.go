package head

import "headnode/headtypes"

// ApplyEmitter is the post-transition snapshot-emitter hook of §4.7. It is a
// pure second pass the shell runs immediately after Transition returns a
// NewState outcome over an Open head; Transition itself never calls it,
// matching the emitter-separation design note of §9 (it must not conflate
// its own seenSnapshot := Requested mutation with the transition's own
// effects).
func ApplyEmitter(env headtypes.Environment, state HeadState, effects []headtypes.Effect) (HeadState, []headtypes.Effect) {
	o, ok := state.Open()
	if !ok {
		return state, effects
	}

	next := o.Coordinated.ConfirmedSnapshot.Snapshot.Number + 1

	if !o.Parameters.IsLeader(env.Party, next) {
		return state, effects
	}
	if o.Coordinated.SeenSnapshot.Status != headtypes.SeenSnapshotNone {
		return state, effects
	}
	if len(o.Coordinated.SeenTxs) == 0 {
		return state, effects
	}

	nextState := openWithSeenSnapshot(o, headtypes.RequestedSeenSnapshot())
	nextEffects := append(append([]headtypes.Effect{}, effects...), headtypes.NetworkEffect(headtypes.Message{
		Kind:           headtypes.MsgReqSn,
		From:           env.Party,
		SnapshotNumber: next,
		Txs:            o.Coordinated.SeenTxs,
	}))

	return nextState, nextEffects
}
