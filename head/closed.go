package head

import (
	"time"

	"headnode/headtypes"
)

// handleOpenClientClose implements §4.6 Client Close.
func handleOpenClientClose(o OpenState) Outcome {
	return onlyEffects(headtypes.OnChainEffect(o.ChainState, headtypes.PostedTx{
		Kind:              headtypes.PostedCloseTx,
		ConfirmedSnapshot: o.Coordinated.ConfirmedSnapshot,
	}))
}

// handleOpenOnCloseTx implements §4.6 Observation OnCloseTx, transitioning
// from Open to Closed. The contest-on-stale-close effect is posted against
// the *previous* chain state, per §9's explicit policy: the close
// transaction itself consumes the post-close state, so only the pre-close
// state remains spendable for a Contest.
func handleOpenOnCloseTx(o OpenState, obs headtypes.ObservedTx, newChainState headtypes.ChainStateInfo) Outcome {
	next := NewClosed(ClosedState{
		Parameters:           o.Parameters,
		ConfirmedSnapshot:    o.Coordinated.ConfirmedSnapshot,
		ContestationDeadline: obs.ContestationDeadline,
		ReadyToFanoutSent:    false,
		Predecessor:          HeadState{open: &o},
		ChainState:           newChainState,
	})

	effects := []headtypes.Effect{headtypes.ClientEffect(headtypes.ServerOutput{
		Kind:                 headtypes.OutputHeadIsClosed,
		SnapshotNumber:       obs.ClosedSnapshotNumber,
		ContestationDeadline: obs.ContestationDeadline,
	})}

	if o.Coordinated.ConfirmedSnapshot.Snapshot.Number > obs.ClosedSnapshotNumber {
		effects = append(effects, headtypes.OnChainEffect(o.ChainState, headtypes.PostedTx{
			Kind:              headtypes.PostedContestTx,
			ConfirmedSnapshot: o.Coordinated.ConfirmedSnapshot,
		}))
	}

	return newState(next, effects...)
}

// handleClosedClientContest implements the client-initiated counterpart to
// §4.6's automatic contest-on-stale-close: a party may also actively post a
// ContestTx with its own confirmed snapshot (Contest is among the client
// inputs of §6.1, while §4.6 only specifies the automatic path).
func handleClosedClientContest(c ClosedState) Outcome {
	return onlyEffects(headtypes.OnChainEffect(c.ChainState, headtypes.PostedTx{
		Kind:              headtypes.PostedContestTx,
		ConfirmedSnapshot: c.ConfirmedSnapshot,
	}))
}

// handleClosedOnContestTx implements §4.6 Observation OnContestTx.
func handleClosedOnContestTx(c ClosedState, newChainState headtypes.ChainStateInfo, obs headtypes.ObservedTx) Outcome {
	next := NewClosed(ClosedState{
		Parameters:           c.Parameters,
		ConfirmedSnapshot:    c.ConfirmedSnapshot,
		ContestationDeadline: c.ContestationDeadline,
		ReadyToFanoutSent:    c.ReadyToFanoutSent,
		Predecessor:          HeadState{closed: &c},
		ChainState:           newChainState,
	})

	if c.ConfirmedSnapshot.Snapshot.Number > obs.ContestedSnapshotNumber {
		return newState(next,
			headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputHeadIsContested, SnapshotNumber: obs.ContestedSnapshotNumber}),
			headtypes.OnChainEffect(c.ChainState, headtypes.PostedTx{
				Kind:              headtypes.PostedContestTx,
				ConfirmedSnapshot: c.ConfirmedSnapshot,
			}),
		)
	}

	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputHeadIsContested, SnapshotNumber: obs.ContestedSnapshotNumber}))
}

// handleClosedTick implements §4.6 Tick{time}: once past the contestation
// deadline, announce ReadyToFanout exactly once.
func handleClosedTick(c ClosedState, now time.Time) Outcome {
	if c.ReadyToFanoutSent || !now.After(c.ContestationDeadline) {
		return noop()
	}

	next := NewClosed(ClosedState{
		Parameters:           c.Parameters,
		ConfirmedSnapshot:    c.ConfirmedSnapshot,
		ContestationDeadline: c.ContestationDeadline,
		ReadyToFanoutSent:    true,
		Predecessor:          c.Predecessor,
		ChainState:           c.ChainState,
	})

	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputReadyToFanout}))
}

// handleClosedClientFanout implements §4.6 Client Fanout.
func handleClosedClientFanout(c ClosedState) Outcome {
	return onlyEffects(headtypes.OnChainEffect(c.ChainState, headtypes.PostedTx{
		Kind:                 headtypes.PostedFanoutTx,
		UTxO:                 c.ConfirmedSnapshot.Snapshot.UTxO,
		ContestationDeadline: c.ContestationDeadline,
	}))
}

// handleClosedOnFanoutTx implements §4.6 Observation OnFanoutTx: back to
// Idle.
func handleClosedOnFanoutTx(c ClosedState, newChainState headtypes.ChainStateInfo) Outcome {
	next := NewIdle(newChainState)
	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{
		Kind: headtypes.OutputHeadIsFinalized,
		UTxO: c.ConfirmedSnapshot.Snapshot.UTxO,
	}))
}
