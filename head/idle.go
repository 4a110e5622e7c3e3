package head

import "headnode/headtypes"

// handleIdleClientInit implements §4.2 Client Init: emit
// OnChainEffect(InitTx(parameters)) where parameters combines
// party:otherParties and contestationPeriod. The head does not transition
// here -- it waits to observe the resulting InitTx on-chain.
func handleIdleClientInit(env headtypes.Environment, s IdleState) Outcome {
	params := env.Parameters()
	return onlyEffects(headtypes.OnChainEffect(s.ChainState, headtypes.PostedTx{
		Kind:           headtypes.PostedInitTx,
		InitParameters: params,
	}))
}

// handleIdleOnInitTx implements §4.2 Observation OnInitTx: transition to
// InitialState with pendingCommits = set(parties), empty committed,
// predecessor = prior Idle state.
func handleIdleOnInitTx(prev HeadState, idle IdleState, obs headtypes.ObservedTx, newChainState headtypes.ChainStateInfo) Outcome {
	pending := make(map[headtypes.PartyKey]headtypes.Party, len(obs.Parties))
	for _, p := range obs.Parties {
		pending[p.Key()] = p
	}

	next := NewInitial(InitialState{
		Parameters: headtypes.HeadParameters{
			ContestationPeriod: obs.ContestationPeriod,
			Parties:            obs.Parties,
		},
		PendingCommits: pending,
		Committed:      make(map[headtypes.PartyKey]headtypes.UTxO),
		Predecessor:    prev,
		ChainState:     newChainState,
	})

	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{
		Kind:    headtypes.OutputReadyToCommit,
		Parties: obs.Parties,
	}))
}
