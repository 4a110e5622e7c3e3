package head

import "headnode/headtypes"

// handleInitialClientCommit implements §4.3 Client Commit{utxo}.
func handleInitialClientCommit(env headtypes.Environment, in InitialState, utxo headtypes.UTxO) Outcome {
	if _, pending := in.PendingCommits[env.Party.Key()]; !pending {
		return onlyEffects(commandFailed(headtypes.ClientInput{Kind: headtypes.InputCommit, CommitUTxO: utxo}))
	}
	return onlyEffects(headtypes.OnChainEffect(in.ChainState, headtypes.PostedTx{
		Kind:        headtypes.PostedCommitTx,
		CommitParty: env.Party,
		CommitUTxO:  utxo,
	}))
}

// handleInitialClientGetUTxO implements §4.3 Client GetUTxO: return fold of
// committed.
func handleInitialClientGetUTxO(ledger headtypes.Ledger, in InitialState) Outcome {
	u := ledger.Combine(in.CommittedUTxOs())
	return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{
		Kind: headtypes.OutputGetUTxOResponse,
		UTxO: u,
	}))
}

// handleInitialClientAbort implements §4.3 Client Abort.
func handleInitialClientAbort(ledger headtypes.Ledger, in InitialState) Outcome {
	u := ledger.Combine(in.CommittedUTxOs())
	return onlyEffects(headtypes.OnChainEffect(in.ChainState, headtypes.PostedTx{
		Kind: headtypes.PostedAbortTx,
		UTxO: u,
	}))
}

// handleInitialOnCommitTx implements §4.3 Observation OnCommitTx{party, utxo}.
// A stray commit from a party no longer pending is a benign no-op (§8
// round-trip property).
func handleInitialOnCommitTx(env headtypes.Environment, prev HeadState, in InitialState, obs headtypes.ObservedTx, newChainState headtypes.ChainStateInfo, ledger headtypes.Ledger) Outcome {
	p := obs.CommitParty
	if _, pending := in.PendingCommits[p.Key()]; !pending {
		return noop()
	}

	nextPending := make(map[headtypes.PartyKey]headtypes.Party, len(in.PendingCommits)-1)
	for k, v := range in.PendingCommits {
		if k != p.Key() {
			nextPending[k] = v
		}
	}
	nextCommitted := make(map[headtypes.PartyKey]headtypes.UTxO, len(in.Committed)+1)
	for k, v := range in.Committed {
		nextCommitted[k] = v
	}
	nextCommitted[p.Key()] = obs.CommitUTxO

	next := NewInitial(InitialState{
		Parameters:     in.Parameters,
		PendingCommits: nextPending,
		Committed:      nextCommitted,
		Predecessor:    prev,
		ChainState:     newChainState,
	})

	effects := []headtypes.Effect{headtypes.ClientEffect(headtypes.ServerOutput{
		Kind:  headtypes.OutputCommitted,
		Party: p,
		UTxO:  obs.CommitUTxO,
	})}

	// Last-committer tie-break (§4.3): exactly one node -- the one whose
	// own commit just emptied pendingCommits -- posts CollectComTx.
	if len(nextPending) == 0 && p.Equal(env.Party) {
		combined := ledger.Combine(foldCommittedInOrder(in.Parameters, nextCommitted))
		effects = append(effects, headtypes.OnChainEffect(newChainState, headtypes.PostedTx{
			Kind:          headtypes.PostedCollectComTx,
			CollectedUTxO: combined,
		}))
	}

	return newState(next, effects...)
}

// foldCommittedInOrder returns the committed UTxOs in HeadParameters.Parties
// order, the order Combine must see for deterministic results.
func foldCommittedInOrder(params headtypes.HeadParameters, committed map[headtypes.PartyKey]headtypes.UTxO) []headtypes.UTxO {
	out := make([]headtypes.UTxO, 0, len(committed))
	for _, p := range params.Parties {
		if u, ok := committed[p.Key()]; ok {
			out = append(out, u)
		}
	}
	return out
}

// handleInitialOnCollectComTx implements §4.3 Observation OnCollectComTx:
// transition to OpenState with u0 = fold(committed).
func handleInitialOnCollectComTx(prev HeadState, in InitialState, newChainState headtypes.ChainStateInfo, ledger headtypes.Ledger) Outcome {
	u0 := ledger.Combine(foldCommittedInOrder(in.Parameters, in.Committed))

	next := NewOpen(OpenState{
		Parameters:  in.Parameters,
		Coordinated: InitialCoordinatedHeadState(u0),
		Predecessor: prev,
		ChainState:  newChainState,
	})

	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{
		Kind: headtypes.OutputHeadIsOpen,
		UTxO: u0,
	}))
}

// handleInitialOnAbortTx implements §4.3 Observation OnAbortTx: back to
// Idle.
func handleInitialOnAbortTx(in InitialState, newChainState headtypes.ChainStateInfo, ledger headtypes.Ledger) Outcome {
	u := ledger.Combine(foldCommittedInOrder(in.Parameters, in.Committed))
	next := NewIdle(newChainState)
	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{
		Kind: headtypes.OutputHeadIsAborted,
		UTxO: u,
	}))
}

func commandFailed(input headtypes.ClientInput) headtypes.Effect {
	return headtypes.ClientEffect(headtypes.ServerOutput{
		Kind:        headtypes.OutputCommandFailed,
		FailedInput: input,
	})
}
