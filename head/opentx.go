package head

import "headnode/headtypes"

// handleOpenClientNewTx implements §4.4 Client NewTx{tx}: validate against
// the confirmed UTxO and, if valid, broadcast a ReqTx; no state change
// either way (the tx only enters seenTxs once it round-trips back as a
// network ReqTx, per the loopback contract in §5).
func handleOpenClientNewTx(env headtypes.Environment, ledger headtypes.Ledger, o OpenState, tx headtypes.Tx) Outcome {
	confirmedUTxO := o.Coordinated.ConfirmedSnapshot.Snapshot.UTxO
	if err := ledger.CanApply(confirmedUTxO, tx); err != nil {
		return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{
			Kind: headtypes.OutputTxInvalid,
			UTxO: confirmedUTxO,
			Tx:   tx,
			Err:  err,
		}))
	}

	return onlyEffects(
		headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputTxValid, Tx: tx}),
		headtypes.NetworkEffect(headtypes.Message{Kind: headtypes.MsgReqTx, From: env.Party, Tx: tx}),
	)
}

// handleOpenReqTx implements §4.4 Network ReqTx(_, tx) with ttl.
func handleOpenReqTx(ledger headtypes.Ledger, prev HeadState, o OpenState, event headtypes.Event) Outcome {
	tx := event.Message.Tx

	if event.Expired() {
		return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{
			Kind: headtypes.OutputTxExpired,
			Tx:   tx,
		}))
	}

	nextUTxO, err := ledger.ApplyTransactions(o.Coordinated.SeenUTxO, []headtypes.Tx{tx})
	if err != nil {
		return waitFor(headtypes.WaitReason{Kind: headtypes.WaitOnNotApplicableTx, Cause: err})
	}

	nextSeenTxs := append(append([]headtypes.Tx{}, o.Coordinated.SeenTxs...), tx)

	next := NewOpen(OpenState{
		Parameters: o.Parameters,
		Coordinated: CoordinatedHeadState{
			SeenUTxO:          nextUTxO,
			SeenTxs:           nextSeenTxs,
			ConfirmedSnapshot: o.Coordinated.ConfirmedSnapshot,
			SeenSnapshot:      o.Coordinated.SeenSnapshot,
		},
		Predecessor: o.Predecessor,
		ChainState:  o.ChainState,
	})

	return newState(next, headtypes.ClientEffect(headtypes.ServerOutput{Kind: headtypes.OutputTxSeen, Tx: tx}))
}
