package head

import "headnode/headtypes"

// handleOpenReqSn implements §4.5 "Handling ReqSn(from, sn, txs)".
func handleOpenReqSn(env headtypes.Environment, ledger headtypes.Ledger, crypto headtypes.Crypto, o OpenState, from headtypes.Party, sn uint64, txs []headtypes.Tx) Outcome {
	c := o.Coordinated.ConfirmedSnapshot.Snapshot.Number
	isLeader := o.Parameters.IsLeader(from, sn)
	collecting := o.Coordinated.SeenSnapshot.Status == headtypes.SeenSnapshotCollecting

	// Case 1: accept-and-sign.
	if sn == c+1 && isLeader && !collecting {
		u, err := ledger.ApplyTransactions(o.Coordinated.ConfirmedSnapshot.Snapshot.UTxO, txs)
		if err != nil {
			// §9 Open Question: the source notes this Wait is believed
			// unreachable (applying against the confirmed UTxO cannot
			// fail) but specifies Wait anyway; we follow the letter of
			// the spec rather than assert.
			return waitFor(headtypes.WaitReason{Kind: headtypes.WaitOnNotApplicableTx, Cause: err})
		}

		next := headtypes.Snapshot{Number: sn, UTxO: u, Confirmed: txs}
		sig, err := crypto.Sign(env, next)
		if err != nil {
			return errorOutcome(headtypes.NewInvalidState("signing snapshot %d: %v", sn, err))
		}

		sigs := map[headtypes.PartyKey]headtypes.Signature{env.Party.Key(): sig}

		nextState := openWithSeenSnapshot(o, headtypes.CollectingSeenSnapshot(next, sigs))
		return newState(nextState, headtypes.NetworkEffect(headtypes.Message{
			Kind:           headtypes.MsgAckSn,
			From:           env.Party,
			Signature:      sig,
			SnapshotNumber: sn,
		}))
	}

	// Case 2: future request.
	if sn > c && isLeader {
		if collecting {
			if o.Coordinated.SeenSnapshot.Snapshot.Number == sn {
				return errorOutcome(headtypes.NewInvalidEvent("duplicate ReqSn for in-flight snapshot %d", sn))
			}
			return waitFor(headtypes.WaitReason{Kind: headtypes.WaitOnSnapshotNumber, ExpectedNumber: o.Coordinated.SeenSnapshot.Snapshot.Number})
		}
		return waitFor(headtypes.WaitReason{Kind: headtypes.WaitOnSeenSnapshot})
	}

	// Case 3: anything else.
	return errorOutcome(headtypes.NewInvalidEvent("ReqSn(from=%v, sn=%d) not applicable to confirmed=%d, leader=%v", from, sn, c, isLeader))
}

// handleOpenAckSn implements §4.5 "Handling AckSn(from, sig, sn)".
func handleOpenAckSn(env headtypes.Environment, ledger headtypes.Ledger, crypto headtypes.Crypto, o OpenState, from headtypes.Party, sig headtypes.Signature, sn uint64) Outcome {
	seen := o.Coordinated.SeenSnapshot

	if seen.Status == headtypes.SeenSnapshotNone || seen.Status == headtypes.SeenSnapshotRequested {
		return waitFor(headtypes.WaitReason{Kind: headtypes.WaitOnSeenSnapshot})
	}

	if seen.Snapshot.Number != sn {
		return waitFor(headtypes.WaitReason{Kind: headtypes.WaitOnSnapshotNumber, ExpectedNumber: seen.Snapshot.Number})
	}

	nextSigs := make(map[headtypes.PartyKey]headtypes.Signature, len(seen.Signatures)+1)
	for k, v := range seen.Signatures {
		nextSigs[k] = v
	}
	if crypto.Verify(from, sig, seen.Snapshot) {
		nextSigs[from.Key()] = sig
	}

	if allPartiesSigned(o.Parameters, nextSigs) {
		multisig, err := crypto.AggregateInOrder(o.Parameters.Parties, nextSigs)
		if err != nil {
			return errorOutcome(headtypes.NewInvalidState("aggregating signatures for snapshot %d: %v", sn, err))
		}

		confirmed := headtypes.ConfirmedSnapshot{Snapshot: seen.Snapshot, Multisig: multisig}
		remainingSeenTxs := dropIncluded(ledger, o.Coordinated.SeenTxs, seen.Snapshot.Confirmed)

		nextState := NewOpen(OpenState{
			Parameters: o.Parameters,
			Coordinated: CoordinatedHeadState{
				SeenUTxO:          o.Coordinated.SeenUTxO,
				SeenTxs:           remainingSeenTxs,
				ConfirmedSnapshot: confirmed,
				SeenSnapshot:      headtypes.NoSeenSnapshot(),
			},
			Predecessor: o.Predecessor,
			ChainState:  o.ChainState,
		})

		return newState(nextState, headtypes.ClientEffect(headtypes.ServerOutput{
			Kind:     headtypes.OutputSnapshotConfirmed,
			Snapshot: confirmed.Snapshot,
			Multisig: confirmed.Multisig,
		}))
	}

	nextState := openWithSeenSnapshot(o, headtypes.CollectingSeenSnapshot(seen.Snapshot, nextSigs))
	return newState(nextState)
}

func openWithSeenSnapshot(o OpenState, seen headtypes.SeenSnapshot) HeadState {
	return NewOpen(OpenState{
		Parameters: o.Parameters,
		Coordinated: CoordinatedHeadState{
			SeenUTxO:          o.Coordinated.SeenUTxO,
			SeenTxs:           o.Coordinated.SeenTxs,
			ConfirmedSnapshot: o.Coordinated.ConfirmedSnapshot,
			SeenSnapshot:      seen,
		},
		Predecessor: o.Predecessor,
		ChainState:  o.ChainState,
	})
}

func allPartiesSigned(params headtypes.HeadParameters, sigs map[headtypes.PartyKey]headtypes.Signature) bool {
	if len(sigs) != len(params.Parties) {
		return false
	}
	for _, p := range params.Parties {
		if _, ok := sigs[p.Key()]; !ok {
			return false
		}
	}
	return true
}

// dropIncluded removes from seenTxs any transaction that is also present (by
// identity) in included, preserving order (§3.3 invariant, §4.5).
func dropIncluded(ledger headtypes.Ledger, seenTxs []headtypes.Tx, included []headtypes.Tx) []headtypes.Tx {
	if len(included) == 0 {
		return seenTxs
	}
	excluded := make(map[string]struct{}, len(included))
	for _, tx := range included {
		excluded[ledger.TxID(tx)] = struct{}{}
	}
	out := make([]headtypes.Tx, 0, len(seenTxs))
	for _, tx := range seenTxs {
		if _, drop := excluded[ledger.TxID(tx)]; !drop {
			out = append(out, tx)
		}
	}
	return out
}
