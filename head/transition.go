package head

import "headnode/headtypes"

// Transition is the single entry point of the core: a pure function from
// (Environment, Ledger, Crypto, HeadState, Event) to Outcome (§4, §5, §9
// "Exhaustiveness": a sum over phase x event-kind dispatched via a
// tagged-union pattern match). Benign ignores are enumerated explicitly;
// every other (phase, event) combination falls through to InvalidEvent.
func Transition(env headtypes.Environment, ledger headtypes.Ledger, crypto headtypes.Crypto, state HeadState, event headtypes.Event) Outcome {
	// PostTxError is handled identically in every phase (§4.1): it is a
	// client notification, never a state change.
	if event.Kind == headtypes.EventPostTxError {
		return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{
			Kind:           headtypes.OutputPostTxOnChainFailed,
			FailedPostedTx: event.PostTxError.PostedTx,
			FailureReason:  event.PostTxError.Reason,
		}))
	}

	// Rollback applies uniformly across phases (§4.8).
	if event.Kind == headtypes.EventOnChain && event.ChainEvent.Kind == headtypes.ChainRollback {
		return handleRollback(state, event.ChainEvent.RollbackSlot)
	}

	switch state.Phase() {
	case PhaseIdle:
		idle, _ := state.Idle()
		return dispatchIdle(env, idle, event)
	case PhaseInitial:
		in, _ := state.Initial()
		return dispatchInitial(env, ledger, state, in, event)
	case PhaseOpen:
		o, _ := state.Open()
		return dispatchOpen(env, ledger, crypto, state, o, event)
	case PhaseClosed:
		c, _ := state.Closed()
		return dispatchClosed(c, event)
	default:
		return errorOutcome(headtypes.NewInvalidState("unknown head phase"))
	}
}

func dispatchIdle(env headtypes.Environment, idle IdleState, event headtypes.Event) Outcome {
	switch event.Kind {
	case headtypes.EventClient:
		if event.ClientInput.Kind == headtypes.InputInit {
			return handleIdleClientInit(env, idle)
		}
		return onlyEffects(commandFailed(event.ClientInput))

	case headtypes.EventOnChain:
		switch event.ChainEvent.Kind {
		case headtypes.ChainObservation:
			obs := event.ChainEvent.ObservedTx
			if obs.Kind == headtypes.ObservedInitTx {
				return handleIdleOnInitTx(HeadState{idle: &idle}, idle, obs, event.ChainEvent.NewChainState)
			}
			return noop() // stray observation before Init; benign per §7.
		case headtypes.ChainTick:
			return noop()
		}
		return errorOutcome(headtypes.NewInvalidEvent("unhandled chain event in Idle"))

	case headtypes.EventNetwork:
		// No coordinated sub-protocol exists before a head is opened; a
		// peer message here is a hard protocol violation.
		return errorOutcome(headtypes.NewInvalidEvent("network message %v received while Idle", event.Message.Kind))
	}

	return errorOutcome(headtypes.NewInvalidEvent("unhandled event kind in Idle"))
}

func dispatchInitial(env headtypes.Environment, ledger headtypes.Ledger, prev HeadState, in InitialState, event headtypes.Event) Outcome {
	switch event.Kind {
	case headtypes.EventClient:
		switch event.ClientInput.Kind {
		case headtypes.InputCommit:
			return handleInitialClientCommit(env, in, event.ClientInput.CommitUTxO)
		case headtypes.InputAbort:
			return handleInitialClientAbort(ledger, in)
		case headtypes.InputGetUTxO:
			return handleInitialClientGetUTxO(ledger, in)
		default:
			return onlyEffects(commandFailed(event.ClientInput))
		}

	case headtypes.EventOnChain:
		switch event.ChainEvent.Kind {
		case headtypes.ChainObservation:
			obs := event.ChainEvent.ObservedTx
			switch obs.Kind {
			case headtypes.ObservedCommitTx:
				return handleInitialOnCommitTx(env, prev, in, obs, event.ChainEvent.NewChainState, ledger)
			case headtypes.ObservedCollectComTx:
				return handleInitialOnCollectComTx(prev, in, event.ChainEvent.NewChainState, ledger)
			case headtypes.ObservedAbortTx:
				return handleInitialOnAbortTx(in, event.ChainEvent.NewChainState, ledger)
			default:
				return noop() // stray observation; benign per §7.
			}
		case headtypes.ChainTick:
			return noop()
		}
		return errorOutcome(headtypes.NewInvalidEvent("unhandled chain event in Initial"))

	case headtypes.EventNetwork:
		return errorOutcome(headtypes.NewInvalidEvent("network message %v received while Initial", event.Message.Kind))
	}

	return errorOutcome(headtypes.NewInvalidEvent("unhandled event kind in Initial"))
}

func dispatchOpen(env headtypes.Environment, ledger headtypes.Ledger, crypto headtypes.Crypto, prev HeadState, o OpenState, event headtypes.Event) Outcome {
	switch event.Kind {
	case headtypes.EventClient:
		switch event.ClientInput.Kind {
		case headtypes.InputNewTx:
			return handleOpenClientNewTx(env, ledger, o, event.ClientInput.Tx)
		case headtypes.InputClose:
			return handleOpenClientClose(o)
		case headtypes.InputGetUTxO:
			return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{
				Kind: headtypes.OutputGetUTxOResponse,
				UTxO: o.Coordinated.SeenUTxO,
			}))
		default:
			return onlyEffects(commandFailed(event.ClientInput))
		}

	case headtypes.EventNetwork:
		switch event.Message.Kind {
		case headtypes.MsgReqTx:
			return handleOpenReqTx(ledger, prev, o, event)
		case headtypes.MsgReqSn:
			return handleOpenReqSn(env, ledger, crypto, o, event.Message.From, event.Message.SnapshotNumber, event.Message.Txs)
		case headtypes.MsgAckSn:
			return handleOpenAckSn(env, ledger, crypto, o, event.Message.From, event.Message.Signature, event.Message.SnapshotNumber)
		default:
			// Connected/Disconnected never reach the core in a well
			// behaved shell (SPEC_FULL.md); tolerate as benign no-ops.
			return noop()
		}

	case headtypes.EventOnChain:
		switch event.ChainEvent.Kind {
		case headtypes.ChainObservation:
			obs := event.ChainEvent.ObservedTx
			if obs.Kind == headtypes.ObservedCloseTx {
				return handleOpenOnCloseTx(o, obs, event.ChainEvent.NewChainState)
			}
			return noop() // stray observation; benign per §7.
		case headtypes.ChainTick:
			return noop()
		}
		return errorOutcome(headtypes.NewInvalidEvent("unhandled chain event in Open"))
	}

	return errorOutcome(headtypes.NewInvalidEvent("unhandled event kind in Open"))
}

func dispatchClosed(c ClosedState, event headtypes.Event) Outcome {
	switch event.Kind {
	case headtypes.EventClient:
		switch event.ClientInput.Kind {
		case headtypes.InputContest:
			return handleClosedClientContest(c)
		case headtypes.InputFanout:
			return handleClosedClientFanout(c)
		case headtypes.InputGetUTxO:
			return onlyEffects(headtypes.ClientEffect(headtypes.ServerOutput{
				Kind: headtypes.OutputGetUTxOResponse,
				UTxO: c.ConfirmedSnapshot.Snapshot.UTxO,
			}))
		default:
			return onlyEffects(commandFailed(event.ClientInput))
		}

	case headtypes.EventOnChain:
		switch event.ChainEvent.Kind {
		case headtypes.ChainObservation:
			obs := event.ChainEvent.ObservedTx
			switch obs.Kind {
			case headtypes.ObservedContestTx:
				return handleClosedOnContestTx(c, event.ChainEvent.NewChainState, obs)
			case headtypes.ObservedFanoutTx:
				return handleClosedOnFanoutTx(c, event.ChainEvent.NewChainState)
			default:
				return noop() // stray observation; benign per §7.
			}
		case headtypes.ChainTick:
			return handleClosedTick(c, event.ChainEvent.Time)
		}
		return errorOutcome(headtypes.NewInvalidEvent("unhandled chain event in Closed"))

	case headtypes.EventNetwork:
		return errorOutcome(headtypes.NewInvalidEvent("network message %v received while Closed", event.Message.Kind))
	}

	return errorOutcome(headtypes.NewInvalidEvent("unhandled event kind in Closed"))
}
