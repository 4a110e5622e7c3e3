package head

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headnode/headtypes"
)

// S1: two-party open -- Init, OnInitTx, both Commits, OnCollectComTx.
func TestScenarioTwoPartyOpen(t *testing.T) {
	ledger := fakeLedger{}
	alice := newTestParty(1)
	bob := newTestParty(2)
	envAlice := newTestEnv(alice, []headtypes.Party{bob})

	idle := NewIdle(testChainState(0))

	initOut := Transition(envAlice, ledger, fakeCrypto{}, idle, headtypes.NewClientEvent(headtypes.ClientInput{Kind: headtypes.InputInit}))
	require.Equal(t, headtypes.OutcomeOnlyEffects, initOut.Kind)
	require.Len(t, initOut.Effects, 1)
	assert.Equal(t, headtypes.PostedInitTx, initOut.Effects[0].PostedTx.Kind)

	params := envAlice.Parameters()
	onInit := headtypes.Event{
		Kind: headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{
			Kind: headtypes.ChainObservation,
			ObservedTx: headtypes.ObservedTx{
				Kind:               headtypes.ObservedInitTx,
				ContestationPeriod: params.ContestationPeriod,
				Parties:            params.Parties,
			},
			NewChainState: testChainState(1),
		},
	}
	initialOut := Transition(envAlice, ledger, fakeCrypto{}, idle, onInit)
	require.Equal(t, headtypes.OutcomeNewState, initialOut.Kind)
	state := initialOut.State
	require.Equal(t, PhaseInitial, state.Phase())

	aliceUTxO := testUTxO{"alice": 100}
	bobUTxO := testUTxO{"bob": 50}

	onCommitAlice := headtypes.Event{
		Kind: headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{
			Kind:          headtypes.ChainObservation,
			ObservedTx:    headtypes.ObservedTx{Kind: headtypes.ObservedCommitTx, CommitParty: alice, CommitUTxO: aliceUTxO},
			NewChainState: testChainState(2),
		},
	}
	out := Transition(envAlice, ledger, fakeCrypto{}, state, onCommitAlice)
	require.Equal(t, headtypes.OutcomeNewState, out.Kind)
	state = out.State
	// Alice hasn't committed last; no CollectComTx yet.
	for _, e := range out.Effects {
		assert.NotEqual(t, headtypes.EffectOnChain, e.Kind)
	}

	onCommitBob := headtypes.Event{
		Kind: headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{
			Kind:          headtypes.ChainObservation,
			ObservedTx:    headtypes.ObservedTx{Kind: headtypes.ObservedCommitTx, CommitParty: bob, CommitUTxO: bobUTxO},
			NewChainState: testChainState(3),
		},
	}
	// From Bob's perspective (last committer), Bob posts CollectComTx.
	envBob := newTestEnv(bob, []headtypes.Party{alice})
	out = Transition(envBob, ledger, fakeCrypto{}, state, onCommitBob)
	require.Equal(t, headtypes.OutcomeNewState, out.Kind)
	var sawCollectCom bool
	for _, e := range out.Effects {
		if e.Kind == headtypes.EffectOnChain && e.PostedTx.Kind == headtypes.PostedCollectComTx {
			sawCollectCom = true
			assert.Equal(t, 100, e.PostedTx.CollectedUTxO.(testUTxO)["alice"])
			assert.Equal(t, 50, e.PostedTx.CollectedUTxO.(testUTxO)["bob"])
		}
	}
	assert.True(t, sawCollectCom)
	state = out.State

	onCollectCom := headtypes.Event{
		Kind: headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{
			Kind:          headtypes.ChainObservation,
			ObservedTx:    headtypes.ObservedTx{Kind: headtypes.ObservedCollectComTx},
			NewChainState: testChainState(4),
		},
	}
	out = Transition(envAlice, ledger, fakeCrypto{}, state, onCollectCom)
	require.Equal(t, headtypes.OutcomeNewState, out.Kind)
	require.Equal(t, PhaseOpen, out.State.Phase())
	open, _ := out.State.Open()
	assert.Equal(t, 100, open.Coordinated.ConfirmedSnapshot.Snapshot.UTxO.(testUTxO)["alice"])
	assert.Equal(t, 50, open.Coordinated.ConfirmedSnapshot.Snapshot.UTxO.(testUTxO)["bob"])
}

func openTwoPartyState(t *testing.T) (headtypes.Environment, headtypes.Environment, HeadState) {
	t.Helper()
	alice := newTestParty(1)
	bob := newTestParty(2)
	envAlice := newTestEnv(alice, []headtypes.Party{bob})
	envBob := newTestEnv(bob, []headtypes.Party{alice})

	u0 := testUTxO{"alice": 100, "bob": 50}
	open := NewOpen(OpenState{
		Parameters:  headtypes.HeadParameters{Parties: []headtypes.Party{alice, bob}},
		Coordinated: InitialCoordinatedHeadState(u0),
		Predecessor: NewIdle(testChainState(0)),
		ChainState:  testChainState(1),
	})
	return envAlice, envBob, open
}

// S2: snapshot round -- leader ReqSn, both AckSn, snapshot confirmed.
func TestScenarioSnapshotRound(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	envAlice, envBob, state := openTwoPartyState(t)

	tx := testTx{id: "tx1", from: "alice", to: "bob", amount: 10}

	out := Transition(envAlice, ledger, crypto, state, headtypes.NewClientEvent(headtypes.ClientInput{Kind: headtypes.InputNewTx, Tx: tx}))
	require.Equal(t, headtypes.OutcomeOnlyEffects, out.Kind)

	reqTxEvent := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgReqTx, From: envAlice.Party, Tx: tx})
	out = Transition(envAlice, ledger, crypto, state, reqTxEvent)
	require.Equal(t, headtypes.OutcomeNewState, out.Kind)
	state = out.State
	open, _ := state.Open()
	require.Len(t, open.Coordinated.SeenTxs, 1)

	next := open.Coordinated.ConfirmedSnapshot.Snapshot.Number + 1
	require.True(t, open.Parameters.IsLeader(envAlice.Party, next))

	reqSn := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgReqSn, From: envAlice.Party, SnapshotNumber: next, Txs: open.Coordinated.SeenTxs})

	outAlice := Transition(envAlice, ledger, crypto, state, reqSn)
	require.Equal(t, headtypes.OutcomeNewState, outAlice.Kind)
	stateAlice := outAlice.State

	outBob := Transition(envBob, ledger, crypto, state, reqSn)
	require.Equal(t, headtypes.OutcomeNewState, outBob.Kind)
	stateBob := outBob.State

	aliceOpen, _ := stateAlice.Open()
	bobOpen, _ := stateBob.Open()
	require.Equal(t, headtypes.SeenSnapshotCollecting, aliceOpen.Coordinated.SeenSnapshot.Status)
	require.Equal(t, headtypes.SeenSnapshotCollecting, bobOpen.Coordinated.SeenSnapshot.Status)

	aliceSig := outAlice.Effects[0].Message.Signature
	bobSig := outBob.Effects[0].Message.Signature

	ackFromBob := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgAckSn, From: envBob.Party, Signature: bobSig, SnapshotNumber: next})
	outAlice2 := Transition(envAlice, ledger, crypto, stateAlice, ackFromBob)
	require.Equal(t, headtypes.OutcomeNewState, outAlice2.Kind)
	aliceFinal, _ := outAlice2.State.Open()
	require.Equal(t, headtypes.SeenSnapshotNone, aliceFinal.Coordinated.SeenSnapshot.Status)
	assert.Equal(t, next, aliceFinal.Coordinated.ConfirmedSnapshot.Snapshot.Number)
	assert.Empty(t, aliceFinal.Coordinated.SeenTxs)

	ackFromAlice := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgAckSn, From: envAlice.Party, Signature: aliceSig, SnapshotNumber: next})
	outBob2 := Transition(envBob, ledger, crypto, stateBob, ackFromAlice)
	require.Equal(t, headtypes.OutcomeNewState, outBob2.Kind)
	bobFinal, _ := outBob2.State.Open()
	assert.Equal(t, next, bobFinal.Coordinated.ConfirmedSnapshot.Snapshot.Number)
}

// S3: an AckSn arriving before its ReqSn has been seen must Wait, not error.
func TestScenarioAckSnBeforeReqSn(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	envAlice, envBob, state := openTwoPartyState(t)

	ack := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgAckSn, From: envBob.Party, Signature: fakeSignature{}, SnapshotNumber: 1})
	out := Transition(envAlice, ledger, crypto, state, ack)
	require.Equal(t, headtypes.OutcomeWait, out.Kind)
	assert.Equal(t, headtypes.WaitOnSeenSnapshot, out.Wait.Kind)
}

// S4: a ReqSn for a future snapshot number while one is already collecting
// must Wait, not be dropped or errored.
func TestScenarioFutureReqSn(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	envAlice, envBob, state := openTwoPartyState(t)
	open, _ := state.Open()

	collecting := openWithSeenSnapshot(open, headtypes.CollectingSeenSnapshot(headtypes.Snapshot{Number: 1}, nil))

	// sn=2 is led by bob in this two-party round-robin schedule.
	require.True(t, open.Parameters.IsLeader(envBob.Party, 2))
	reqSn2 := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgReqSn, From: envBob.Party, SnapshotNumber: 2, Txs: nil})
	out := Transition(envAlice, ledger, crypto, collecting, reqSn2)
	require.Equal(t, headtypes.OutcomeWait, out.Kind)
	assert.Equal(t, headtypes.WaitOnSnapshotNumber, out.Wait.Kind)
}

// S5: a ReqTx whose TTL has been exhausted by repeated re-enqueue is
// reported TxExpired rather than retried forever.
func TestScenarioReqTxExpires(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	envAlice, _, state := openTwoPartyState(t)

	bogus := testTx{id: "bogus", from: "alice", to: "bob", amount: 1_000_000}
	event := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgReqTx, From: envAlice.Party, Tx: bogus})
	for i := 0; i < headtypes.DefaultTTL; i++ {
		out := Transition(envAlice, ledger, crypto, state, event)
		require.Equal(t, headtypes.OutcomeWait, out.Kind, "iteration %d", i)
		event = event.Requeue()
	}
	require.True(t, event.Expired())
	out := Transition(envAlice, ledger, crypto, state, event)
	require.Equal(t, headtypes.OutcomeOnlyEffects, out.Kind)
	require.Len(t, out.Effects, 1)
	assert.Equal(t, headtypes.OutputTxExpired, out.Effects[0].ServerOutput.Kind)
}

// S6: closing on a stale confirmed snapshot triggers an automatic Contest
// against the pre-close chain state.
func TestScenarioContestOnStaleClose(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	envAlice, _, state := openTwoPartyState(t)
	open, _ := state.Open()

	confirmed := headtypes.ConfirmedSnapshot{
		Snapshot: headtypes.Snapshot{Number: 5, UTxO: open.Coordinated.SeenUTxO},
		Multisig: fakeMultisig{sn: 5},
	}
	open.Coordinated.ConfirmedSnapshot = confirmed
	state = NewOpen(open)

	closeObs := headtypes.Event{
		Kind: headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{
			Kind: headtypes.ChainObservation,
			ObservedTx: headtypes.ObservedTx{
				Kind:                 headtypes.ObservedCloseTx,
				ClosedSnapshotNumber: 3,
				ContestationDeadline: time.Now().Add(time.Hour),
			},
			NewChainState: testChainState(2),
		},
	}
	out := Transition(envAlice, ledger, crypto, state, closeObs)
	require.Equal(t, headtypes.OutcomeNewState, out.Kind)
	require.Equal(t, PhaseClosed, out.State.Phase())

	var sawContest bool
	for _, e := range out.Effects {
		if e.Kind == headtypes.EffectOnChain && e.PostedTx.Kind == headtypes.PostedContestTx {
			sawContest = true
		}
	}
	assert.True(t, sawContest, "a stale close must trigger an automatic Contest")
}

// A stray OnCommitTx outside Initial is a benign no-op (§7 default rule).
func TestStrayOnCommitTxIsBenign(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	env, _, state := openTwoPartyState(t)

	event := headtypes.Event{
		Kind: headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{
			Kind:          headtypes.ChainObservation,
			ObservedTx:    headtypes.ObservedTx{Kind: headtypes.ObservedCommitTx, CommitParty: env.Party},
			NewChainState: testChainState(9),
		},
	}
	out := Transition(env, ledger, crypto, state, event)
	assert.Equal(t, headtypes.OutcomeOnlyEffects, out.Kind)
	assert.Empty(t, out.Effects)
}

// Rollback to the current slot is an identity op (§8 round-trip property).
func TestRollbackIdentity(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	_, _, state := openTwoPartyState(t)

	event := headtypes.Event{
		Kind:       headtypes.EventOnChain,
		ChainEvent: headtypes.ChainEvent{Kind: headtypes.ChainRollback, RollbackSlot: 1},
	}
	env, _, _ := openTwoPartyState(t)
	out := Transition(env, ledger, crypto, state, event)
	assert.Equal(t, headtypes.OutcomeOnlyEffects, out.Kind)
	assert.Equal(t, headtypes.OutputRolledBack, out.Effects[0].ServerOutput.Kind)
}

// A network message arriving while Idle is a hard protocol violation.
func TestNetworkMessageWhileIdleIsInvalid(t *testing.T) {
	ledger := fakeLedger{}
	crypto := fakeCrypto{}
	alice := newTestParty(1)
	env := newTestEnv(alice, nil)
	idle := NewIdle(testChainState(0))

	event := headtypes.NewNetworkEvent(headtypes.Message{Kind: headtypes.MsgReqTx, From: alice})
	out := Transition(env, ledger, crypto, idle, event)
	require.Equal(t, headtypes.OutcomeError, out.Kind)
	assert.Equal(t, headtypes.InvalidEvent, out.Err.Kind)
}

// ApplyEmitter requests the next snapshot exactly once: leader, idle round,
// pending txs.
func TestApplyEmitterRequestsNextSnapshot(t *testing.T) {
	envAlice, _, state := openTwoPartyState(t)
	open, _ := state.Open()
	open.Coordinated.SeenTxs = []headtypes.Tx{testTx{id: "tx1", from: "alice", to: "bob", amount: 1}}
	state = NewOpen(open)

	nextState, effects := ApplyEmitter(envAlice, state, nil)
	require.Len(t, effects, 1)
	assert.Equal(t, headtypes.MsgReqSn, effects[0].Message.Kind)
	nextOpen, _ := nextState.Open()
	assert.Equal(t, headtypes.SeenSnapshotRequested, nextOpen.Coordinated.SeenSnapshot.Status)

	// A second call is a no-op: a round is already in flight.
	again, againEffects := ApplyEmitter(envAlice, nextState, nil)
	assert.Empty(t, againEffects)
	assert.Equal(t, nextState, again)
}
