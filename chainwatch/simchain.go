package chainwatch

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"

	"headnode/headtypes"
)

// SimChain is a Client backed by an in-process clock instead of a real
// settlement layer: every posted transaction is "confirmed" after a fixed
// delay, and slots advance on a fixed tick, mirroring the teacher's
// SlotClock (consensus/slot_test.go) but driving ChainEvents instead of
// round timeouts.
type SimChain struct {
	service.BaseService

	tickInterval       time.Duration
	commitDelay        time.Duration
	contestationPeriod time.Duration

	slot headtypes.Slot

	events chan ChainOccurrence
	postCh chan headtypes.PostedTx
}

func NewSimChain(tickInterval, commitDelay, contestationPeriod time.Duration) *SimChain {
	sc := &SimChain{
		tickInterval:       tickInterval,
		commitDelay:        commitDelay,
		contestationPeriod: contestationPeriod,
		events:             make(chan ChainOccurrence, 64),
		postCh:             make(chan headtypes.PostedTx, 64),
	}
	sc.BaseService = *service.NewBaseService(nil, "SimChain", sc)
	return sc
}

func (sc *SimChain) SetLogger(logger log.Logger) {
	sc.Logger = logger
}

func (sc *SimChain) OnStart() error {
	go sc.loop()
	return nil
}

func (sc *SimChain) OnStop() {}

func (sc *SimChain) Events() <-chan ChainOccurrence {
	return sc.events
}

func (sc *SimChain) Post(tx headtypes.PostedTx) error {
	select {
	case sc.postCh <- tx:
		return nil
	case <-sc.Quit():
		return errors.New("simchain is stopped")
	}
}

func (sc *SimChain) loop() {
	ticker := time.NewTicker(sc.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sc.Quit():
			return

		case <-ticker.C:
			sc.slot++
			sc.events <- ChainOccurrence{ChainEvent: &headtypes.ChainEvent{
				Kind: headtypes.ChainTick,
				Time: time.Now(),
			}}

		case tx := <-sc.postCh:
			go sc.confirm(tx)
		}
	}
}

// confirm simulates block inclusion: after commitDelay, translate the
// posted tx into the observation it causes and advance the chain slot.
func (sc *SimChain) confirm(tx headtypes.PostedTx) {
	time.Sleep(sc.commitDelay)

	obs, err := sc.observedFor(tx)
	if err != nil {
		sc.Logger.Error("rejecting posted tx", "kind", tx.Kind, "err", err)
		sc.events <- ChainOccurrence{PostTxError: &headtypes.PostTxError{PostedTx: tx, Reason: err}}
		return
	}

	sc.slot++
	sc.events <- ChainOccurrence{ChainEvent: &headtypes.ChainEvent{
		Kind:          headtypes.ChainObservation,
		ObservedTx:    obs,
		NewChainState: ChainState{Slot: sc.slot},
	}}
}

func (sc *SimChain) observedFor(tx headtypes.PostedTx) (headtypes.ObservedTx, error) {
	switch tx.Kind {
	case headtypes.PostedInitTx:
		return headtypes.ObservedTx{
			Kind:               headtypes.ObservedInitTx,
			ContestationPeriod: tx.InitParameters.ContestationPeriod,
			Parties:            tx.InitParameters.Parties,
		}, nil
	case headtypes.PostedCommitTx:
		return headtypes.ObservedTx{
			Kind:        headtypes.ObservedCommitTx,
			CommitParty: tx.CommitParty,
			CommitUTxO:  tx.CommitUTxO,
		}, nil
	case headtypes.PostedAbortTx:
		return headtypes.ObservedTx{Kind: headtypes.ObservedAbortTx}, nil
	case headtypes.PostedCollectComTx:
		return headtypes.ObservedTx{Kind: headtypes.ObservedCollectComTx}, nil
	case headtypes.PostedCloseTx:
		return headtypes.ObservedTx{
			Kind:                 headtypes.ObservedCloseTx,
			ClosedSnapshotNumber: tx.ConfirmedSnapshot.Snapshot.Number,
			ContestationDeadline: time.Now().Add(sc.contestationPeriod),
		}, nil
	case headtypes.PostedContestTx:
		return headtypes.ObservedTx{
			Kind:                    headtypes.ObservedContestTx,
			ContestedSnapshotNumber: tx.ConfirmedSnapshot.Snapshot.Number,
		}, nil
	case headtypes.PostedFanoutTx:
		return headtypes.ObservedTx{Kind: headtypes.ObservedFanoutTx}, nil
	default:
		return headtypes.ObservedTx{}, errors.Errorf("unknown posted tx kind %v", tx.Kind)
	}
}
