package headtypes

import "time"

// DefaultTTL is the initial re-enqueue budget assigned to a freshly received
// NetworkEvent (§4.1).
const DefaultTTL = 5

// PostedTx is the on-chain surface the core asks the chain capability to
// submit (§6.4 "Posted transactions"). Only the fields listed for a Kind are
// set; the Kind discriminates.
type PostedTxKind uint8

const (
	PostedInitTx PostedTxKind = iota
	PostedCommitTx
	PostedAbortTx
	PostedCollectComTx
	PostedCloseTx
	PostedContestTx
	PostedFanoutTx
)

func (k PostedTxKind) String() string {
	switch k {
	case PostedInitTx:
		return "InitTx"
	case PostedCommitTx:
		return "CommitTx"
	case PostedAbortTx:
		return "AbortTx"
	case PostedCollectComTx:
		return "CollectComTx"
	case PostedCloseTx:
		return "CloseTx"
	case PostedContestTx:
		return "ContestTx"
	case PostedFanoutTx:
		return "FanoutTx"
	default:
		return "UnknownPostedTx"
	}
}

// PostedTx is the tagged union of transactions the core may ask to be
// submitted on-chain.
type PostedTx struct {
	Kind PostedTxKind

	// PostedInitTx
	InitParameters HeadParameters

	// PostedCommitTx
	CommitParty Party
	CommitUTxO  UTxO

	// PostedAbortTx, PostedFanoutTx
	UTxO UTxO

	// PostedCollectComTx
	CollectedUTxO UTxO

	// PostedCloseTx, PostedContestTx
	ConfirmedSnapshot ConfirmedSnapshot

	// PostedFanoutTx
	ContestationDeadline time.Time
}

// ObservedTxKind discriminates the on-chain observations the core reacts
// to (§6.4 "Observed transactions").
type ObservedTxKind uint8

const (
	ObservedInitTx ObservedTxKind = iota
	ObservedCommitTx
	ObservedCollectComTx
	ObservedAbortTx
	ObservedCloseTx
	ObservedContestTx
	ObservedFanoutTx
)

func (k ObservedTxKind) String() string {
	switch k {
	case ObservedInitTx:
		return "OnInitTx"
	case ObservedCommitTx:
		return "OnCommitTx"
	case ObservedCollectComTx:
		return "OnCollectComTx"
	case ObservedAbortTx:
		return "OnAbortTx"
	case ObservedCloseTx:
		return "OnCloseTx"
	case ObservedContestTx:
		return "OnContestTx"
	case ObservedFanoutTx:
		return "OnFanoutTx"
	default:
		return "UnknownObservedTx"
	}
}

// ObservedTx is the tagged union of on-chain observations delivered to the
// core via OnChainEvent{Observation{...}}.
type ObservedTx struct {
	Kind ObservedTxKind

	// ObservedInitTx
	ContestationPeriod ContestationPeriod
	Parties            []Party

	// ObservedCommitTx
	CommitParty Party
	CommitUTxO  UTxO

	// ObservedCloseTx
	ClosedSnapshotNumber uint64
	ContestationDeadline time.Time

	// ObservedContestTx
	ContestedSnapshotNumber uint64
}

// ChainEventKind discriminates the three on-chain event shapes of §4.1.
type ChainEventKind uint8

const (
	ChainObservation ChainEventKind = iota
	ChainRollback
	ChainTick
)

// ChainEvent is OnChainEvent's payload: Observation{observedTx,
// newChainState} | Rollback{slot} | Tick{time}.
type ChainEvent struct {
	Kind ChainEventKind

	// ChainObservation
	ObservedTx    ObservedTx
	NewChainState ChainStateInfo

	// ChainRollback
	RollbackSlot Slot

	// ChainTick
	Time time.Time
}

// PostTxError is re-ingested into the core for client notification when a
// previously-submitted PostedTx fails on-chain submission (§4.1 PostTxError,
// §6.2 PostTxOnChainFailed).
type PostTxError struct {
	PostedTx PostedTx
	Reason   error
}
