package headtypes

import "time"

// ClientInputKind discriminates the client-input vocabulary ingested by the
// core (§6.1).
type ClientInputKind uint8

const (
	InputInit ClientInputKind = iota
	InputCommit
	InputAbort
	InputNewTx
	InputClose
	InputContest
	InputFanout
	InputGetUTxO
)

func (k ClientInputKind) String() string {
	switch k {
	case InputInit:
		return "Init"
	case InputCommit:
		return "Commit"
	case InputAbort:
		return "Abort"
	case InputNewTx:
		return "NewTx"
	case InputClose:
		return "Close"
	case InputContest:
		return "Contest"
	case InputFanout:
		return "Fanout"
	case InputGetUTxO:
		return "GetUTxO"
	default:
		return "UnknownInput"
	}
}

// ClientInput is the tagged union of user intents ingested as ClientEvent
// (§4.1, §6.1).
type ClientInput struct {
	Kind ClientInputKind

	// InputCommit
	CommitUTxO UTxO

	// InputNewTx
	Tx Tx
}

// ServerOutputKind discriminates the server-output vocabulary emitted by the
// core (§6.2).
type ServerOutputKind uint8

const (
	OutputPeerConnected ServerOutputKind = iota
	OutputPeerDisconnected
	OutputReadyToCommit
	OutputCommitted
	OutputHeadIsOpen
	OutputHeadIsAborted
	OutputHeadIsClosed
	OutputHeadIsContested
	OutputReadyToFanout
	OutputHeadIsFinalized
	OutputTxValid
	OutputTxInvalid
	OutputTxSeen
	OutputTxExpired
	OutputSnapshotConfirmed
	OutputGetUTxOResponse
	OutputCommandFailed
	OutputPostTxOnChainFailed
	OutputRolledBack
)

func (k ServerOutputKind) String() string {
	switch k {
	case OutputPeerConnected:
		return "PeerConnected"
	case OutputPeerDisconnected:
		return "PeerDisconnected"
	case OutputReadyToCommit:
		return "ReadyToCommit"
	case OutputCommitted:
		return "Committed"
	case OutputHeadIsOpen:
		return "HeadIsOpen"
	case OutputHeadIsAborted:
		return "HeadIsAborted"
	case OutputHeadIsClosed:
		return "HeadIsClosed"
	case OutputHeadIsContested:
		return "HeadIsContested"
	case OutputReadyToFanout:
		return "ReadyToFanout"
	case OutputHeadIsFinalized:
		return "HeadIsFinalized"
	case OutputTxValid:
		return "TxValid"
	case OutputTxInvalid:
		return "TxInvalid"
	case OutputTxSeen:
		return "TxSeen"
	case OutputTxExpired:
		return "TxExpired"
	case OutputSnapshotConfirmed:
		return "SnapshotConfirmed"
	case OutputGetUTxOResponse:
		return "GetUTxOResponse"
	case OutputCommandFailed:
		return "CommandFailed"
	case OutputPostTxOnChainFailed:
		return "PostTxOnChainFailed"
	case OutputRolledBack:
		return "RolledBack"
	default:
		return "UnknownOutput"
	}
}

// ServerOutput is the tagged union delivered to the client API as a
// ClientEffect (§4, §6.2).
type ServerOutput struct {
	Kind ServerOutputKind

	NodeID string // OutputPeerConnected / OutputPeerDisconnected

	Parties []Party // OutputReadyToCommit

	Party Party // OutputCommitted
	UTxO  UTxO  // OutputCommitted, OutputHeadIsOpen, OutputHeadIsAborted, OutputHeadIsFinalized, OutputGetUTxOResponse, OutputTxInvalid (the utxo the tx was checked against)

	SnapshotNumber       uint64    // OutputHeadIsClosed, OutputHeadIsContested
	ContestationDeadline time.Time // OutputHeadIsClosed

	Tx  Tx    // OutputTxValid, OutputTxInvalid, OutputTxSeen, OutputTxExpired
	Err error // OutputTxInvalid

	Snapshot Snapshot // OutputSnapshotConfirmed
	Multisig Multisig // OutputSnapshotConfirmed

	FailedInput ClientInput // OutputCommandFailed

	FailedPostedTx PostedTx // OutputPostTxOnChainFailed
	FailureReason  error    // OutputPostTxOnChainFailed
}
