package head

import (
	"time"

	"headnode/headtypes"
)

// Phase names the four stages of §3.2. It is exported only for logging and
// dispatch; handlers never switch on Phase directly, they switch on the
// concrete HeadState variant via the accessor methods below.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseInitial
	PhaseOpen
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseInitial:
		return "Initial"
	case PhaseOpen:
		return "Open"
	case PhaseClosed:
		return "Closed"
	default:
		return "UnknownPhase"
	}
}

// HeadState is the sum type of §3.2's four phases. Exactly one of the
// pointer fields is non-nil; Phase() reports which. Values are never
// mutated in place -- every transition in this package returns a fresh
// HeadState built from the previous one via With*/predecessor chaining.
type HeadState struct {
	idle    *IdleState
	initial *InitialState
	open    *OpenState
	closed  *ClosedState
}

// Phase reports which of the four variants this HeadState holds.
func (s HeadState) Phase() Phase {
	switch {
	case s.initial != nil:
		return PhaseInitial
	case s.open != nil:
		return PhaseOpen
	case s.closed != nil:
		return PhaseClosed
	default:
		return PhaseIdle
	}
}

// ChainState returns the opaque chain-state tag carried by whichever variant
// this HeadState holds (§3.2).
func (s HeadState) ChainState() headtypes.ChainStateInfo {
	switch s.Phase() {
	case PhaseInitial:
		return s.initial.ChainState
	case PhaseOpen:
		return s.open.ChainState
	case PhaseClosed:
		return s.closed.ChainState
	default:
		return s.idle.ChainState
	}
}

// Predecessor returns the immediate pre-chain-event predecessor (§3.2). Idle
// is its own predecessor, the fixed point the rollback walk terminates on.
func (s HeadState) Predecessor() HeadState {
	switch s.Phase() {
	case PhaseInitial:
		return s.initial.Predecessor
	case PhaseOpen:
		return s.open.Predecessor
	case PhaseClosed:
		return s.closed.Predecessor
	default:
		return s
	}
}

// IdleState is the base phase (§3.2).
type IdleState struct {
	ChainState headtypes.ChainStateInfo
}

// NewIdle wraps an IdleState into a HeadState. Idle's predecessor is itself.
func NewIdle(chainState headtypes.ChainStateInfo) HeadState {
	return HeadState{idle: &IdleState{ChainState: chainState}}
}

// Idle returns the IdleState and true if s is in the Idle phase.
func (s HeadState) Idle() (IdleState, bool) {
	if s.idle == nil {
		return IdleState{}, false
	}
	return *s.idle, true
}

// InitialState is the Initial phase (§3.2).
type InitialState struct {
	Parameters     headtypes.HeadParameters
	PendingCommits map[headtypes.PartyKey]headtypes.Party
	Committed      map[headtypes.PartyKey]headtypes.UTxO
	Predecessor    HeadState
	ChainState     headtypes.ChainStateInfo
}

func NewInitial(in InitialState) HeadState {
	return HeadState{initial: &in}
}

func (s HeadState) Initial() (InitialState, bool) {
	if s.initial == nil {
		return InitialState{}, false
	}
	return *s.initial, true
}

// CommittedUTxOs folds Committed into a single ordered slice, in party-list
// order, for use building an AbortTx payload and for GetUTxO.
func (in InitialState) CommittedUTxOs() []headtypes.UTxO {
	out := make([]headtypes.UTxO, 0, len(in.Committed))
	for _, p := range in.Parameters.Parties {
		if u, ok := in.Committed[p.Key()]; ok {
			out = append(out, u)
		}
	}
	return out
}

// OpenState is the Open phase (§3.2, §3.3).
type OpenState struct {
	Parameters  headtypes.HeadParameters
	Coordinated CoordinatedHeadState
	Predecessor HeadState
	ChainState  headtypes.ChainStateInfo
}

func NewOpen(o OpenState) HeadState {
	return HeadState{open: &o}
}

func (s HeadState) Open() (OpenState, bool) {
	if s.open == nil {
		return OpenState{}, false
	}
	return *s.open, true
}

// ClosedState is the Closed phase (§3.2, §4.6).
type ClosedState struct {
	Parameters           headtypes.HeadParameters
	ConfirmedSnapshot    headtypes.ConfirmedSnapshot
	ContestationDeadline time.Time
	ReadyToFanoutSent    bool
	Predecessor          HeadState
	ChainState           headtypes.ChainStateInfo
}

func NewClosed(c ClosedState) HeadState {
	return HeadState{closed: &c}
}

func (s HeadState) Closed() (ClosedState, bool) {
	if s.closed == nil {
		return ClosedState{}, false
	}
	return *s.closed, true
}

// CoordinatedHeadState holds the off-chain ledger view of an Open head
// (§3.3).
type CoordinatedHeadState struct {
	SeenUTxO          headtypes.UTxO
	SeenTxs           []headtypes.Tx
	ConfirmedSnapshot headtypes.ConfirmedSnapshot
	SeenSnapshot      headtypes.SeenSnapshot
}

// InitialCoordinatedHeadState builds the coordinated state for a freshly
// opened head, per §4.3 OnCollectComTx: u0, no seen txs, the initial
// snapshot, no in-flight snapshot round.
func InitialCoordinatedHeadState(u0 headtypes.UTxO) CoordinatedHeadState {
	return CoordinatedHeadState{
		SeenUTxO:          u0,
		SeenTxs:           nil,
		ConfirmedSnapshot: headtypes.InitialConfirmedSnapshot(u0),
		SeenSnapshot:      headtypes.NoSeenSnapshot(),
	}
}
