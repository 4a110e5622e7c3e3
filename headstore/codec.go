package headstore

import (
	"time"

	"headnode/head"
	"headnode/headtypes"
)

// wireState mirrors head.HeadState's four-variant shape with exported
// fields and an explicit Predecessor pointer, since HeadState itself keeps
// its variant pointers unexported (§3.2 "values are never mutated in
// place"). Only the variant matching Phase is non-nil.
type wireState struct {
	Phase head.Phase

	Idle    *head.IdleState `json:",omitempty"`
	Initial *wireInitial    `json:",omitempty"`
	Open    *wireOpen       `json:",omitempty"`
	Closed  *wireClosed     `json:",omitempty"`
}

type wireInitial struct {
	Parameters     headtypes.HeadParameters
	PendingCommits map[headtypes.PartyKey]headtypes.Party
	Committed      map[headtypes.PartyKey]headtypes.UTxO
	Predecessor    *wireState
	ChainState     headtypes.ChainStateInfo
}

type wireOpen struct {
	Parameters  headtypes.HeadParameters
	Coordinated head.CoordinatedHeadState
	Predecessor *wireState
	ChainState  headtypes.ChainStateInfo
}

type wireClosed struct {
	Parameters           headtypes.HeadParameters
	ConfirmedSnapshot    headtypes.ConfirmedSnapshot
	ContestationDeadline time.Time
	ReadyToFanoutSent    bool
	Predecessor          *wireState
	ChainState           headtypes.ChainStateInfo
}

func encodeState(s head.HeadState) *wireState {
	switch s.Phase() {
	case head.PhaseInitial:
		in, _ := s.Initial()
		return &wireState{
			Phase: head.PhaseInitial,
			Initial: &wireInitial{
				Parameters:     in.Parameters,
				PendingCommits: in.PendingCommits,
				Committed:      in.Committed,
				Predecessor:    encodeState(in.Predecessor),
				ChainState:     in.ChainState,
			},
		}
	case head.PhaseOpen:
		o, _ := s.Open()
		return &wireState{
			Phase: head.PhaseOpen,
			Open: &wireOpen{
				Parameters:  o.Parameters,
				Coordinated: o.Coordinated,
				Predecessor: encodeState(o.Predecessor),
				ChainState:  o.ChainState,
			},
		}
	case head.PhaseClosed:
		c, _ := s.Closed()
		return &wireState{
			Phase: head.PhaseClosed,
			Closed: &wireClosed{
				Parameters:           c.Parameters,
				ConfirmedSnapshot:    c.ConfirmedSnapshot,
				ContestationDeadline: c.ContestationDeadline,
				ReadyToFanoutSent:    c.ReadyToFanoutSent,
				Predecessor:          encodeState(c.Predecessor),
				ChainState:           c.ChainState,
			},
		}
	default:
		idle, _ := s.Idle()
		return &wireState{Phase: head.PhaseIdle, Idle: &idle}
	}
}

func decodeState(w *wireState) head.HeadState {
	if w == nil {
		return head.HeadState{}
	}
	switch w.Phase {
	case head.PhaseInitial:
		return head.NewInitial(head.InitialState{
			Parameters:     w.Initial.Parameters,
			PendingCommits: w.Initial.PendingCommits,
			Committed:      w.Initial.Committed,
			Predecessor:    decodeState(w.Initial.Predecessor),
			ChainState:     w.Initial.ChainState,
		})
	case head.PhaseOpen:
		return head.NewOpen(head.OpenState{
			Parameters:  w.Open.Parameters,
			Coordinated: w.Open.Coordinated,
			Predecessor: decodeState(w.Open.Predecessor),
			ChainState:  w.Open.ChainState,
		})
	case head.PhaseClosed:
		return head.NewClosed(head.ClosedState{
			Parameters:           w.Closed.Parameters,
			ConfirmedSnapshot:    w.Closed.ConfirmedSnapshot,
			ContestationDeadline: w.Closed.ContestationDeadline,
			ReadyToFanoutSent:    w.Closed.ReadyToFanoutSent,
			Predecessor:          decodeState(w.Closed.Predecessor),
			ChainState:           w.Closed.ChainState,
		})
	default:
		return head.NewIdle(w.Idle.ChainState)
	}
}
