package headtypes

// OutcomeKind discriminates the four shapes a transition may return (§4.1).
// The Outcome type itself lives in package head, since it must also carry a
// HeadState value and headtypes cannot import head without a cycle.
type OutcomeKind uint8

const (
	OutcomeOnlyEffects OutcomeKind = iota
	OutcomeNewState
	OutcomeWait
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOnlyEffects:
		return "OnlyEffects"
	case OutcomeNewState:
		return "NewState"
	case OutcomeWait:
		return "Wait"
	case OutcomeError:
		return "Error"
	default:
		return "UnknownOutcome"
	}
}
