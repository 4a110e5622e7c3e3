package headtypes

// EventKind discriminates the event vocabulary of §4.1.
type EventKind uint8

const (
	EventClient EventKind = iota
	EventNetwork
	EventOnChain
	EventPostTxError
)

func (k EventKind) String() string {
	switch k {
	case EventClient:
		return "ClientEvent"
	case EventNetwork:
		return "NetworkEvent"
	case EventOnChain:
		return "OnChainEvent"
	case EventPostTxError:
		return "PostTxError"
	default:
		return "UnknownEvent"
	}
}

// Event is the tagged union consumed by the transition function (§4.1).
type Event struct {
	Kind EventKind

	// EventClient
	ClientInput ClientInput

	// EventNetwork
	TTL     int
	Message Message

	// EventOnChain
	ChainEvent ChainEvent

	// EventPostTxError
	PostTxError PostTxError
}

// NewClientEvent wraps a ClientInput.
func NewClientEvent(input ClientInput) Event {
	return Event{Kind: EventClient, ClientInput: input}
}

// NewNetworkEvent wraps a peer Message with the default re-enqueue budget.
func NewNetworkEvent(msg Message) Event {
	return Event{Kind: EventNetwork, TTL: DefaultTTL, Message: msg}
}

// Requeue returns the same NetworkEvent with its TTL decremented, as the
// shell must do each time a Wait outcome causes re-delivery (§5). TTL never
// goes below zero.
func (e Event) Requeue() Event {
	if e.Kind != EventNetwork {
		return e
	}
	next := e
	if next.TTL > 0 {
		next.TTL--
	}
	return next
}

// Expired reports whether a NetworkEvent has exhausted its re-enqueue budget
// (§4.1, §4.4).
func (e Event) Expired() bool {
	return e.Kind == EventNetwork && e.TTL <= 0
}

// EffectKind discriminates the effect vocabulary of §4.1.
type EffectKind uint8

const (
	EffectClient EffectKind = iota
	EffectNetwork
	EffectOnChain
)

func (k EffectKind) String() string {
	switch k {
	case EffectClient:
		return "ClientEffect"
	case EffectNetwork:
		return "NetworkEffect"
	case EffectOnChain:
		return "OnChainEffect"
	default:
		return "UnknownEffect"
	}
}

// Effect is a side effect the transition function asks a shell to enact.
type Effect struct {
	Kind EffectKind

	// EffectClient
	ServerOutput ServerOutput

	// EffectNetwork
	Message Message

	// EffectOnChain. ChainState is the chain-state token to submit the
	// transaction against -- the shell must use exactly this token, not
	// whatever is "current" by the time it dispatches the effect (§5, §4.6
	// Contest-on-close uses the previous chain state deliberately).
	ChainState ChainStateInfo
	PostedTx   PostedTx
}

func ClientEffect(out ServerOutput) Effect {
	return Effect{Kind: EffectClient, ServerOutput: out}
}

func NetworkEffect(msg Message) Effect {
	return Effect{Kind: EffectNetwork, Message: msg}
}

func OnChainEffect(chainState ChainStateInfo, tx PostedTx) Effect {
	return Effect{Kind: EffectOnChain, ChainState: chainState, PostedTx: tx}
}
