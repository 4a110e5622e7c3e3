package node

import (
	"strings"
	"time"

	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/p2p/conn"
	"github.com/pkg/errors"

	"headnode/chainwatch"
	"headnode/clientapi"
	"headnode/head"
	"headnode/headstore"
	"headnode/headtypes"
	"headnode/metrics"
	"headnode/network"
)

const (
	clientInputQueue = 64
	requeueQueue     = 64

	// requeueBackoff is how long a Wait outcome's event sits before being
	// re-presented to the core (§4.1, §4.4/§4.5). A fixed backoff is the
	// simplest policy that still lets the blocking condition (a missing
	// ReqSn, an out-of-order tx) resolve between attempts.
	requeueBackoff = 50 * time.Millisecond
)

var errNodeStopped = errors.New("node: stopped")

// Node is the long-running process for one Head participant: it owns the
// p2p transport carrying the gossip reactor, the settlement chain client,
// the client-facing API server, durable storage, and the single goroutine
// that serializes every event into head.Transition.
type Node struct {
	service.BaseService

	config *cfg.Config

	env    headtypes.Environment
	ledger headtypes.Ledger
	crypto headtypes.Crypto

	transport *p2p.MultiplexTransport
	sw        *p2p.Switch
	nodeKey   *p2p.NodeKey
	reactor   *network.Reactor

	chain   chainwatch.Client
	api     *clientapi.Server
	store   *headstore.Store
	metrics *metrics.Metrics

	mtx   chan struct{} // 1-buffered mutex guarding state; see lock/unlock
	state head.HeadState

	clientInputCh chan headtypes.ClientInput
	requeueCh     chan headtypes.Event
}

// New assembles a Node from its configuration, capabilities, and shells.
// Start must be called before it does anything.
func New(
	config *cfg.Config,
	nodeKey *p2p.NodeKey,
	logger log.Logger,
	env headtypes.Environment,
	ledger headtypes.Ledger,
	crypto headtypes.Crypto,
	chain chainwatch.Client,
	store *headstore.Store,
	m *metrics.Metrics,
) (*Node, error) {
	reactor := network.NewReactor()
	reactor.SetLogger(logger.With("module", "network"))

	nodeInfo, err := makeNodeInfo(config, nodeKey)
	if err != nil {
		return nil, errors.WithMessage(err, "building node info")
	}

	transport := createTransport(nodeInfo, nodeKey)
	sw := createSwitch(config, transport, reactor, nodeInfo, nodeKey, logger.With("module", "p2p"))

	chain.SetLogger(logger.With("module", "chain"))

	apiEnv := &clientapi.Environment{Metrics: m}
	api := clientapi.NewServer(logger.With("module", "clientapi"), apiEnv)

	n := &Node{
		config:        config,
		env:           env,
		ledger:        ledger,
		crypto:        crypto,
		transport:     transport,
		sw:            sw,
		nodeKey:       nodeKey,
		reactor:       reactor,
		chain:         chain,
		api:           api,
		store:         store,
		metrics:       m,
		mtx:           make(chan struct{}, 1),
		clientInputCh: make(chan headtypes.ClientInput, clientInputQueue),
		requeueCh:     make(chan headtypes.Event, requeueQueue),
	}
	n.mtx <- struct{}{}
	n.BaseService = *service.NewBaseService(logger, "Node", n)

	apiEnv.Submit = n.Submit
	apiEnv.Snapshot = n.Snapshot

	return n, nil
}

func (n *Node) lock()   { <-n.mtx }
func (n *Node) unlock() { n.mtx <- struct{}{} }

func createTransport(nodeInfo p2p.NodeInfo, nodeKey *p2p.NodeKey) *p2p.MultiplexTransport {
	mConnConfig := conn.DefaultMConnConfig()
	return p2p.NewMultiplexTransport(nodeInfo, *nodeKey, mConnConfig)
}

func createSwitch(
	config *cfg.Config,
	transport p2p.Transport,
	reactor *network.Reactor,
	nodeInfo p2p.NodeInfo,
	nodeKey *p2p.NodeKey,
	p2pLogger log.Logger,
) *p2p.Switch {
	sw := p2p.NewSwitch(config.P2P, transport)
	sw.SetLogger(p2pLogger)
	sw.AddReactor("HEAD", reactor)
	sw.SetNodeInfo(nodeInfo)
	sw.SetNodeKey(nodeKey)

	p2pLogger.Info("p2p node ID", "ID", nodeKey.ID(), "file", config.NodeKeyFile())
	return sw
}

// makeNodeInfo builds the NodeInfo this node advertises to peers, using the
// minimal NodeInfo implementation (NewNodeInfo) rather than tendermint's
// DefaultNodeInfo: a Head gossips one channel and carries no block-sync
// metadata, so the fuller validator/version negotiation DefaultNodeInfo
// exists for has nothing to report.
func makeNodeInfo(config *cfg.Config, nodeKey *p2p.NodeKey) (p2p.NodeInfo, error) {
	laddr := config.P2P.ExternalAddress
	if laddr == "" {
		laddr = config.P2P.ListenAddress
	}
	return NewNodeInfo(nodeKey.ID(), laddr)
}

// OnStart implements service.BaseService: recover durable state, bring up
// the p2p transport and switch, the chain client, and the client API
// server, then start the single dispatch loop.
func (n *Node) OnStart() error {
	state, err := n.store.Load()
	if err != nil {
		return err
	}
	n.lock()
	n.state = state
	n.unlock()

	addr, err := p2p.NewNetAddressString(p2p.IDAddressString(n.nodeKey.ID(), n.config.P2P.ListenAddress))
	if err != nil {
		return err
	}
	if err := n.transport.Listen(*addr); err != nil {
		return err
	}
	if err := n.sw.Start(); err != nil {
		return err
	}
	if err := n.sw.DialPeersAsync(splitAndTrimEmpty(n.config.P2P.PersistentPeers, ",", " ")); err != nil {
		return errors.WithMessage(err, "could not dial peers from persistent_peers field")
	}

	if err := n.chain.Start(); err != nil {
		return err
	}
	if err := n.api.Start(n.config.RPC.ListenAddress); err != nil {
		return err
	}

	go n.loop()
	return nil
}

func (n *Node) OnStop() {
	n.lock()
	state := n.state
	n.unlock()
	if err := n.store.Save(state); err != nil {
		n.Logger.Error("failed to persist head state on stop", "err", err)
	}

	if err := n.sw.Stop(); err != nil {
		n.Logger.Error("failed to stop switch", "err", err)
	}
	if err := n.transport.Close(); err != nil {
		n.Logger.Error("failed to close transport", "err", err)
	}
	if err := n.chain.Stop(); err != nil {
		n.Logger.Error("failed to stop chain client", "err", err)
	}
	if err := n.api.Stop(); err != nil {
		n.Logger.Error("failed to stop client API server", "err", err)
	}
}

// Submit hands a client intent to the event loop (clientapi.Environment.Submit).
func (n *Node) Submit(input headtypes.ClientInput) error {
	select {
	case n.clientInputCh <- input:
		return nil
	case <-n.Quit():
		return errNodeStopped
	}
}

// Snapshot reports the current off-chain UTxO view for GetUTxO, without
// going through the event loop (clientapi.Environment.Snapshot).
func (n *Node) Snapshot() headtypes.UTxO {
	n.lock()
	defer n.unlock()

	switch n.state.Phase() {
	case head.PhaseOpen:
		o, _ := n.state.Open()
		return o.Coordinated.SeenUTxO
	case head.PhaseInitial:
		in, _ := n.state.Initial()
		return n.ledger.Combine(in.CommittedUTxOs())
	default:
		return nil
	}
}

// loop is the node's single serialization point: every event source is
// select'd here and fed to the core one at a time, mirroring
// ConsensusState.recieveRoutine in the teacher repo.
func (n *Node) loop() {
	for {
		select {
		case <-n.Quit():
			return

		case input := <-n.clientInputCh:
			n.process(headtypes.NewClientEvent(input))

		case event := <-n.reactor.Inbox():
			n.process(event)

		case out := <-n.reactor.Notifications():
			// Connection lifecycle notices never reach the core (§6.3).
			n.api.Publish(out)

		case occ := <-n.chain.Events():
			n.process(chainOccurrenceToEvent(occ))

		case event := <-n.requeueCh:
			n.process(event)
		}
	}
}

func chainOccurrenceToEvent(occ chainwatch.ChainOccurrence) headtypes.Event {
	if occ.PostTxError != nil {
		return headtypes.Event{Kind: headtypes.EventPostTxError, PostTxError: *occ.PostTxError}
	}
	return headtypes.Event{Kind: headtypes.EventOnChain, ChainEvent: *occ.ChainEvent}
}

func (n *Node) process(event headtypes.Event) {
	n.lock()
	outcome := head.Transition(n.env, n.ledger, n.crypto, n.state, event)
	n.metrics.EventsProcessed.Inc(1)

	switch outcome.Kind {
	case headtypes.OutcomeNewState:
		n.state, outcome.Effects = head.ApplyEmitter(n.env, outcome.State, outcome.Effects)
		if err := n.store.Save(n.state); err != nil {
			n.Logger.Error("failed to persist head state", "err", err)
		}
		n.unlock()
		n.dispatch(outcome.Effects)

	case headtypes.OutcomeOnlyEffects:
		n.unlock()
		n.dispatch(outcome.Effects)

	case headtypes.OutcomeWait:
		n.unlock()
		n.Logger.Debug("deferring event", "reason", outcome.Wait)
		n.requeue(event)

	case headtypes.OutcomeError:
		n.unlock()
		n.metrics.InvalidEvents.Inc(1)
		n.Logger.Error("transition rejected event", "err", outcome.Err, "event", event.Kind)
	}
}

// requeue re-presents event to the loop after requeueBackoff with its
// re-enqueue budget (§4.1) decremented, so a NetworkEvent is delivered once
// more with TTL 0 and the core can report it expired. An event that still
// waits after being delivered with TTL 0 is dropped.
func (n *Node) requeue(event headtypes.Event) {
	if event.Expired() {
		n.Logger.Info("dropping expired event", "kind", event.Kind)
		return
	}
	next := event.Requeue()
	time.AfterFunc(requeueBackoff, func() {
		select {
		case n.requeueCh <- next:
		case <-n.Quit():
		}
	})
}

func (n *Node) dispatch(effects []headtypes.Effect) {
	for _, effect := range effects {
		switch effect.Kind {
		case headtypes.EffectClient:
			n.metrics.RecordOutput(effect.ServerOutput.Kind)
			n.api.Publish(effect.ServerOutput)

		case headtypes.EffectNetwork:
			if err := n.reactor.Broadcast(effect.Message); err != nil {
				n.Logger.Error("failed to broadcast gossip message", "err", err)
			}

		case headtypes.EffectOnChain:
			if err := n.chain.Post(effect.PostedTx); err != nil {
				n.Logger.Error("failed to post on-chain transaction", "err", err)
			}
		}
	}
}

// splitAndTrimEmpty slices s into subslices separated by sep, trims cutset
// from each, and drops empty results -- used to parse the comma-separated
// persistent_peers config field.
func splitAndTrimEmpty(s, sep, cutset string) []string {
	if s == "" {
		return []string{}
	}

	spl := strings.Split(s, sep)
	nonEmptyStrings := make([]string, 0, len(spl))
	for i := 0; i < len(spl); i++ {
		element := strings.Trim(spl[i], cutset)
		if element != "" {
			nonEmptyStrings = append(nonEmptyStrings, element)
		}
	}
	return nonEmptyStrings
}
