package network

import (
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/p2p"

	"headnode/headtypes"
)

const (
	// HeadChannel carries every gossip Message of §6.3: ReqTx, ReqSn, AckSn.
	HeadChannel = byte(0x50)

	maxMsgSize = 1 << 20

	inboxCapacity         = 256
	notificationsCapacity = 64
)

// Reactor is the p2p.Reactor that gossips the Head's peer-to-peer vocabulary
// (§6.3) across the party set, grounded on the teacher's mempool/consensus
// reactors: one channel, Switch.Broadcast for outbound, Receive for inbound.
type Reactor struct {
	p2p.BaseReactor

	inbox         chan headtypes.Event
	notifications chan headtypes.ServerOutput
}

func NewReactor() *Reactor {
	r := &Reactor{
		inbox:         make(chan headtypes.Event, inboxCapacity),
		notifications: make(chan headtypes.ServerOutput, notificationsCapacity),
	}
	r.BaseReactor = *p2p.NewBaseReactor("Head", r)
	return r
}

func (r *Reactor) SetLogger(l log.Logger) {
	r.Logger = l
}

func (r *Reactor) OnStart() error {
	return nil
}

func (r *Reactor) OnStop() {}

// GetChannels implements p2p.Reactor.
func (r *Reactor) GetChannels() []*p2p.ChannelDescriptor {
	return []*p2p.ChannelDescriptor{
		{
			ID:                  HeadChannel,
			Priority:            10,
			SendQueueCapacity:   100,
			RecvMessageCapacity: maxMsgSize,
		},
	}
}

func (r *Reactor) InitPeer(peer p2p.Peer) p2p.Peer {
	return peer
}

// AddPeer implements p2p.Reactor. A peer coming up is a transport notice
// only (§6.3): it is handed to the client API, never to the core.
func (r *Reactor) AddPeer(peer p2p.Peer) {
	r.notify(headtypes.OutputPeerConnected, string(peer.ID()))
}

// RemovePeer implements p2p.Reactor.
func (r *Reactor) RemovePeer(peer p2p.Peer, reason interface{}) {
	r.notify(headtypes.OutputPeerDisconnected, string(peer.ID()))
}

func (r *Reactor) notify(kind headtypes.ServerOutputKind, nodeID string) {
	out := headtypes.ServerOutput{Kind: kind, NodeID: nodeID}
	select {
	case r.notifications <- out:
	case <-r.Quit():
	}
}

// Receive implements p2p.Reactor: a malformed message is logged and dropped,
// never forwarded to the core (the core has no InvalidEvent response for
// garbage bytes, only for well-formed but ill-timed messages, §7).
func (r *Reactor) Receive(chID byte, src p2p.Peer, msgBytes []byte) {
	msg, err := decodeMessage(msgBytes)
	if err != nil {
		r.Logger.Error("dropping undecodable gossip message", "src", src.ID(), "err", err)
		return
	}

	select {
	case r.inbox <- headtypes.NewNetworkEvent(msg):
	case <-r.Quit():
	}
}

// Broadcast sends msg to every connected peer on the head channel, and also
// loops it back into this node's own inbox: per the gossip contract, every
// party -- sender included -- eventually consumes a NetworkEvent for msg, so
// a lone broadcasting leader still processes its own ReqSn/AckSn the same
// way a peer receiving it over the wire would (p2p.Switch.Broadcast only
// reaches other connected peers, never the sender).
func (r *Reactor) Broadcast(msg headtypes.Message) error {
	bz, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	r.Switch.Broadcast(HeadChannel, bz)

	select {
	case r.inbox <- headtypes.NewNetworkEvent(msg):
	case <-r.Quit():
	}
	return nil
}

// Inbox yields NetworkEvents decoded from peer gossip, ready for the node's
// event loop (§4.1, §5).
func (r *Reactor) Inbox() <-chan headtypes.Event {
	return r.inbox
}

// Notifications yields peer-connectivity ServerOutputs destined for the
// client API, bypassing the transition core entirely.
func (r *Reactor) Notifications() <-chan headtypes.ServerOutput {
	return r.notifications
}
