package network

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/p2p/mock"

	"headnode/headtypes"
)

func TestReceiveDecodesValidMessage(t *testing.T) {
	r := NewReactor()
	r.SetLogger(log.TestingLogger())

	msg := headtypes.Message{Kind: headtypes.MsgReqTx}
	bz, err := encodeMessage(msg)
	require.NoError(t, err)

	peer := mock.NewPeer(net.IP{127, 0, 0, 1})
	r.Receive(HeadChannel, peer, bz)

	select {
	case event := <-r.Inbox():
		assert.Equal(t, headtypes.EventNetwork, event.Kind)
		assert.Equal(t, headtypes.MsgReqTx, event.Message.Kind)
		assert.Equal(t, headtypes.DefaultTTL, event.TTL)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for decoded event")
	}
}

func TestReceiveDropsUndecodableBytes(t *testing.T) {
	r := NewReactor()
	r.SetLogger(log.TestingLogger())

	peer := mock.NewPeer(net.IP{127, 0, 0, 1})
	r.Receive(HeadChannel, peer, []byte("not json"))

	select {
	case event := <-r.Inbox():
		t.Fatalf("expected no event, got %v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAddPeerNotifiesConnected(t *testing.T) {
	r := NewReactor()
	r.SetLogger(log.TestingLogger())

	peer := mock.NewPeer(net.IP{127, 0, 0, 1})
	r.AddPeer(peer)

	select {
	case out := <-r.Notifications():
		assert.Equal(t, headtypes.OutputPeerConnected, out.Kind)
		assert.Equal(t, string(peer.ID()), out.NodeID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for connected notification")
	}
}

func TestRemovePeerNotifiesDisconnected(t *testing.T) {
	r := NewReactor()
	r.SetLogger(log.TestingLogger())

	peer := mock.NewPeer(net.IP{127, 0, 0, 1})
	r.RemovePeer(peer, "test")

	select {
	case out := <-r.Notifications():
		assert.Equal(t, headtypes.OutputPeerDisconnected, out.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for disconnected notification")
	}
}
