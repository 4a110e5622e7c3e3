// Package network is the gossip shell: it turns headtypes.Message effects
// into wire bytes broadcast to every connected party and turns inbound wire
// bytes back into headtypes.Events for the node's event loop, exactly as
// §6.3/§6.4 describe the peer transport. Connection lifecycle notices
// (Connected/Disconnected) are handled entirely in this package and never
// cross into the transition core (SPEC_FULL.md).
package network

import (
	tmjson "github.com/tendermint/tendermint/libs/json"

	"headnode/headtypes"
)

// encodeMessage serializes a Message for the wire. tmjson is used throughout
// the node for anything that must round-trip through an opaque interface
// field (Tx, UTxO, Signature), matching how the teacher's consensus reactor
// encodes votes and proposals.
func encodeMessage(msg headtypes.Message) ([]byte, error) {
	return tmjson.Marshal(msg)
}

func decodeMessage(bz []byte) (headtypes.Message, error) {
	var msg headtypes.Message
	if err := tmjson.Unmarshal(bz, &msg); err != nil {
		return headtypes.Message{}, err
	}
	return msg, nil
}
