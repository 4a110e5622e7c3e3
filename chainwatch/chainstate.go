// Package chainwatch supplies the ChainStateInfo token the head core embeds
// in every phase, the Client capability the shell uses to post
// transactions and follow on-chain observations, and a simulated backend
// for running a Head node without a real settlement chain attached.
package chainwatch

import (
	"encoding/hex"
	"fmt"

	tmjson "github.com/tendermint/tendermint/libs/json"

	"headnode/headtypes"
)

// Registered so a ChainState round-trips wherever it sits behind a
// headtypes.ChainStateInfo field: persisted HeadStates (package headstore).
func init() {
	tmjson.RegisterType(ChainState{}, "head/chainwatch.ChainState")
}

// ChainState is the opaque chain-state token threaded through HeadState
// (§3.2): the slot at which the core last observed the chain, plus the hash
// of the block that produced it, for logging and equality checks.
type ChainState struct {
	Slot      headtypes.Slot
	BlockHash [32]byte
}

var _ headtypes.ChainStateInfo = ChainState{}

func (s ChainState) ChainSlot() headtypes.Slot {
	return s.Slot
}

func (s ChainState) String() string {
	return fmt.Sprintf("%s@%d", hex.EncodeToString(s.BlockHash[:]), s.Slot)
}
