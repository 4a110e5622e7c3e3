package chainwatch

import (
	"github.com/tendermint/tendermint/libs/log"

	"headnode/headtypes"
)

// Client is the capability the node shell uses to submit transactions to
// the settlement layer and to receive the three on-chain event shapes the
// core consumes (§4.1, §6.4): Observation, Rollback, Tick.
type Client interface {
	// Post submits a PostedTx for on-chain inclusion. It does not block for
	// confirmation; failure to even broadcast surfaces as a PostTxError
	// occurrence fed back through the same Events channel.
	Post(tx headtypes.PostedTx) error

	// Events returns the channel of ChainEvent/PostTxError occurrences this
	// client has observed since it started following the chain.
	Events() <-chan ChainOccurrence

	SetLogger(logger log.Logger)
	Start() error
	Stop() error
}

// ChainOccurrence is either a ChainEvent destined for an OnChainEvent, or a
// PostTxError destined for a PostTxError event -- the two event shapes a
// Client can produce asynchronously after Post returns.
type ChainOccurrence struct {
	ChainEvent  *headtypes.ChainEvent
	PostTxError *headtypes.PostTxError
}
