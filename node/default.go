package node

import (
	"time"

	"github.com/pkg/errors"
	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/p2p"

	"headnode/chainwatch"
	"headnode/headcrypto"
	"headnode/headstore"
	"headnode/headtypes"
	"headnode/ledger"
	"headnode/metrics"
)

const (
	// defaultTickInterval and defaultCommitDelay drive the bundled SimChain
	// used when no external chain client is wired in (cmd's run-node command
	// has no --chain-rpc flag of its own yet): fast enough that init/close
	// round trips finish in a few seconds.
	defaultTickInterval = 500 * time.Millisecond
	defaultCommitDelay  = 2 * time.Second
)

// Provider builds and returns a new Node, mirroring the teacher's
// nm.DefaultNewNode hook: callers wanting a different ledger, crypto, or
// chain client wire their own Provider instead of patching this one.
type Provider func(config *cfg.Config, nodeKey *p2p.NodeKey, logger log.Logger, env headtypes.Environment) (*Node, error)

// DefaultNewNode assembles a Node using the in-repo ledger, BLS signer,
// simulated chain, and goleveldb-backed store -- the combination cmd's
// run-node command uses unless a caller supplies its own Provider.
func DefaultNewNode(config *cfg.Config, nodeKey *p2p.NodeKey, logger log.Logger, env headtypes.Environment) (*Node, error) {
	priv, ok := env.SigningKey.(headcrypto.PrivKey)
	if !ok {
		return nil, errors.New("node: environment signing key is not a headcrypto.PrivKey")
	}

	chain := chainwatch.NewSimChain(defaultTickInterval, defaultCommitDelay, env.ContestationP)

	store, err := headstore.NewStore("headstate", config.DBDir(), logger.With("module", "store"))
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics()

	return New(config, nodeKey, logger, env, ledger.SimpleLedger{}, headcrypto.NewSigner(priv), chain, store, m)
}
