package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/p2p"

	"headnode/headcrypto"
	"headnode/headtypes"
	"headnode/node"
)

var (
	otherParties       []string
	contestationPeriod time.Duration
)

// NewRunNodeCmd returns the command that loads this node's key material,
// assembles its Environment, and runs it until interrupted -- the head-node
// counterpart of the teacher's run_node command, wired through a Provider so
// callers with their own ledger, crypto, or chain client can swap it out.
func NewRunNodeCmd(newNode node.Provider) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"run", "node"},
		Short:   "Run the head node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(config, newNode)
		},
	}
	cmd.Flags().StringSliceVar(&otherParties, "other-parties", nil,
		"hex-encoded verification keys of the head's other participants")
	cmd.Flags().DurationVar(&contestationPeriod, "contestation-period", 10*time.Second,
		"duration a closing snapshot stays open to contest")
	return cmd
}

func runNode(config *cfg.Config, newNode node.Provider) error {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return fmt.Errorf("failed to load node key: %w", err)
	}

	key, err := headcrypto.LoadOrGenFileKey(headKeyFile())
	if err != nil {
		return fmt.Errorf("failed to load head key: %w", err)
	}

	parties := make([]headtypes.Party, 0, len(otherParties))
	for _, hexKey := range otherParties {
		bz, err := hex.DecodeString(hexKey)
		if err != nil {
			return fmt.Errorf("invalid --other-parties entry %q: %w", hexKey, err)
		}
		parties = append(parties, headtypes.Party{VerificationKey: headcrypto.PubKey(bz)})
	}

	env := headtypes.Environment{
		Party:         headtypes.Party{VerificationKey: key.PubKey},
		SigningKey:    key.PrivKey,
		OtherParties:  parties,
		ContestationP: contestationPeriod,
	}

	n, err := newNode(config, nodeKey, logger, env)
	if err != nil {
		return fmt.Errorf("failed to create node: %w", err)
	}

	if err := n.Start(); err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}
	logger.Info("head node is running", "party", env.Party, "listen", config.P2P.ListenAddress)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	<-sig

	return n.Stop()
}
