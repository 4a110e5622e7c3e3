package commands

import (
	"github.com/spf13/cobra"

	cfg "github.com/tendermint/tendermint/config"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"

	"headnode/headcrypto"
)

// InitFilesCmd lays down the key material a head node needs before it can
// run: a p2p node key and a head signing key. A head has no genesis block
// to write -- HeadParameters are agreed at Init time between the parties
// gossiping over p2p, not fixed up front on disk.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a head node's key material",
	RunE:  initFiles,
}

func initFiles(cmd *cobra.Command, args []string) error {
	return initFilesWithConfig(config)
}

func initFilesWithConfig(config *cfg.Config) error {
	nodeKeyFile := config.NodeKeyFile()
	if tmos.FileExists(nodeKeyFile) {
		logger.Info("Found node key", "path", nodeKeyFile)
	} else {
		if _, err := p2p.LoadOrGenNodeKey(nodeKeyFile); err != nil {
			return err
		}
		logger.Info("Generated node key", "path", nodeKeyFile)
	}

	keyFile := headKeyFile()
	if tmos.FileExists(keyFile) {
		logger.Info("Found head key", "path", keyFile)
	} else {
		k, err := headcrypto.GenFileKey(keyFile)
		if err != nil {
			return err
		}
		if err := k.Save(); err != nil {
			return err
		}
		logger.Info("Generated head key", "path", keyFile)
	}

	return nil
}
