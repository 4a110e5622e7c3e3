package commands

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"

	"headnode/headcrypto"
)

// headKeyFile is where this node's signing identity lives, alongside the
// p2p node key tendermint's own config.NodeKeyFile() points at.
func headKeyFile() string {
	return filepath.Join(config.RootDir, "config", "head_key.json")
}

// GenKeyCmd generates this participant's signing keypair.
var GenKeyCmd = &cobra.Command{
	Use:     "gen-key",
	Aliases: []string{"gen_key"},
	Short:   "Generate a new head signing keypair",
	PreRun:  deprecateSnakeCase,
	RunE:    genKey,
}

func genKey(cmd *cobra.Command, args []string) error {
	path := headKeyFile()
	if tmos.FileExists(path) {
		return fmt.Errorf("head key at %s already exists", path)
	}

	k, err := headcrypto.GenFileKey(path)
	if err != nil {
		return err
	}
	if err := k.Save(); err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(k.PubKey))
	return nil
}
