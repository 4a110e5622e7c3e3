package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"headnode/headcrypto"
)

// ShowKeyCmd dumps this node's head verification key, generating one first
// if none exists yet.
var ShowKeyCmd = &cobra.Command{
	Use:     "show-key",
	Aliases: []string{"show_key"},
	Short:   "Show this node's head verification key",
	RunE:    showKey,
}

func showKey(cmd *cobra.Command, args []string) error {
	k, err := headcrypto.LoadOrGenFileKey(headKeyFile())
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(k.PubKey))
	return nil
}
