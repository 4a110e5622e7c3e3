package main

import (
	"fmt"
	"os"
	"path/filepath"

	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli"

	cmd "headnode/cmd/commands"
	nm "headnode/node"
)

func main() {
	cfg.DefaultTendermintDir = ".headnode"
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.InitFilesCmd,
		cli.NewCompletionCmd(rootCmd, true),
	)

	// NOTE:
	// Users wishing to supply their own ledger, crypto, or chain client can
	// copy this file and use a Provider other than DefaultNewNode.
	nodeFunc := nm.DefaultNewNode

	rootCmd.AddCommand(
		cmd.GenNodeKeyCmd,
		cmd.GenKeyCmd,
		cmd.ShowNodeIDCmd,
		cmd.ShowKeyCmd,
		cmd.NewRunNodeCmd(nodeFunc),
	)
	baseCmd := cli.PrepareBaseCmd(rootCmd, "HEADNODE", os.ExpandEnv(filepath.Join("$HOME", cfg.DefaultTendermintDir)))

	if err := baseCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
