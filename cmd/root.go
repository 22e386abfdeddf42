package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ledgerd/logx"
)

var rpcURL string

var rootCmd = &cobra.Command{
	Use:   "ledgerd",
	Short: "ledgerd proof-of-work ledger CLI",
	Long:  "Command line interface for running and managing a ledgerd proof-of-work ledger node.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "http://localhost:8545/", "Node RPC endpoint for client commands")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
