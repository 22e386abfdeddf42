package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/spf13/cobra"
)

var (
	submitFrom   string
	submitTo     string
	submitAmount uint64
	submitSig    string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a transaction to a running node",
	Run: func(cmd *cobra.Command, args []string) {
		cli := dialRPC(rpcURL)
		defer cli.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var res struct {
			Ok       bool   `json:"ok"`
			TxHash   string `json:"tx_hash"`
			PoolSize int    `json:"pool_size"`
		}
		err := cli.CallResult(ctx, "tx.submit", map[string]interface{}{
			"from":      submitFrom,
			"to":        submitTo,
			"amount":    submitAmount,
			"signature": submitSig,
		}, &res)
		if err != nil {
			log.Fatalf("submit failed: %v", err)
		}
		fmt.Printf("queued %s, pool size %d\n", res.TxHash, res.PoolSize)
	},
}

func dialRPC(url string) *jrpc2.Client {
	ch := jhttp.NewChannel(url, nil)
	return jrpc2.NewClient(ch, nil)
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVar(&submitFrom, "from", "", "Sender address")
	submitCmd.Flags().StringVar(&submitTo, "to", "", "Recipient address")
	submitCmd.Flags().Uint64Var(&submitAmount, "amount", 0, "Amount to transfer")
	submitCmd.Flags().StringVar(&submitSig, "signature", "", "Optional signature (opaque, unverified)")
}
