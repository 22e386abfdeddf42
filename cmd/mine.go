package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var mineRewardAddress string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask a running node to bundle the pool into a new sealed block",
	Run: func(cmd *cobra.Command, args []string) {
		cli := dialRPC(rpcURL)
		defer cli.Close()

		// Nonce search can take a while at higher difficulties.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		var res struct {
			Index   uint64 `json:"index"`
			Hash    string `json:"hash"`
			Nonce   uint64 `json:"nonce"`
			TxCount int    `json:"tx_count"`
		}
		err := cli.CallResult(ctx, "miner.mine", map[string]interface{}{
			"reward_address": mineRewardAddress,
		}, &res)
		if err != nil {
			log.Fatalf("mine failed: %v", err)
		}
		fmt.Printf("sealed block %d hash=%s nonce=%d txs=%d\n", res.Index, res.Hash, res.Nonce, res.TxCount)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVar(&mineRewardAddress, "reward-address", "", "Address credited with the mining reward")
}
