package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"ledgerd/common"
)

var keyOutPath string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a keypair and print its ledger address",
	Run: func(cmd *cobra.Command, args []string) {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			log.Fatalf("Failed to generate keypair: %v", err)
		}

		address := common.EncodeBytesToBase58(pub)
		fmt.Println("address:", address)

		if keyOutPath != "" {
			if err := os.WriteFile(keyOutPath, []byte(hex.EncodeToString(priv)), 0600); err != nil {
				log.Fatalf("Failed to write private key: %v", err)
			}
			fmt.Println("private key written to", keyOutPath)
		} else {
			fmt.Println("private key:", hex.EncodeToString(priv))
		}
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keyOutPath, "out", "o", "", "File to write the private key to (hex)")
}
