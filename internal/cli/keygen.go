package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/crypto"
	"github.com/spf13/cobra"
)

var keyType string

var keygenCmd = &cobra.Command{
	Use:   "keygen [passphrase]",
	Short: "Derive an account keypair",
	Long: `Derive an account keypair. With a passphrase the keypair is the one the
ledger derives for that passphrase (the master account uses the configured
master_passphrase). Without one a random seed is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kt := crypto.ParseKeyType(keyType)
		if kt == crypto.KeyTypeUnknown {
			return fmt.Errorf("invalid key type: %s (valid options: secp256k1, ed25519)", keyType)
		}

		var seed []byte
		if len(args) == 1 {
			seed = genesis.SeedFromPassphrase(args[0])
		} else {
			var err error
			if seed, err = crypto.RandomSeed(); err != nil {
				return err
			}
		}

		kp, err := crypto.DeriveKeyPair(seed, kt)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(keygenResult{
			Account:   crypto.EncodeAccountID(kp.AccountID()),
			KeyType:   kt.String(),
			PublicKey: strings.ToUpper(hex.EncodeToString(kp.PublicKey)),
			Seed:      strings.ToUpper(hex.EncodeToString(seed)),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

type keygenResult struct {
	Account   string `json:"account"`
	KeyType   string `json:"key_type"`
	PublicKey string `json:"public_key"`
	Seed      string `json:"seed"`
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVar(&keyType, "key-type", "secp256k1", "secp256k1 or ed25519")
}
