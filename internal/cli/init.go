package cli

import (
	"fmt"
	"path/filepath"

	"github.com/LeJamon/nftmarketd/internal/config"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/spf13/cobra"
)

var (
	initOwner        string
	initFeeRecipient string
	initMarket       string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long: `Write a default configuration to the --config path. Accounts not given
as flags get a fresh key pair stored next to the configuration
(owner.key.json, market.key.json). The fee recipient defaults to the owner.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Dir(configFile)
		owner, err := accountOrNewKey(initOwner, filepath.Join(dir, "owner.key.json"))
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
		marketAddr, err := accountOrNewKey(initMarket, filepath.Join(dir, "market.key.json"))
		if err != nil {
			return fmt.Errorf("market: %w", err)
		}
		feeRecipient := initFeeRecipient
		if feeRecipient == "" {
			feeRecipient = owner
		} else if !crypto.IsValidAddress(feeRecipient) {
			return fmt.Errorf("fee recipient is not a valid account: %q", feeRecipient)
		}

		if err := config.WriteDefault(configFile, marketAddr, owner, feeRecipient); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wrote %s\n", configFile)
		fmt.Fprintf(out, "  owner:         %s\n", owner)
		fmt.Fprintf(out, "  market:        %s\n", marketAddr)
		fmt.Fprintf(out, "  fee recipient: %s\n", feeRecipient)
		return nil
	},
}

// accountOrNewKey returns addr when set, otherwise the address of a new
// key pair written to keyPath.
func accountOrNewKey(addr, keyPath string) (string, error) {
	if addr != "" {
		if !crypto.IsValidAddress(addr) {
			return "", fmt.Errorf("not a valid account: %q", addr)
		}
		return addr, nil
	}
	keys, err := crypto.GenerateKeyPair()
	if err != nil {
		return "", err
	}
	if err := writeKeyFile(keyPath, keys); err != nil {
		return "", err
	}
	return keys.Address(), nil
}

func init() {
	initCmd.Flags().StringVar(&initOwner, "owner", "", "owner account (generated if empty)")
	initCmd.Flags().StringVar(&initFeeRecipient, "fee-recipient", "", "fee recipient account (owner if empty)")
	initCmd.Flags().StringVar(&initMarket, "market", "", "market custody account (generated if empty)")
	rootCmd.AddCommand(initCmd)
}
