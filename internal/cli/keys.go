package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/spf13/cobra"
)

// KeyFile is the on-disk form of an account key pair.
type KeyFile struct {
	Address    string `json:"address"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// writeKeyFile stores keys at path. An existing file is never replaced.
func writeKeyFile(path string, keys *crypto.KeyPair) error {
	data, err := json.MarshalIndent(KeyFile{
		Address:    keys.Address(),
		PublicKey:  keys.PublicKeyHex(),
		PrivateKey: keys.PrivateKeyHex(),
	}, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("key file already exists: %s", path)
		}
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readKeyFile loads a key pair and checks it against the stored address.
func readKeyFile(path string) (*crypto.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kf KeyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", path, err)
	}
	keys, err := crypto.KeyPairFromHex(kf.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", path, err)
	}
	if kf.Address != "" && kf.Address != keys.Address() {
		return nil, fmt.Errorf("key file %s: address %s does not match private key", path, kf.Address)
	}
	return keys, nil
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage account keys",
}

var keysNewCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Generate a key pair and write it to file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := crypto.GenerateKeyPair()
		if err != nil {
			return err
		}
		if err := writeKeyFile(args[0], keys); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), keys.Address())
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the address and public key of a key file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := readKeyFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "address:    %s\n", keys.Address())
		fmt.Fprintf(out, "public_key: %s\n", keys.PublicKeyHex())
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysNewCmd, keysShowCmd)
	rootCmd.AddCommand(keysCmd)
}
