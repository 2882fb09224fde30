package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/LeJamon/nftmarketd/internal/config"
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_handlers"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
	uuid "github.com/nu7hatch/gouuid"
	"github.com/spf13/cobra"
)

var (
	rpcURL     string
	rpcTimeout time.Duration

	submitKey    string
	submitCaller string
	submitFunds  string
)

// rpcCmd calls any method of a running daemon
var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [params-json]",
	Short: "Call an RPC method of a running daemon",
	Long: `Call an RPC method of a running daemon and print the result.

Examples:
  marketd rpc market_state
  marketd rpc listing '{"collection":"punks","token_id":"7"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params interface{}
		if len(args) == 2 {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(args[1]), &obj); err != nil {
				return fmt.Errorf("params must be a JSON object: %w", err)
			}
			params = obj
		}
		result, err := newRPCClient(rpcURL, rpcTimeout).Call(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

// submitCmd signs and submits one command
var submitCmd = &cobra.Command{
	Use:   "submit <command.json|->",
	Short: "Sign and submit a market command",
	Long: `Submit a command object, tagged with its "command" name, read from a file
or stdin. With --key the command is signed and the signer is the caller.

Example:
  echo '{"command":"Buy","collection":"punks","token_id":"7"}' | \
    marketd submit - --key buyer.key.json --funds 100unft`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		request, err := buildSubmitRequest(raw, submitKey, submitCaller, submitFunds)
		if err != nil {
			return err
		}
		result, err := newRPCClient(rpcURL, rpcTimeout).Call(cmd.Context(), "submit", request)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

// buildSubmitRequest assembles the submit parameters. The command is
// parsed first so that malformed input never reaches the daemon.
func buildSubmitRequest(raw []byte, keyPath, caller, funds string) (*rpc_handlers.SubmitRequest, error) {
	cmd, err := market.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	coin, err := parseFunds(funds)
	if err != nil {
		return nil, err
	}

	request := &rpc_handlers.SubmitRequest{Command: raw, Caller: caller}
	if coin.Denom != "" {
		request.Funds = &rpc_types.CoinParam{Denom: coin.Denom, Amount: coin.Amount.String()}
	}
	if keyPath == "" {
		return request, nil
	}

	keys, err := readKeyFile(keyPath)
	if err != nil {
		return nil, err
	}
	nonce, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	request.SignedEnvelope, err = rpc_types.Sign(keys, cmd, coin, nonce.String())
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	request.Caller = ""
	return request, nil
}

// parseFunds parses "<amount><denom>", e.g. "100unft". Empty means none.
func parseFunds(s string) (market.Coin, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return market.Coin{}, nil
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return market.Coin{}, fmt.Errorf("invalid funds %q: want <amount><denom>", s)
	}
	amt, err := amount.Parse(s[:i])
	if err != nil {
		return market.Coin{}, fmt.Errorf("invalid funds %q: %w", s, err)
	}
	return market.Coin{Denom: s[i:], Amount: amt}, nil
}

func readInput(stdin io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(arg)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	for _, cmd := range []*cobra.Command{rpcCmd, submitCmd} {
		cmd.Flags().StringVar(&rpcURL, "rpc", "http://"+config.DefaultRPCAddress+"/", "RPC endpoint of the daemon")
		cmd.Flags().DurationVar(&rpcTimeout, "timeout", 30*time.Second, "request timeout")
		rootCmd.AddCommand(cmd)
	}
	submitCmd.Flags().StringVar(&submitKey, "key", "", "key file used to sign the command")
	submitCmd.Flags().StringVar(&submitCaller, "caller", "", "caller account for unsigned submissions")
	submitCmd.Flags().StringVar(&submitFunds, "funds", "", "attached funds, e.g. 100unft")
}
