package cmd

import (
	"fmt"
	"os"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const flagFailFast = "fail-fast"

// GetTxBatchCmd returns a command that broadcasts a list of signed
// transaction files sequentially. Providers use it to submit a batch of bids
// or certificate updates in one go.
func GetTxBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [tx-file...]",
		Short: "Broadcast multiple signed transactions",
		Long: `Broadcast signed transaction files sequentially and report the result of
each one. Every file must contain a single signed transaction in JSON
encoding, as produced by 'velad tx sign'.

Example:
  velad tx batch bids/*.json --fail-fast`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			failFast, _ := cmd.Flags().GetBool(flagFailFast)

			// The bar writes to stderr so broadcast results stay parseable
			// on stdout.
			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetDescription("Broadcasting transactions"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			)

			type result struct {
				file   string
				txHash string
				err    error
			}
			results := make([]result, 0, len(args))

			broadcast := func(txFile string) (string, error) {
				txBz, err := os.ReadFile(txFile) // #nosec G304 - tx files are operator supplied
				if err != nil {
					return "", fmt.Errorf("failed to read tx file: %w", err)
				}

				parsedTx, err := clientCtx.TxConfig.TxJSONDecoder()(txBz)
				if err != nil {
					return "", fmt.Errorf("failed to decode tx: %w", err)
				}

				encoded, err := clientCtx.TxConfig.TxEncoder()(parsedTx)
				if err != nil {
					return "", fmt.Errorf("failed to encode tx: %w", err)
				}

				res, err := clientCtx.BroadcastTx(encoded)
				if err != nil {
					return "", fmt.Errorf("broadcast failed: %w", err)
				}
				if res.Code != 0 {
					return res.TxHash, fmt.Errorf("tx rejected with code %d: %s", res.Code, res.RawLog)
				}

				return res.TxHash, nil
			}

			var failed int
			for _, txFile := range args {
				txHash, err := broadcast(txFile)
				if err != nil {
					if failFast {
						return fmt.Errorf("%s: %w", txFile, err)
					}
					failed++
				}
				results = append(results, result{file: txFile, txHash: txHash, err: err})
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())

			for _, res := range results {
				if res.err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAILED %s: %v\n", res.file, res.err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK %s: %s\n", res.file, res.txHash)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d transactions broadcast successfully\n", len(args)-failed, len(args))
			if failed > 0 {
				return fmt.Errorf("%d of %d transactions failed", failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().Bool(flagFailFast, false, "abort on the first failed broadcast")
	flags.AddTxFlagsToCmd(cmd)

	return cmd
}
