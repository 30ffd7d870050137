package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/vela-grid/vela/x/cert/types"
)

// GetTxCmd returns the transaction commands for the cert module
func GetTxCmd() *cobra.Command {
	certTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Certificate transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	certTxCmd.AddCommand(
		CmdIssueCertificate(),
		CmdRevokeCertificate(),
	)

	return certTxCmd
}

// CmdIssueCertificate returns a CLI command handler for issuing a certificate
func CmdIssueCertificate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue [pubkey-pem-file] [validity]",
		Short: "Issue a certificate for the sending account",
		Long: `Issue a certificate binding a PKIX public key to the sending account.
The validity argument is a Go duration capped by the module's maximum.

Example:
  $ velad tx cert issue ./provider.pem 2160h --from provider`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			pemBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read pubkey file: %w", err)
			}

			if err := types.ValidatePubKeyPEM(string(pemBytes)); err != nil {
				return err
			}

			validity, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("invalid validity duration %q: %w", args[1], err)
			}
			if validity <= 0 {
				return fmt.Errorf("validity must be positive")
			}

			msg := types.NewMsgIssueCertificate(
				clientCtx.GetFromAddress().String(),
				string(pemBytes),
				time.Now().UTC().Add(validity),
			)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRevokeCertificate returns a CLI command handler for revoking a certificate
func CmdRevokeCertificate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke [serial]",
		Short: "Revoke one of the sending account's certificates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			serial, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid serial %q: %w", args[0], err)
			}

			msg := types.NewMsgRevokeCertificate(clientCtx.GetFromAddress().String(), serial)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
