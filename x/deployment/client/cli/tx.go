package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/deployment/types"
)

const flagDeposit = "deposit"

// GetTxCmd returns the transaction commands for the deployment module
func GetTxCmd() *cobra.Command {
	deploymentTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Deployment transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	deploymentTxCmd.AddCommand(
		CmdCreateDeployment(),
		CmdCloseDeployment(),
		CmdDepositDeployment(),
	)

	return deploymentTxCmd
}

// CmdCreateDeployment returns a CLI command handler for creating a deployment
func CmdCreateDeployment() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [groups-file]",
		Short: "Create a deployment from a JSON group specification file",
		Long: `Create a deployment. The groups file holds a JSON array of group
specifications, each naming its resources and the maximum per-block price
the owner will pay for a matching lease.

Example:
  $ velad tx deployment create ./groups.json --deposit 5000uvela --from tenant`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			bz, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read groups file: %w", err)
			}

			var groups []types.GroupSpec
			if err := json.Unmarshal(bz, &groups); err != nil {
				return fmt.Errorf("parse groups file: %w", err)
			}

			depositStr, err := cmd.Flags().GetString(flagDeposit)
			if err != nil {
				return err
			}
			deposit, err := sdk.ParseCoinNormalized(depositStr)
			if err != nil {
				return fmt.Errorf("invalid deposit %q: %w", depositStr, err)
			}

			msg := types.NewMsgCreateDeployment(clientCtx.GetFromAddress().String(), groups, deposit)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagDeposit, sdk.NewInt64Coin(types.DefaultBondDenom, types.DefaultMinDepositAmount).String(), "Deposit backing the deployment's escrow account")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCloseDeployment returns a CLI command handler for closing a deployment
func CmdCloseDeployment() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close [dseq]",
		Short: "Close a deployment you own",
		Long: `Close a deployment owned by the sending account. Open orders are
withdrawn, active leases settle one final time, and the remaining escrow
balance is refunded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			dseq, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dseq %q: %w", args[0], err)
			}

			msg := types.NewMsgCloseDeployment(types.DeploymentID{
				Owner: clientCtx.GetFromAddress().String(),
				DSeq:  dseq,
			})
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDepositDeployment returns a CLI command handler for topping up a
// deployment's escrow account
func CmdDepositDeployment() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [owner] [dseq] [amount]",
		Short: "Deposit funds into a deployment's escrow account",
		Long: `Deposit funds into the escrow account backing a deployment. Any
account may deposit on a deployment's behalf.

Example:
  $ velad tx deployment deposit vela1... 1 1000uvela --from sponsor`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			dseq, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dseq %q: %w", args[1], err)
			}

			amount, err := sdk.ParseCoinNormalized(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			msg := types.NewMsgDepositDeployment(
				types.DeploymentID{Owner: args[0], DSeq: dseq},
				clientCtx.GetFromAddress().String(),
				amount,
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
