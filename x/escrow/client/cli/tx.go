package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/escrow/types"
)

// GetTxCmd returns the transaction commands for the escrow module
func GetTxCmd() *cobra.Command {
	escrowTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Escrow transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	escrowTxCmd.AddCommand(
		CmdDepositEscrow(),
		CmdWithdrawEscrow(),
	)

	return escrowTxCmd
}

// CmdDepositEscrow returns a CLI command handler for topping up an escrow account
func CmdDepositEscrow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [scope] [xid] [amount]",
		Short: "Deposit funds into an escrow account",
		Long: `Deposit funds into an existing escrow account. Any account may deposit;
the denom must match the account's balance denom.

Example:
  $ velad tx escrow deposit deployment vela1.../1 500uvela --from tenant`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := sdk.ParseCoinNormalized(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			msg := types.NewMsgDepositEscrow(
				types.AccountID{Scope: args[0], XID: args[1]},
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

// CmdWithdrawEscrow returns a CLI command handler for an owner withdrawal
func CmdWithdrawEscrow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [scope] [xid] [amount]",
		Short: "Withdraw funds from an escrow account you own",
		Long: `Withdraw funds from an escrow account owned by the sending account.
While leases draw on the account the withdrawal leaves one settlement
interval of the current rate in reserve; within that cap the payout is
capped at the available balance.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := sdk.ParseCoinNormalized(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			msg := types.NewMsgWithdrawEscrow(
				types.AccountID{Scope: args[0], XID: args[1]},
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
