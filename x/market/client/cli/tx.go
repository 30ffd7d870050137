package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/market/types"
)

const flagDeposit = "deposit"

// GetTxCmd returns the transaction commands for the market module
func GetTxCmd() *cobra.Command {
	marketTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Market transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	marketTxCmd.AddCommand(
		CmdCreateBid(),
		CmdCloseBid(),
		CmdCloseLease(),
	)

	return marketTxCmd
}

func parseOrderID(args []string) (types.OrderID, error) {
	dseq, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return types.OrderID{}, fmt.Errorf("invalid dseq %q: %w", args[1], err)
	}

	gseq, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return types.OrderID{}, fmt.Errorf("invalid gseq %q: %w", args[2], err)
	}

	oseq, err := strconv.ParseUint(args[3], 10, 32)
	if err != nil {
		return types.OrderID{}, fmt.Errorf("invalid oseq %q: %w", args[3], err)
	}

	return types.OrderID{
		Owner: args[0],
		DSeq:  dseq,
		GSeq:  uint32(gseq),
		OSeq:  uint32(oseq),
	}, nil
}

// CmdCreateBid returns a CLI command handler for bidding on an order
func CmdCreateBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid [owner] [dseq] [gseq] [oseq] [price]",
		Short: "Bid on an open order",
		Long: `Bid on an open order as a provider. The price is the per-block rate
offered and must not exceed the order's maximum; the deposit backs the bid
and is returned when the bid loses or the resulting lease ends.

Example:
  $ velad tx market bid vela1tenant... 1 1 1 8uvela --deposit 1000uvela --from provider`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			orderID, err := parseOrderID(args)
			if err != nil {
				return err
			}

			price, err := sdk.ParseCoinNormalized(args[4])
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[4], err)
			}

			depositStr, err := cmd.Flags().GetString(flagDeposit)
			if err != nil {
				return err
			}
			deposit, err := sdk.ParseCoinNormalized(depositStr)
			if err != nil {
				return fmt.Errorf("invalid deposit %q: %w", depositStr, err)
			}

			msg := types.NewMsgCreateBid(orderID, clientCtx.GetFromAddress().String(), price, deposit)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagDeposit, sdk.NewInt64Coin(types.DefaultBondDenom, types.DefaultMinBidDepositAmount).String(), "Deposit backing the bid")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCloseBid returns a CLI command handler for closing a bid
func CmdCloseBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-bid [owner] [dseq] [gseq] [oseq]",
		Short: "Close your bid on an order",
		Long: `Close the sending provider's bid. An open bid is withdrawn with its
deposit; a winning bid walks away from its lease, which settles and closes
while the group is re-listed for other providers.

Example:
  $ velad tx market close-bid vela1tenant... 1 1 1 --from provider`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			orderID, err := parseOrderID(args)
			if err != nil {
				return err
			}

			msg := types.NewMsgCloseBid(types.MakeBidID(orderID, clientCtx.GetFromAddress().String()))
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCloseLease returns a CLI command handler for closing a lease
func CmdCloseLease() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-lease [owner] [dseq] [gseq] [oseq] [provider]",
		Short: "Close a lease",
		Long: `Close a lease as its tenant or provider. The lease settles one final
time at this block and the group closes with it.

Example:
  $ velad tx market close-lease vela1tenant... 1 1 1 vela1provider... --from tenant`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			orderID, err := parseOrderID(args)
			if err != nil {
				return err
			}

			msg := types.NewMsgCloseLease(types.MakeBidID(orderID, args[4]), clientCtx.GetFromAddress().String())
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
