package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/vela-grid/vela/x/market/types"
)

const (
	flagState    = "state"
	flagDSeq     = "dseq"
	flagOwner    = "owner"
	flagProvider = "provider"
)

// GetQueryCmd returns the cli query commands for the market module
func GetQueryCmd() *cobra.Command {
	marketQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the market module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	marketQueryCmd.AddCommand(
		GetCmdQueryOrder(),
		GetCmdQueryOrders(),
		GetCmdQueryBid(),
		GetCmdQueryBids(),
		GetCmdQueryLease(),
		GetCmdQueryLeases(),
		GetCmdQueryParams(),
	)

	return marketQueryCmd
}

// GetCmdQueryOrder returns the command to query one order with its bids
func GetCmdQueryOrder() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order [owner] [dseq] [gseq] [oseq]",
		Short: "Query an order and the bids placed on it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			id, err := parseOrderID(args)
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Order(context.Background(), &types.QueryOrderRequest{
				Owner: id.Owner,
				DSeq:  id.DSeq,
				GSeq:  id.GSeq,
				OSeq:  id.OSeq,
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryOrders returns the command to list orders
func GetCmdQueryOrders() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders [owner]",
		Short: "Query orders, optionally narrowed to an owner and filtered by state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			owner := ""
			if len(args) == 1 {
				owner = args[0]
			}

			dseq, err := cmd.Flags().GetUint64(flagDSeq)
			if err != nil {
				return err
			}

			state, err := cmd.Flags().GetString(flagState)
			if err != nil {
				return err
			}

			pageReq, err := client.ReadPageRequest(cmd.Flags())
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Orders(context.Background(), &types.QueryOrdersRequest{
				Owner:      owner,
				DSeq:       dseq,
				State:      state,
				Pagination: pageReq,
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	cmd.Flags().Uint64(flagDSeq, 0, "Restrict to one deployment's orders (requires owner)")
	cmd.Flags().String(flagState, "", "Filter by order state (open|active|closed)")
	flags.AddQueryFlagsToCmd(cmd)
	flags.AddPaginationFlagsToCmd(cmd, "orders")
	return cmd
}

// GetCmdQueryBid returns the command to query one bid
func GetCmdQueryBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid [owner] [dseq] [gseq] [oseq] [provider]",
		Short: "Query a bid",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			id, err := parseOrderID(args)
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Bid(context.Background(), &types.QueryBidRequest{
				Owner:    id.Owner,
				DSeq:     id.DSeq,
				GSeq:     id.GSeq,
				OSeq:     id.OSeq,
				Provider: args[4],
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryBids returns the command to list one order's bids
func GetCmdQueryBids() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bids [owner] [dseq] [gseq] [oseq]",
		Short: "Query the bids placed on an order, optionally filtered by state",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			id, err := parseOrderID(args)
			if err != nil {
				return err
			}

			state, err := cmd.Flags().GetString(flagState)
			if err != nil {
				return err
			}

			pageReq, err := client.ReadPageRequest(cmd.Flags())
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Bids(context.Background(), &types.QueryBidsRequest{
				Owner:      id.Owner,
				DSeq:       id.DSeq,
				GSeq:       id.GSeq,
				OSeq:       id.OSeq,
				State:      state,
				Pagination: pageReq,
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	cmd.Flags().String(flagState, "", "Filter by bid state (open|active|lost|closed)")
	flags.AddQueryFlagsToCmd(cmd)
	flags.AddPaginationFlagsToCmd(cmd, "bids")
	return cmd
}

// GetCmdQueryLease returns the command to query one lease
func GetCmdQueryLease() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lease [owner] [dseq] [gseq] [oseq] [provider]",
		Short: "Query a lease",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			id, err := parseOrderID(args)
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Lease(context.Background(), &types.QueryLeaseRequest{
				Owner:    id.Owner,
				DSeq:     id.DSeq,
				GSeq:     id.GSeq,
				OSeq:     id.OSeq,
				Provider: args[4],
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryLeases returns the command to list leases by tenant or provider
func GetCmdQueryLeases() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leases",
		Short: "Query leases by tenant or provider, optionally filtered by state",
		Long: `Query leases. At least one of --owner and --provider is required.

Examples:
  $ velad query market leases --owner vela1tenant...
  $ velad query market leases --provider vela1provider... --state active`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			owner, err := cmd.Flags().GetString(flagOwner)
			if err != nil {
				return err
			}

			provider, err := cmd.Flags().GetString(flagProvider)
			if err != nil {
				return err
			}

			if owner == "" && provider == "" {
				return fmt.Errorf("either --%s or --%s is required", flagOwner, flagProvider)
			}

			state, err := cmd.Flags().GetString(flagState)
			if err != nil {
				return err
			}

			pageReq, err := client.ReadPageRequest(cmd.Flags())
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Leases(context.Background(), &types.QueryLeasesRequest{
				Owner:      owner,
				Provider:   provider,
				State:      state,
				Pagination: pageReq,
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	cmd.Flags().String(flagOwner, "", "Tenant address to list leases for")
	cmd.Flags().String(flagProvider, "", "Provider address to list leases for")
	cmd.Flags().String(flagState, "", "Filter by lease state (active|insufficient_funds|closed)")
	flags.AddQueryFlagsToCmd(cmd)
	flags.AddPaginationFlagsToCmd(cmd, "leases")
	return cmd
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the current market module parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Params(context.Background(), &types.QueryParamsRequest{})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
