package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/vela-grid/vela/x/deployment/types"
)

const flagState = "state"

// GetQueryCmd returns the cli query commands for the deployment module
func GetQueryCmd() *cobra.Command {
	deploymentQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the deployment module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	deploymentQueryCmd.AddCommand(
		GetCmdQueryDeployment(),
		GetCmdQueryDeployments(),
		GetCmdQueryGroup(),
		GetCmdQueryParams(),
	)

	return deploymentQueryCmd
}

// GetCmdQueryDeployment returns the command to query one deployment with its groups
func GetCmdQueryDeployment() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [owner] [dseq]",
		Short: "Query a deployment and its groups",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			dseq, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dseq %q: %w", args[1], err)
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Deployment(context.Background(), &types.QueryDeploymentRequest{
				Owner: args[0],
				DSeq:  dseq,
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

// GetCmdQueryDeployments returns the command to list an owner's deployments
func GetCmdQueryDeployments() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [owner]",
		Short: "Query all deployments of an owner, optionally filtered by state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
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
			res, err := queryClient.Deployments(context.Background(), &types.QueryDeploymentsRequest{
				Owner:      args[0],
				State:      state,
				Pagination: pageReq,
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	cmd.Flags().String(flagState, "", "Filter by deployment state (active|closed)")
	flags.AddQueryFlagsToCmd(cmd)
	flags.AddPaginationFlagsToCmd(cmd, "deployments")
	return cmd
}

// GetCmdQueryGroup returns the command to query one group
func GetCmdQueryGroup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group [owner] [dseq] [gseq]",
		Short: "Query a deployment group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			dseq, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dseq %q: %w", args[1], err)
			}

			gseq, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid gseq %q: %w", args[2], err)
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Group(context.Background(), &types.QueryGroupRequest{
				Owner: args[0],
				DSeq:  dseq,
				GSeq:  uint32(gseq),
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

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the current deployment module parameters",
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
