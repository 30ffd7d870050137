package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/vela-grid/vela/x/cert/types"
)

// GetQueryCmd returns the cli query commands for the cert module
func GetQueryCmd() *cobra.Command {
	certQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the cert module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	certQueryCmd.AddCommand(
		GetCmdQueryCertificate(),
		GetCmdQueryCertificates(),
		GetCmdQueryValidity(),
		GetCmdQueryParams(),
	)

	return certQueryCmd
}

// GetCmdQueryCertificate returns the command to query one certificate
func GetCmdQueryCertificate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificate [owner] [serial]",
		Short: "Query a certificate by owner and serial",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			serial, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid serial %q: %w", args[1], err)
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Certificate(context.Background(), &types.QueryCertificateRequest{
				Owner:  args[0],
				Serial: serial,
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

// GetCmdQueryCertificates returns the command to list an owner's certificates
func GetCmdQueryCertificates() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificates [owner]",
		Short: "Query all certificates registered by an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pageReq, err := client.ReadPageRequest(cmd.Flags())
			if err != nil {
				return err
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.Certificates(context.Background(), &types.QueryCertificatesRequest{
				Owner:      args[0],
				Pagination: pageReq,
			})
			if err != nil {
				return err
			}

			return clientCtx.PrintProto(res)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	flags.AddPaginationFlagsToCmd(cmd, "certificates")
	return cmd
}

// GetCmdQueryValidity returns the command to check certificate validity
func GetCmdQueryValidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validity [owner] [serial]",
		Short: "Check whether a certificate is valid at the current ledger time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			serial, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid serial %q: %w", args[1], err)
			}

			queryClient := types.NewQueryClient(clientCtx)
			res, err := queryClient.CertificateValidity(context.Background(), &types.QueryCertificateValidityRequest{
				Owner:  args[0],
				Serial: serial,
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
		Short: "Query the current cert module parameters",
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
