package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/vela-grid/vela/testutil/keeper"
	"github.com/vela-grid/vela/x/escrow/types"
)

func TestEscrowGenesisRoundTrip(t *testing.T) {
	k, bk, ctx := keepertest.EscrowKeeper(t)
	owner := testAddr(0x1)
	keepertest.FundAccount(t, ctx, bk, owner, sdk.NewCoins(sdk.NewInt64Coin("uvela", 10000)))

	_, err := k.AccountCreate(ctx, types.DeploymentAccountID(owner.String(), 1), owner, sdk.NewInt64Coin("uvela", 2000))
	require.NoError(t, err)
	_, err = k.AccountCreate(ctx, types.DeploymentAccountID(owner.String(), 2), owner, sdk.NewInt64Coin("uvela", 3000))
	require.NoError(t, err)
	require.NoError(t, k.AccountClose(ctx, types.DeploymentAccountID(owner.String(), 2)))

	exported := k.ExportGenesis(ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Accounts, 2)

	k2, _, ctx2 := keepertest.EscrowKeeper(t)
	require.NoError(t, k2.InitGenesis(ctx2, *exported))

	for _, want := range exported.Accounts {
		got, err := k2.GetAccount(ctx2, want.ID)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// The owner index is rebuilt during import.
	require.Len(t, k2.GetAccountsByOwner(ctx2, owner.String()), 2)
}

func TestEscrowGenesisValidation(t *testing.T) {
	owner := testAddr(0x1).String()

	valid := types.Account{
		ID:        types.DeploymentAccountID(owner, 1),
		Owner:     owner,
		Balance:   sdk.NewInt64Coin("uvela", 100),
		Deposited: sdk.NewInt64Coin("uvela", 100),
		Rate:      sdk.NewInt64Coin("uvela", 0),
		SettledAt: 1,
		State:     types.AccountStateOpen,
	}

	tests := []struct {
		name    string
		mutate  func(*types.GenesisState)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*types.GenesisState) {},
		},
		{
			name: "duplicate account id",
			mutate: func(gs *types.GenesisState) {
				gs.Accounts = append(gs.Accounts, valid)
			},
			wantErr: "duplicate account id",
		},
		{
			name: "balance above lifetime deposits",
			mutate: func(gs *types.GenesisState) {
				gs.Accounts[0].Balance = sdk.NewInt64Coin("uvela", 200)
			},
			wantErr: "balance exceeds lifetime deposits",
		},
		{
			name: "bad params",
			mutate: func(gs *types.GenesisState) {
				gs.Params.WithdrawReserveBlocks = 0
			},
			wantErr: "withdraw reserve blocks",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := types.GenesisState{
				Params:   types.DefaultParams(),
				Accounts: []types.Account{valid},
			}
			tc.mutate(&gs)

			err := gs.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
