package types_test

import (
	"bytes"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/x/escrow/types"
)

func testOwner() string {
	return sdk.AccAddress(bytes.Repeat([]byte{0x1}, 20)).String()
}

func TestAccountIDValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.AccountID
		wantErr bool
	}{
		{name: "deployment scope", id: types.AccountID{Scope: types.ScopeDeployment, XID: "a/1"}},
		{name: "bid scope", id: types.AccountID{Scope: types.ScopeBid, XID: "a/1/1/1/b"}},
		{name: "unknown scope", id: types.AccountID{Scope: "order", XID: "a"}, wantErr: true},
		{name: "empty xid", id: types.AccountID{Scope: types.ScopeDeployment}, wantErr: true},
		{name: "nul in xid", id: types.AccountID{Scope: types.ScopeDeployment, XID: "a\x00b"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.id.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAccountValidate(t *testing.T) {
	valid := func() types.Account {
		return types.Account{
			ID:        types.DeploymentAccountID(testOwner(), 1),
			Owner:     testOwner(),
			Balance:   sdk.NewInt64Coin("uvela", 100),
			Deposited: sdk.NewInt64Coin("uvela", 150),
			Rate:      sdk.NewInt64Coin("uvela", 10),
			SettledAt: 5,
			State:     types.AccountStateOpen,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*types.Account)
	}{
		{"bad owner", func(a *types.Account) { a.Owner = "nope" }},
		{"balance above deposits", func(a *types.Account) { a.Balance = sdk.NewInt64Coin("uvela", 200) }},
		{"deposited denom mismatch", func(a *types.Account) { a.Deposited = sdk.NewInt64Coin("uatom", 150) }},
		{"rate denom mismatch", func(a *types.Account) { a.Rate = sdk.NewInt64Coin("uatom", 10) }},
		{"negative settled height", func(a *types.Account) { a.SettledAt = -1 }},
		{"unknown state", func(a *types.Account) { a.State = types.AccountState(99) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := valid()
			tc.mutate(&a)
			require.Error(t, a.Validate())
		})
	}
}

func TestAccountIDConstructors(t *testing.T) {
	owner := testOwner()

	dep := types.DeploymentAccountID(owner, 7)
	require.Equal(t, types.ScopeDeployment, dep.Scope)
	require.Equal(t, owner+"/7", dep.XID)

	bid := types.BidAccountID(owner, 7, 1, 2, "provider")
	require.Equal(t, types.ScopeBid, bid.Scope)
	require.Equal(t, owner+"/7/1/2/provider", bid.XID)
}

func TestMsgValidateBasic(t *testing.T) {
	id := types.DeploymentAccountID(testOwner(), 1)

	require.NoError(t, types.NewMsgDepositEscrow(id, testOwner(), sdk.NewInt64Coin("uvela", 10)).ValidateBasic())
	require.NoError(t, types.NewMsgWithdrawEscrow(id, testOwner(), sdk.NewInt64Coin("uvela", 10)).ValidateBasic())

	require.Error(t, types.NewMsgDepositEscrow(id, "bad", sdk.NewInt64Coin("uvela", 10)).ValidateBasic())
	require.Error(t, types.NewMsgDepositEscrow(id, testOwner(), sdk.NewInt64Coin("uvela", 0)).ValidateBasic())
	require.Error(t, types.NewMsgWithdrawEscrow(types.AccountID{}, testOwner(), sdk.NewInt64Coin("uvela", 10)).ValidateBasic())
}

func TestAccountStateString(t *testing.T) {
	require.Equal(t, "open", types.AccountStateOpen.String())
	require.Equal(t, "closed", types.AccountStateClosed.String())
	require.Equal(t, "overdrawn", types.AccountStateOverdrawn.String())
	require.Equal(t, "unspecified", types.AccountStateUnspecified.String())
}
