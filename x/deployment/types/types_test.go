package types_test

import (
	"bytes"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/x/deployment/types"
)

func testAddr(b byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20)).String()
}

func validGroupSpec() types.GroupSpec {
	return types.GroupSpec{
		Name: "web",
		Resources: []types.Resource{
			{CPU: 500, Memory: 512 << 20, Storage: 1 << 30, Count: 2},
		},
		MaxPrice: sdk.NewInt64Coin("uvela", 10),
		PlacementAttributes: []types.Attribute{
			{Key: "region", Value: "eu-west"},
		},
	}
}

func TestDeploymentIDValidate(t *testing.T) {
	owner := testAddr(1)

	testCases := []struct {
		name  string
		id    types.DeploymentID
		valid bool
	}{
		{"valid", types.DeploymentID{Owner: owner, DSeq: 1}, true},
		{"bad owner", types.DeploymentID{Owner: "vela1garbage", DSeq: 1}, false},
		{"zero dseq", types.DeploymentID{Owner: owner, DSeq: 0}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.id.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestGroupSpecValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*types.GroupSpec)
		valid  bool
	}{
		{"valid", func(*types.GroupSpec) {}, true},
		{"empty name", func(gs *types.GroupSpec) { gs.Name = "" }, false},
		{"no resources", func(gs *types.GroupSpec) { gs.Resources = nil }, false},
		{"zero cpu", func(gs *types.GroupSpec) { gs.Resources[0].CPU = 0 }, false},
		{"zero memory", func(gs *types.GroupSpec) { gs.Resources[0].Memory = 0 }, false},
		{"zero count", func(gs *types.GroupSpec) { gs.Resources[0].Count = 0 }, false},
		{"zero price", func(gs *types.GroupSpec) { gs.MaxPrice.Amount = sdk.ZeroInt() }, false},
		{"empty attribute key", func(gs *types.GroupSpec) { gs.PlacementAttributes[0].Key = "" }, false},
		{
			"duplicate attribute key",
			func(gs *types.GroupSpec) {
				gs.PlacementAttributes = append(gs.PlacementAttributes, types.Attribute{Key: "region", Value: "us-east"})
			},
			false,
		},
		{"gpu only resource is fine", func(gs *types.GroupSpec) { gs.Resources[0].GPU = 4 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gs := validGroupSpec()
			tc.mutate(&gs)

			err := gs.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, types.ErrInvalidGroupSpec)
			}
		})
	}
}

func TestEscrowAccountID(t *testing.T) {
	owner := testAddr(1)
	id := types.DeploymentID{Owner: owner, DSeq: 7}

	accountID := id.EscrowAccountID()
	require.Equal(t, "deployment", accountID.Scope)
	require.Equal(t, owner+"/7", accountID.XID)
}

func TestTotalMaxPrice(t *testing.T) {
	groups := []types.GroupSpec{
		fixtureWithPrice(10),
		fixtureWithPrice(25),
		fixtureWithPrice(5),
	}

	total := types.TotalMaxPrice(groups)
	require.Equal(t, sdk.NewInt64Coin("uvela", 40), total)
}

func fixtureWithPrice(amount int64) types.GroupSpec {
	gs := validGroupSpec()
	gs.MaxPrice = sdk.NewInt64Coin("uvela", amount)
	return gs
}

func TestMsgCreateDeploymentValidateBasic(t *testing.T) {
	owner := testAddr(1)

	valid := func() *types.MsgCreateDeployment {
		return types.NewMsgCreateDeployment(owner, []types.GroupSpec{validGroupSpec()}, sdk.NewInt64Coin("uvela", 5000))
	}

	testCases := []struct {
		name   string
		mutate func(*types.MsgCreateDeployment)
		valid  bool
	}{
		{"valid", func(*types.MsgCreateDeployment) {}, true},
		{"bad owner", func(m *types.MsgCreateDeployment) { m.Owner = "nope" }, false},
		{"no groups", func(m *types.MsgCreateDeployment) { m.Groups = nil }, false},
		{"zero deposit", func(m *types.MsgCreateDeployment) { m.Deposit = sdk.NewInt64Coin("uvela", 0) }, false},
		{
			"deposit denom differs from price denom",
			func(m *types.MsgCreateDeployment) { m.Deposit = sdk.NewInt64Coin("uatom", 5000) },
			false,
		},
		{
			"duplicate group names",
			func(m *types.MsgCreateDeployment) { m.Groups = append(m.Groups, m.Groups[0]) },
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := valid()
			tc.mutate(msg)

			err := msg.ValidateBasic()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestMsgCloseDeploymentSigners(t *testing.T) {
	owner := testAddr(1)
	msg := types.NewMsgCloseDeployment(types.DeploymentID{Owner: owner, DSeq: 3})

	require.NoError(t, msg.ValidateBasic())
	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, owner, signers[0].String())
}
