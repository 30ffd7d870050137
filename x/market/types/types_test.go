package types_test

import (
	"bytes"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	"github.com/vela-grid/vela/x/market/types"
)

func testAddr(b byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20)).String()
}

func validOrderID() types.OrderID {
	return types.OrderID{Owner: testAddr(1), DSeq: 1, GSeq: 1, OSeq: 1}
}

func validBidID() types.BidID {
	return types.MakeBidID(validOrderID(), testAddr(2))
}

func TestOrderIDValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*types.OrderID)
		valid  bool
	}{
		{"valid", func(*types.OrderID) {}, true},
		{"bad owner", func(id *types.OrderID) { id.Owner = "vela1garbage" }, false},
		{"zero dseq", func(id *types.OrderID) { id.DSeq = 0 }, false},
		{"zero gseq", func(id *types.OrderID) { id.GSeq = 0 }, false},
		{"zero oseq", func(id *types.OrderID) { id.OSeq = 0 }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := validOrderID()
			tc.mutate(&id)
			err := id.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestBidIDValidate(t *testing.T) {
	id := validBidID()
	require.NoError(t, id.Validate())

	id.Provider = "not-an-address"
	require.Error(t, id.Validate())
}

func TestIDDerivations(t *testing.T) {
	group := deploymenttypes.GroupID{Owner: testAddr(1), DSeq: 3, GSeq: 2}
	orderID := types.MakeOrderID(group, 4)
	require.Equal(t, group, orderID.GroupID())
	require.Equal(t, deploymenttypes.DeploymentID{Owner: testAddr(1), DSeq: 3}, orderID.DeploymentID())

	bidID := types.MakeBidID(orderID, testAddr(2))
	require.Equal(t, orderID, bidID.OrderID())
	require.Equal(t, orderID.DeploymentID(), bidID.DeploymentID())

	// The bid escrow account is scoped to the full bid tuple.
	account := bidID.EscrowAccountID()
	other := types.MakeBidID(orderID, testAddr(3)).EscrowAccountID()
	require.NotEqual(t, account, other)
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "open", types.OrderStateOpen.String())
	require.Equal(t, "active", types.OrderStateActive.String())
	require.Equal(t, "closed", types.OrderStateClosed.String())
	require.Equal(t, "unspecified", types.OrderStateUnspecified.String())

	require.Equal(t, "open", types.BidStateOpen.String())
	require.Equal(t, "active", types.BidStateActive.String())
	require.Equal(t, "lost", types.BidStateLost.String())
	require.Equal(t, "closed", types.BidStateClosed.String())

	require.Equal(t, "active", types.LeaseStateActive.String())
	require.Equal(t, "insufficient_funds", types.LeaseStateInsufficientFunds.String())
	require.Equal(t, "closed", types.LeaseStateClosed.String())
}

func TestOrderValidate(t *testing.T) {
	valid := types.Order{
		ID:        validOrderID(),
		State:     types.OrderStateOpen,
		MaxPrice:  sdk.NewInt64Coin("uvela", 10),
		CreatedAt: 1,
		WindowEnd: 11,
	}

	testCases := []struct {
		name   string
		mutate func(*types.Order)
		valid  bool
	}{
		{"valid open", func(*types.Order) {}, true},
		{
			"valid active",
			func(o *types.Order) {
				o.State = types.OrderStateActive
				o.MatchedProvider = testAddr(2)
			},
			true,
		},
		{"unknown state", func(o *types.Order) { o.State = types.OrderState(99) }, false},
		{"zero price", func(o *types.Order) { o.MaxPrice.Amount = sdk.ZeroInt() }, false},
		{"window before creation", func(o *types.Order) { o.WindowEnd = o.CreatedAt }, false},
		{"active without provider", func(o *types.Order) { o.State = types.OrderStateActive }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order := valid
			tc.mutate(&order)
			err := order.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestBidValidate(t *testing.T) {
	valid := types.Bid{
		ID:        validBidID(),
		Price:     sdk.NewInt64Coin("uvela", 8),
		Deposit:   sdk.NewInt64Coin("uvela", 1000),
		State:     types.BidStateOpen,
		CreatedAt: 2,
	}

	testCases := []struct {
		name   string
		mutate func(*types.Bid)
		valid  bool
	}{
		{"valid", func(*types.Bid) {}, true},
		{"unknown state", func(b *types.Bid) { b.State = types.BidState(99) }, false},
		{"zero price", func(b *types.Bid) { b.Price.Amount = sdk.ZeroInt() }, false},
		{"bad provider", func(b *types.Bid) { b.ID.Provider = "nope" }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bid := valid
			tc.mutate(&bid)
			err := bid.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestLeaseValidate(t *testing.T) {
	valid := types.Lease{
		ID:        validBidID(),
		Price:     sdk.NewInt64Coin("uvela", 8),
		State:     types.LeaseStateActive,
		CreatedAt: 11,
		SettledAt: 16,
		TotalPaid: sdk.NewInt64Coin("uvela", 40),
	}

	testCases := []struct {
		name   string
		mutate func(*types.Lease)
		valid  bool
	}{
		{"valid", func(*types.Lease) {}, true},
		{
			"valid insufficient",
			func(l *types.Lease) {
				l.State = types.LeaseStateInsufficientFunds
				l.InsufficientAt = 20
			},
			true,
		},
		{"unknown state", func(l *types.Lease) { l.State = types.LeaseState(99) }, false},
		{"zero price", func(l *types.Lease) { l.Price.Amount = sdk.ZeroInt() }, false},
		{"checkpoint precedes creation", func(l *types.Lease) { l.SettledAt = 5 }, false},
		{"insufficient without entry height", func(l *types.Lease) { l.State = types.LeaseStateInsufficientFunds }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lease := valid
			tc.mutate(&lease)
			err := lease.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestLeaseLive(t *testing.T) {
	lease := types.Lease{State: types.LeaseStateActive}
	require.True(t, lease.Live())

	lease.State = types.LeaseStateInsufficientFunds
	require.True(t, lease.Live())

	lease.State = types.LeaseStateClosed
	require.False(t, lease.Live())
}

func TestGenesisStateValidate(t *testing.T) {
	owner := testAddr(1)
	provider := testAddr(2)

	base := func() types.GenesisState {
		order := types.Order{
			ID:              types.OrderID{Owner: owner, DSeq: 1, GSeq: 1, OSeq: 1},
			State:           types.OrderStateActive,
			MaxPrice:        sdk.NewInt64Coin("uvela", 10),
			CreatedAt:       1,
			WindowEnd:       11,
			MatchedProvider: provider,
		}
		bid := types.Bid{
			ID:        types.MakeBidID(order.ID, provider),
			Price:     sdk.NewInt64Coin("uvela", 8),
			Deposit:   sdk.NewInt64Coin("uvela", 1000),
			State:     types.BidStateActive,
			CreatedAt: 2,
		}
		lease := types.Lease{
			ID:        bid.ID,
			Price:     sdk.NewInt64Coin("uvela", 8),
			State:     types.LeaseStateActive,
			CreatedAt: 11,
			SettledAt: 11,
			TotalPaid: sdk.NewInt64Coin("uvela", 0),
		}
		return types.GenesisState{
			Params: types.DefaultParams(),
			Orders: []types.Order{order},
			Bids:   []types.Bid{bid},
			Leases: []types.Lease{lease},
		}
	}

	require.NoError(t, types.DefaultGenesis().Validate())
	require.NoError(t, base().Validate())

	testCases := []struct {
		name   string
		mutate func(*types.GenesisState)
	}{
		{"bad params", func(gs *types.GenesisState) { gs.Params.BidDuration = 0 }},
		{"duplicate order", func(gs *types.GenesisState) { gs.Orders = append(gs.Orders, gs.Orders[0]) }},
		{"duplicate bid", func(gs *types.GenesisState) { gs.Bids = append(gs.Bids, gs.Bids[0]) }},
		{"orphan bid", func(gs *types.GenesisState) { gs.Orders = nil }},
		{"orphan lease", func(gs *types.GenesisState) { gs.Bids = nil }},
		{
			"two live leases on one order",
			func(gs *types.GenesisState) {
				second := gs.Leases[0]
				second.ID.Provider = testAddr(3)
				secondBid := gs.Bids[0]
				secondBid.ID.Provider = testAddr(3)
				gs.Bids = append(gs.Bids, secondBid)
				gs.Leases = append(gs.Leases, second)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gs := base()
			tc.mutate(&gs)
			require.Error(t, gs.Validate())
		})
	}
}

func TestMsgCreateBidValidateBasic(t *testing.T) {
	valid := func() *types.MsgCreateBid {
		return types.NewMsgCreateBid(validOrderID(), testAddr(2), sdk.NewInt64Coin("uvela", 8), sdk.NewInt64Coin("uvela", 1000))
	}

	testCases := []struct {
		name   string
		mutate func(*types.MsgCreateBid)
		valid  bool
	}{
		{"valid", func(*types.MsgCreateBid) {}, true},
		{"bad order id", func(m *types.MsgCreateBid) { m.Order.OSeq = 0 }, false},
		{"bad provider", func(m *types.MsgCreateBid) { m.Provider = "nope" }, false},
		{"bid on own order", func(m *types.MsgCreateBid) { m.Provider = m.Order.Owner }, false},
		{"zero price", func(m *types.MsgCreateBid) { m.Price = sdk.NewInt64Coin("uvela", 0) }, false},
		{"zero deposit", func(m *types.MsgCreateBid) { m.Deposit = sdk.NewInt64Coin("uvela", 0) }, false},
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

func TestMsgCloseLeaseValidateBasic(t *testing.T) {
	id := validBidID()

	testCases := []struct {
		name   string
		sender string
		valid  bool
	}{
		{"tenant closes", id.Owner, true},
		{"provider closes", id.Provider, true},
		{"third party", testAddr(9), false},
		{"bad sender", "nope", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := types.NewMsgCloseLease(id, tc.sender).ValidateBasic()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestMsgSigners(t *testing.T) {
	bidID := validBidID()

	createSigners := types.NewMsgCreateBid(bidID.OrderID(), bidID.Provider, sdk.NewInt64Coin("uvela", 8), sdk.NewInt64Coin("uvela", 1000)).GetSigners()
	require.Len(t, createSigners, 1)
	require.Equal(t, bidID.Provider, createSigners[0].String())

	closeSigners := types.NewMsgCloseBid(bidID).GetSigners()
	require.Len(t, closeSigners, 1)
	require.Equal(t, bidID.Provider, closeSigners[0].String())

	leaseSigners := types.NewMsgCloseLease(bidID, bidID.Owner).GetSigners()
	require.Len(t, leaseSigners, 1)
	require.Equal(t, bidID.Owner, leaseSigners[0].String())
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	params := types.DefaultParams()
	params.BidDuration = 0
	require.Error(t, params.Validate())

	params = types.DefaultParams()
	params.SettlementInterval = -1
	require.Error(t, params.Validate())

	params = types.DefaultParams()
	params.MinBidDeposit = sdk.Coin{Denom: "uvela", Amount: sdkmath.NewInt(-5)}
	require.Error(t, params.Validate())
}
