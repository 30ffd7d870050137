package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/vela-grid/vela/testutil/keeper"
	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	"github.com/vela-grid/vela/x/market/types"
)

func testGenesisState(owner, provider sdk.AccAddress) *types.GenesisState {
	closedOrder := types.Order{
		ID:        types.OrderID{Owner: owner.String(), DSeq: 1, GSeq: 1, OSeq: 1},
		State:     types.OrderStateClosed,
		MaxPrice:  uvela(10),
		CreatedAt: 1,
		WindowEnd: 11,
	}
	activeOrder := types.Order{
		ID:              types.OrderID{Owner: owner.String(), DSeq: 1, GSeq: 1, OSeq: 2},
		State:           types.OrderStateActive,
		MaxPrice:        uvela(10),
		CreatedAt:       15,
		WindowEnd:       25,
		MatchedProvider: provider.String(),
	}
	bid := types.Bid{
		ID:        types.MakeBidID(activeOrder.ID, provider.String()),
		Price:     uvela(8),
		Deposit:   uvela(1000),
		State:     types.BidStateActive,
		CreatedAt: 16,
	}
	lease := types.Lease{
		ID:        bid.ID,
		Price:     uvela(8),
		State:     types.LeaseStateActive,
		CreatedAt: 25,
		SettledAt: 30,
		TotalPaid: uvela(40),
	}

	params := types.DefaultParams()
	params.BidDuration = 20

	return &types.GenesisState{
		Params: params,
		Orders: []types.Order{closedOrder, activeOrder},
		Bids:   []types.Bid{bid},
		Leases: []types.Lease{lease},
	}
}

func TestGenesisRoundTrip(t *testing.T) {
	f := testkeeper.MarketKeeper(t)
	owner := testAddr(1)
	provider := testAddr(2)

	genesis := testGenesisState(owner, provider)
	require.NoError(t, f.Market.InitGenesis(f.Ctx, *genesis))

	exported := f.Market.ExportGenesis(f.Ctx)
	require.Equal(t, genesis.Params, exported.Params)
	require.Equal(t, genesis.Orders, exported.Orders)
	require.Equal(t, genesis.Bids, exported.Bids)
	require.Equal(t, genesis.Leases, exported.Leases)

	// A second import of the export reproduces the same state.
	f2 := testkeeper.MarketKeeper(t)
	require.NoError(t, f2.Market.InitGenesis(f2.Ctx, *exported))
	require.Equal(t, exported, f2.Market.ExportGenesis(f2.Ctx))
}

func TestGenesisRebuildsOrderCounters(t *testing.T) {
	f := testkeeper.MarketKeeper(t)
	owner := testAddr(1)
	provider := testAddr(2)

	require.NoError(t, f.Market.InitGenesis(f.Ctx, *testGenesisState(owner, provider)))

	// The next listing for the imported group continues the sequence.
	group := deploymenttypes.Group{
		ID:    deploymenttypes.GroupID{Owner: owner.String(), DSeq: 1, GSeq: 1},
		State: deploymenttypes.GroupStateOpen,
		Spec: deploymenttypes.GroupSpec{
			Name:      "compute",
			Resources: []deploymenttypes.Resource{{CPU: 1000, Memory: 1 << 30, Storage: 10 << 30, Count: 1}},
			MaxPrice:  uvela(10),
		},
	}
	require.NoError(t, f.Market.CreateOrder(f.Ctx, group))

	orders := f.Market.GetOrdersByOwner(f.Ctx, owner.String())
	require.Len(t, orders, 3)
	require.Equal(t, uint32(3), orders[2].ID.OSeq)
}

func TestGenesisRestoresIndexes(t *testing.T) {
	f := testkeeper.MarketKeeper(t)
	owner := testAddr(1)
	provider := testAddr(2)

	require.NoError(t, f.Market.InitGenesis(f.Ctx, *testGenesisState(owner, provider)))

	// Provider and live-lease indexes answer lookups after import.
	leases := f.Market.GetLeasesByProvider(f.Ctx, provider.String())
	require.Len(t, leases, 1)
	require.Equal(t, uvela(8), leases[0].Price)

	require.Len(t, f.Market.GetLeasesByOwner(f.Ctx, owner.String()), 1)
}

func TestGenesisRejectsInvalidState(t *testing.T) {
	f := testkeeper.MarketKeeper(t)
	owner := testAddr(1)
	provider := testAddr(2)

	genesis := testGenesisState(owner, provider)
	genesis.Orders[1].MaxPrice = uvela(0)

	require.Error(t, f.Market.InitGenesis(f.Ctx, *genesis))
}
