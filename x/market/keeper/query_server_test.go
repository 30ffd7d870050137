package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	marketkeeper "github.com/vela-grid/vela/x/market/keeper"
	"github.com/vela-grid/vela/x/market/types"
)

// queryFixture matches one lease and leaves a second order open with one
// losing-priced bid still pending.
func queryFixture(t *testing.T) (*marketSuite, types.QueryServer, types.Order, types.Order, types.BidID) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	provider := testAddr(2)
	leaseID, matched := s.matchLease(owner, provider, 10, 1000)

	other := testAddr(3)
	s.fund(other, uvela(5000))
	open := s.createDeployment(s.at(12), other, uvela(30), uvela(1000))

	qs := marketkeeper.NewQueryServerImpl(*s.f.Market)
	return s, qs, matched, open, leaseID
}

func TestQueryOrder(t *testing.T) {
	s, qs, matched, _, _ := queryFixture(t)

	resp, err := qs.Order(s.f.Ctx, &types.QueryOrderRequest{
		Owner: matched.ID.Owner,
		DSeq:  matched.ID.DSeq,
		GSeq:  matched.ID.GSeq,
		OSeq:  matched.ID.OSeq,
	})
	require.NoError(t, err)
	require.Equal(t, types.OrderStateActive, resp.Order.State)
	require.Len(t, resp.Bids, 1)
	require.Equal(t, types.BidStateActive, resp.Bids[0].State)

	_, err = qs.Order(s.f.Ctx, &types.QueryOrderRequest{
		Owner: matched.ID.Owner,
		DSeq:  42,
		GSeq:  1,
		OSeq:  1,
	})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = qs.Order(s.f.Ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestQueryOrders(t *testing.T) {
	s, qs, matched, open, _ := queryFixture(t)

	all, err := qs.Orders(s.f.Ctx, &types.QueryOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, all.Orders, 2)

	byOwner, err := qs.Orders(s.f.Ctx, &types.QueryOrdersRequest{Owner: matched.ID.Owner})
	require.NoError(t, err)
	require.Len(t, byOwner.Orders, 1)
	require.Equal(t, matched.ID, byOwner.Orders[0].ID)

	byState, err := qs.Orders(s.f.Ctx, &types.QueryOrdersRequest{State: "open"})
	require.NoError(t, err)
	require.Len(t, byState.Orders, 1)
	require.Equal(t, open.ID, byState.Orders[0].ID)

	byDeployment, err := qs.Orders(s.f.Ctx, &types.QueryOrdersRequest{Owner: open.ID.Owner, DSeq: open.ID.DSeq})
	require.NoError(t, err)
	require.Len(t, byDeployment.Orders, 1)

	// A dseq filter without an owner is ambiguous.
	_, err = qs.Orders(s.f.Ctx, &types.QueryOrdersRequest{DSeq: 1})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = qs.Orders(s.f.Ctx, &types.QueryOrdersRequest{State: "pending"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestQueryBids(t *testing.T) {
	s, qs, matched, _, leaseID := queryFixture(t)

	resp, err := qs.Bid(s.f.Ctx, &types.QueryBidRequest{
		Owner:    leaseID.Owner,
		DSeq:     leaseID.DSeq,
		GSeq:     leaseID.GSeq,
		OSeq:     leaseID.OSeq,
		Provider: leaseID.Provider,
	})
	require.NoError(t, err)
	require.Equal(t, types.BidStateActive, resp.Bid.State)

	bids, err := qs.Bids(s.f.Ctx, &types.QueryBidsRequest{
		Owner: matched.ID.Owner,
		DSeq:  matched.ID.DSeq,
		GSeq:  matched.ID.GSeq,
		OSeq:  matched.ID.OSeq,
	})
	require.NoError(t, err)
	require.Len(t, bids.Bids, 1)

	none, err := qs.Bids(s.f.Ctx, &types.QueryBidsRequest{
		Owner: matched.ID.Owner,
		DSeq:  matched.ID.DSeq,
		GSeq:  matched.ID.GSeq,
		OSeq:  matched.ID.OSeq,
		State: "lost",
	})
	require.NoError(t, err)
	require.Empty(t, none.Bids)

	_, err = qs.Bid(s.f.Ctx, &types.QueryBidRequest{
		Owner:    matched.ID.Owner,
		DSeq:     matched.ID.DSeq,
		GSeq:     matched.ID.GSeq,
		OSeq:     matched.ID.OSeq,
		Provider: testAddr(9).String(),
	})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestQueryLeases(t *testing.T) {
	s, qs, matched, _, leaseID := queryFixture(t)

	resp, err := qs.Lease(s.f.Ctx, &types.QueryLeaseRequest{
		Owner:    leaseID.Owner,
		DSeq:     leaseID.DSeq,
		GSeq:     leaseID.GSeq,
		OSeq:     leaseID.OSeq,
		Provider: leaseID.Provider,
	})
	require.NoError(t, err)
	require.Equal(t, types.LeaseStateActive, resp.Lease.State)

	byOwner, err := qs.Leases(s.f.Ctx, &types.QueryLeasesRequest{Owner: matched.ID.Owner})
	require.NoError(t, err)
	require.Len(t, byOwner.Leases, 1)

	byProvider, err := qs.Leases(s.f.Ctx, &types.QueryLeasesRequest{Provider: leaseID.Provider})
	require.NoError(t, err)
	require.Len(t, byProvider.Leases, 1)

	byState, err := qs.Leases(s.f.Ctx, &types.QueryLeasesRequest{Owner: matched.ID.Owner, State: "closed"})
	require.NoError(t, err)
	require.Empty(t, byState.Leases)

	// One of owner or provider is required.
	_, err = qs.Leases(s.f.Ctx, &types.QueryLeasesRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestQueryParams(t *testing.T) {
	s, qs, _, _, _ := queryFixture(t)

	resp, err := qs.Params(s.f.Ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), resp.Params)
}
