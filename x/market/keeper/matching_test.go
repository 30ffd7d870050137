package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	"github.com/vela-grid/vela/x/market/types"
)

// Three bids priced {10, 8, 8} placed at heights {5, 6, 4}: the match picks
// the cheapest price and breaks the tie by earliest placement, so the bid
// priced 8 from height 4 wins.
func TestMatchLowestPriceEarliestWins(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	early := s.certifiedProvider(2)
	pricey := s.certifiedProvider(3)
	late := s.certifiedProvider(4)

	earlyID := s.bid(s.at(4), order.ID, early, uvela(8))
	priceyID := s.bid(s.at(5), order.ID, pricey, uvela(10))
	lateID := s.bid(s.at(6), order.ID, late, uvela(8))

	ctx := s.endBlock(order.WindowEnd)

	lease, err := s.f.Market.GetLease(ctx, earlyID)
	require.NoError(t, err)
	require.Equal(t, types.LeaseStateActive, lease.State)
	require.Equal(t, uvela(8), lease.Price)
	require.Equal(t, order.WindowEnd, lease.CreatedAt)
	require.Equal(t, order.WindowEnd, lease.SettledAt)

	winner, err := s.f.Market.GetBid(ctx, earlyID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateActive, winner.State)

	for _, loser := range []types.BidID{priceyID, lateID} {
		bid, err := s.f.Market.GetBid(ctx, loser)
		require.NoError(t, err)
		require.Equal(t, types.BidStateLost, bid.State)
	}

	// Losing deposits came back; the winner's stays escrowed.
	require.Equal(t, uvela(1000), s.balance(pricey, types.DefaultBondDenom))
	require.Equal(t, uvela(1000), s.balance(late, types.DefaultBondDenom))
	require.Equal(t, uvela(0), s.balance(early, types.DefaultBondDenom))

	matched, err := s.f.Market.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStateActive, matched.State)
	require.Equal(t, early.String(), matched.MatchedProvider)

	group, err := s.f.Deployment.GetGroup(ctx, order.ID.GroupID())
	require.NoError(t, err)
	require.Equal(t, deploymenttypes.GroupStateMatched, group.State)

	require.True(t, hasEvent(ctx, types.EventTypeLeaseCreated))
	require.True(t, hasEvent(ctx, types.EventTypeBidLost))
}

// A certificate revoked after the bid was placed but before the match runs
// disqualifies the bid at selection time.
func TestMatchSkipsRevokedCertificate(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	cheap := testAddr(2)
	s.fund(cheap, uvela(1000))
	serial := s.issueCert(cheap)

	steady := s.certifiedProvider(3)

	cheapID := s.bid(s.at(2), order.ID, cheap, uvela(5))
	steadyID := s.bid(s.at(2), order.ID, steady, uvela(7))

	require.NoError(t, s.f.Cert.RevokeCertificate(s.at(order.WindowEnd-1), cheap, serial))

	ctx := s.endBlock(order.WindowEnd)

	// The cheaper bid lost its certificate and with it the match.
	lease, err := s.f.Market.GetLease(ctx, steadyID)
	require.NoError(t, err)
	require.Equal(t, types.LeaseStateActive, lease.State)
	require.Equal(t, uvela(7), lease.Price)

	lapsed, err := s.f.Market.GetBid(ctx, cheapID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateLost, lapsed.State)
	require.Equal(t, uvela(1000), s.balance(cheap, types.DefaultBondDenom))
}

func TestMatchAllCertificatesRevokedClosesOrder(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	provider := testAddr(2)
	s.fund(provider, uvela(1000))
	serial := s.issueCert(provider)

	bidID := s.bid(s.at(2), order.ID, provider, uvela(5))
	require.NoError(t, s.f.Cert.RevokeCertificate(s.at(order.WindowEnd-1), provider, serial))

	ctx := s.endBlock(order.WindowEnd)

	closed, err := s.f.Market.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStateClosed, closed.State)

	bid, err := s.f.Market.GetBid(ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateLost, bid.State)
	require.Equal(t, uvela(1000), s.balance(provider, types.DefaultBondDenom))

	group, err := s.f.Deployment.GetGroup(ctx, order.ID.GroupID())
	require.NoError(t, err)
	require.Equal(t, deploymenttypes.GroupStateFailed, group.State)
}

func TestMatchNoBidsClosesOrder(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	ctx := s.endBlock(order.WindowEnd)

	closed, err := s.f.Market.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStateClosed, closed.State)

	group, err := s.f.Deployment.GetGroup(ctx, order.ID.GroupID())
	require.NoError(t, err)
	require.Equal(t, deploymenttypes.GroupStateFailed, group.State)

	// The deployment itself stays active; only the group failed.
	deployment, err := s.f.Deployment.GetDeployment(ctx, order.ID.DeploymentID())
	require.NoError(t, err)
	require.Equal(t, deploymenttypes.DeploymentStateActive, deployment.State)
}

func TestMatchWaitsForWindowEnd(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	provider := s.certifiedProvider(2)
	bidID := s.bid(s.at(2), order.ID, provider, uvela(5))

	ctx := s.endBlock(order.WindowEnd - 1)

	// One block short of the window end nothing is decided.
	open, err := s.f.Market.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStateOpen, open.State)
	require.False(t, s.f.Market.HasLease(ctx, bidID))
}

func TestEarlyMatchParam(t *testing.T) {
	s := newMarketSuite(t)
	params := types.DefaultParams()
	params.EarlyMatch = true
	s.setParams(params)

	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	provider := s.certifiedProvider(2)
	bidID := s.bid(s.at(2), order.ID, provider, uvela(5))

	ctx := s.endBlock(3)

	lease, err := s.f.Market.GetLease(ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.LeaseStateActive, lease.State)
	require.Equal(t, int64(3), lease.CreatedAt)
}

// With early matching on, an order whose only bids have invalid certificates
// stays open: the provider may still renew before the window ends.
func TestEarlyMatchWaitsForValidCandidate(t *testing.T) {
	s := newMarketSuite(t)
	params := types.DefaultParams()
	params.EarlyMatch = true
	s.setParams(params)

	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	provider := testAddr(2)
	s.fund(provider, uvela(1000))
	serial := s.issueCert(provider)

	bidID := s.bid(s.at(2), order.ID, provider, uvela(5))
	require.NoError(t, s.f.Cert.RevokeCertificate(s.at(3), provider, serial))

	ctx := s.endBlock(4)

	open, err := s.f.Market.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStateOpen, open.State)

	bid, err := s.f.Market.GetBid(ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateOpen, bid.State)

	// A renewed certificate puts the bid back in the running.
	s.issueCert(provider)
	ctx = s.endBlock(5)

	lease, err := s.f.Market.GetLease(ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.LeaseStateActive, lease.State)
}

func TestMatchRaisesDeploymentRate(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(10), uvela(1000))

	provider := s.certifiedProvider(2)
	s.bid(s.at(2), order.ID, provider, uvela(8))

	ctx := s.endBlock(order.WindowEnd)

	account, err := s.f.Escrow.GetAccount(ctx, order.ID.DeploymentID().EscrowAccountID())
	require.NoError(t, err)
	require.Equal(t, escrowtypes.AccountStateOpen, account.State)
	require.Equal(t, uvela(8), account.Rate)
}
