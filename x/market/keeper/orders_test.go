package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	"github.com/vela-grid/vela/x/market/types"
)

func TestCreateOrderListsGroup(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))

	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	require.Equal(t, owner.String(), order.ID.Owner)
	require.Equal(t, uint64(1), order.ID.DSeq)
	require.Equal(t, uint32(1), order.ID.GSeq)
	require.Equal(t, uint32(1), order.ID.OSeq)
	require.Equal(t, types.OrderStateOpen, order.State)
	require.Equal(t, uvela(25), order.MaxPrice)
	require.Equal(t, int64(1), order.CreatedAt)
	require.Equal(t, int64(1)+types.DefaultBidDuration, order.WindowEnd)

	stored, err := s.f.Market.GetOrder(s.f.Ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order, stored)

	require.True(t, hasEvent(s.f.Ctx, types.EventTypeOrderOpened))
}

func TestCreateOrderSequencesPerGroup(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))

	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	group, err := s.f.Deployment.GetGroup(s.f.Ctx, order.ID.GroupID())
	require.NoError(t, err)

	// A second listing for the same group picks up the next oseq.
	require.NoError(t, s.f.Market.CreateOrder(s.f.Ctx, group))

	orders := s.f.Market.GetOrdersByDeployment(s.f.Ctx, order.ID.DeploymentID())
	require.Len(t, orders, 2)
	require.Equal(t, uint32(1), orders[0].ID.OSeq)
	require.Equal(t, uint32(2), orders[1].ID.OSeq)
}

func TestGetOrderNotFound(t *testing.T) {
	s := newMarketSuite(t)

	_, err := s.f.Market.GetOrder(s.f.Ctx, types.OrderID{Owner: testAddr(9).String(), DSeq: 4, GSeq: 1, OSeq: 1})
	require.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestGetOrdersByOwner(t *testing.T) {
	s := newMarketSuite(t)
	alice := testAddr(1)
	bob := testAddr(2)
	s.fund(alice, uvela(5000))
	s.fund(bob, uvela(5000))

	s.createDeployment(s.f.Ctx, alice, uvela(10), uvela(1000))
	s.createDeployment(s.f.Ctx, alice, uvela(20), uvela(1000))
	s.createDeployment(s.f.Ctx, bob, uvela(30), uvela(1000))

	require.Len(t, s.f.Market.GetOrdersByOwner(s.f.Ctx, alice.String()), 2)
	require.Len(t, s.f.Market.GetOrdersByOwner(s.f.Ctx, bob.String()), 1)

	byDeployment := s.f.Market.GetOrdersByDeployment(s.f.Ctx, deploymenttypes.DeploymentID{Owner: alice.String(), DSeq: 2})
	require.Len(t, byDeployment, 1)
	require.Equal(t, uvela(20), byDeployment[0].MaxPrice)
}

func TestMultiGroupDeploymentListsOneOrderPerGroup(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))

	resp, err := s.dms.CreateDeployment(s.f.Ctx, deploymenttypes.NewMsgCreateDeployment(owner.String(), []deploymenttypes.GroupSpec{
		{
			Name:      "web",
			Resources: []deploymenttypes.Resource{{CPU: 1000, Memory: 1 << 30, Storage: 10 << 30, Count: 1}},
			MaxPrice:  uvela(10),
		},
		{
			Name:      "db",
			Resources: []deploymenttypes.Resource{{CPU: 2000, Memory: 2 << 30, Storage: 20 << 30, Count: 1}},
			MaxPrice:  uvela(40),
		},
	}, uvela(1000)))
	require.NoError(t, err)

	orders := s.f.Market.GetOrdersByDeployment(s.f.Ctx, resp.ID)
	require.Len(t, orders, 2)
	require.Equal(t, uint32(1), orders[0].ID.GSeq)
	require.Equal(t, uint32(2), orders[1].ID.GSeq)
	require.Equal(t, uvela(10), orders[0].MaxPrice)
	require.Equal(t, uvela(40), orders[1].MaxPrice)
}
