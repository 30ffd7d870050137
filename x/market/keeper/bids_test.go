package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	"github.com/vela-grid/vela/x/market/types"
)

func TestCreateBid(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	provider := s.certifiedProvider(2)

	ctx := s.at(4)
	bidID := s.bid(ctx, order.ID, provider, uvela(20))

	bid, err := s.f.Market.GetBid(ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateOpen, bid.State)
	require.Equal(t, uvela(20), bid.Price)
	require.Equal(t, uvela(1000), bid.Deposit)
	require.Equal(t, int64(4), bid.CreatedAt)

	// The deposit moved from the provider into the bid-scoped escrow account.
	require.Equal(t, uvela(0), s.balance(provider, types.DefaultBondDenom))
	account, err := s.f.Escrow.GetAccount(ctx, bidID.EscrowAccountID())
	require.NoError(t, err)
	require.Equal(t, escrowtypes.AccountStateOpen, account.State)
	require.Equal(t, uvela(1000), account.Balance)

	require.True(t, hasEvent(ctx, types.EventTypeBidPlaced))
}

func TestCreateBidValidation(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	provider := s.certifiedProvider(2)
	s.fund(provider, uvela(10000))
	uncertified := testAddr(3)
	s.fund(uncertified, uvela(5000))

	price := uvela(20)
	deposit := uvela(1000)

	tests := []struct {
		name    string
		id      types.BidID
		height  int64
		price   sdk.Coin
		deposit sdk.Coin
		wantErr error
	}{
		{
			name:    "unknown order",
			id:      types.MakeBidID(types.OrderID{Owner: owner.String(), DSeq: 9, GSeq: 1, OSeq: 1}, provider.String()),
			height:  2,
			price:   price,
			deposit: deposit,
			wantErr: types.ErrOrderNotFound,
		},
		{
			name:    "bidding window closed",
			id:      types.MakeBidID(order.ID, provider.String()),
			height:  order.WindowEnd,
			price:   price,
			deposit: deposit,
			wantErr: types.ErrOrderNotOpen,
		},
		{
			name:    "self bid",
			id:      types.MakeBidID(order.ID, owner.String()),
			height:  2,
			price:   price,
			deposit: deposit,
			wantErr: types.ErrInvalidBid,
		},
		{
			name:    "no certificate",
			id:      types.MakeBidID(order.ID, uncertified.String()),
			height:  2,
			price:   price,
			deposit: deposit,
			wantErr: types.ErrInvalidCertificate,
		},
		{
			name:    "price above order max",
			id:      types.MakeBidID(order.ID, provider.String()),
			height:  2,
			price:   uvela(26),
			deposit: deposit,
			wantErr: types.ErrPriceOutOfRange,
		},
		{
			name:    "price denom mismatch",
			id:      types.MakeBidID(order.ID, provider.String()),
			height:  2,
			price:   sdk.NewInt64Coin("uatom", 20),
			deposit: deposit,
			wantErr: types.ErrPriceOutOfRange,
		},
		{
			name:    "deposit denom mismatch",
			id:      types.MakeBidID(order.ID, provider.String()),
			height:  2,
			price:   price,
			deposit: sdk.NewInt64Coin("uatom", 1000),
			wantErr: types.ErrInvalidDeposit,
		},
		{
			name:    "deposit below minimum",
			id:      types.MakeBidID(order.ID, provider.String()),
			height:  2,
			price:   price,
			deposit: uvela(999),
			wantErr: types.ErrInsufficientDeposit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.f.Market.CreateBid(s.at(tc.height), tc.id, tc.price, tc.deposit)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateBidDuplicate(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	provider := s.certifiedProvider(2)
	s.fund(provider, uvela(1000))

	ctx := s.at(2)
	bidID := s.bid(ctx, order.ID, provider, uvela(20))

	_, err := s.f.Market.CreateBid(ctx, bidID, uvela(15), uvela(1000))
	require.ErrorIs(t, err, types.ErrDuplicateBid)
}

func TestCreateBidRejectsClosedOrder(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	winner := s.certifiedProvider(2)
	s.bid(s.at(2), order.ID, winner, uvela(20))
	s.endBlock(order.WindowEnd)

	// The order matched and is no longer open.
	late := s.certifiedProvider(3)
	_, err := s.f.Market.CreateBid(s.at(order.WindowEnd+1), types.MakeBidID(order.ID, late.String()), uvela(10), uvela(1000))
	require.ErrorIs(t, err, types.ErrOrderNotOpen)
}

func TestWithdrawBidRefundsDeposit(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	provider := s.certifiedProvider(2)

	ctx := s.at(3)
	bidID := s.bid(ctx, order.ID, provider, uvela(20))

	_, err := s.ms.CloseBid(ctx, types.NewMsgCloseBid(bidID))
	require.NoError(t, err)

	bid, err := s.f.Market.GetBid(ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateClosed, bid.State)
	require.Equal(t, uvela(1000), s.balance(provider, types.DefaultBondDenom))

	// The bid account outlives the withdrawal so the provider can re-bid.
	account, err := s.f.Escrow.GetAccount(ctx, bidID.EscrowAccountID())
	require.NoError(t, err)
	require.Equal(t, escrowtypes.AccountStateOpen, account.State)
	require.Equal(t, uvela(0), account.Balance)

	require.True(t, hasEvent(ctx, types.EventTypeBidClosed))
}

func TestRebidAfterWithdrawal(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	provider := s.certifiedProvider(2)

	bidID := s.bid(s.at(3), order.ID, provider, uvela(20))
	_, err := s.ms.CloseBid(s.at(3), types.NewMsgCloseBid(bidID))
	require.NoError(t, err)

	// Same provider, same order, fresh terms.
	s.bid(s.at(5), order.ID, provider, uvela(18))

	bid, err := s.f.Market.GetBid(s.f.Ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.BidStateOpen, bid.State)
	require.Equal(t, uvela(18), bid.Price)
	require.Equal(t, int64(5), bid.CreatedAt)

	account, err := s.f.Escrow.GetAccount(s.f.Ctx, bidID.EscrowAccountID())
	require.NoError(t, err)
	require.Equal(t, uvela(1000), account.Balance)

	// A re-bid competes like any other: it can still win the match.
	s.endBlock(order.WindowEnd)
	lease, err := s.f.Market.GetLease(s.f.Ctx, bidID)
	require.NoError(t, err)
	require.Equal(t, types.LeaseStateActive, lease.State)
	require.Equal(t, uvela(18), lease.Price)
}

func TestCloseBidTerminalStates(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	provider := s.certifiedProvider(2)
	bidID := s.bid(s.at(3), order.ID, provider, uvela(20))

	_, err := s.ms.CloseBid(s.at(3), types.NewMsgCloseBid(bidID))
	require.NoError(t, err)

	// A withdrawn bid cannot be withdrawn again.
	_, err = s.ms.CloseBid(s.at(4), types.NewMsgCloseBid(bidID))
	require.ErrorIs(t, err, types.ErrBidClosed)

	_, err = s.ms.CloseBid(s.at(4), types.NewMsgCloseBid(types.MakeBidID(order.ID, testAddr(7).String())))
	require.ErrorIs(t, err, types.ErrBidNotFound)
}

func TestGetBidsByOrder(t *testing.T) {
	s := newMarketSuite(t)
	owner := testAddr(1)
	s.fund(owner, uvela(5000))
	order := s.createDeployment(s.f.Ctx, owner, uvela(25), uvela(1000))

	p1 := s.certifiedProvider(2)
	p2 := s.certifiedProvider(3)
	s.bid(s.at(2), order.ID, p1, uvela(20))
	s.bid(s.at(3), order.ID, p2, uvela(15))

	bids := s.f.Market.GetBidsByOrder(s.f.Ctx, order.ID)
	require.Len(t, bids, 2)
	for _, bid := range bids {
		require.Equal(t, order.ID, bid.ID.OrderID())
	}
}
