package keeper

import (
	"context"
	"fmt"

	"github.com/vela-grid/vela/x/market/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the market MsgServer
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) CreateBid(goCtx context.Context, msg *types.MsgCreateBid) (*types.MsgCreateBidResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if _, err := m.Keeper.CreateBid(goCtx, types.MakeBidID(msg.Order, msg.Provider), msg.Price, msg.Deposit); err != nil {
		return nil, err
	}

	return &types.MsgCreateBidResponse{}, nil
}

func (m msgServer) CloseBid(goCtx context.Context, msg *types.MsgCloseBid) (*types.MsgCloseBidResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	bid, err := m.GetBid(goCtx, msg.ID)
	if err != nil {
		return nil, err
	}

	switch bid.State {
	case types.BidStateOpen:
		if err := m.withdrawBid(goCtx, bid); err != nil {
			return nil, fmt.Errorf("CloseBid: %w", err)
		}

	case types.BidStateActive:
		// A provider walking away from its lease: the lease settles and
		// closes at this block's close pass, and the group goes back on the
		// market under a fresh order.
		lease, err := m.GetLease(goCtx, msg.ID)
		if err != nil {
			return nil, err
		}
		if !lease.Live() {
			return nil, types.ErrLeaseClosed.Wrapf("id %s", msg.ID)
		}
		if err := m.queueLeaseClose(goCtx, msg.ID, true); err != nil {
			return nil, fmt.Errorf("CloseBid: %w", err)
		}

	default:
		return nil, types.ErrBidClosed.Wrapf("bid %s is %s", msg.ID, bid.State)
	}

	return &types.MsgCloseBidResponse{}, nil
}

func (m msgServer) CloseLease(goCtx context.Context, msg *types.MsgCloseLease) (*types.MsgCloseLeaseResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	lease, err := m.GetLease(goCtx, msg.ID)
	if err != nil {
		return nil, err
	}

	if !lease.Live() {
		return nil, types.ErrLeaseClosed.Wrapf("id %s", msg.ID)
	}

	if err := m.queueLeaseClose(goCtx, msg.ID, false); err != nil {
		return nil, fmt.Errorf("CloseLease: %w", err)
	}

	return &types.MsgCloseLeaseResponse{}, nil
}
