package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/escrow/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns the escrow MsgServer backed by the keeper
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) DepositEscrow(goCtx context.Context, msg *types.MsgDepositEscrow) (*types.MsgDepositEscrowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("depositor %q: %v", msg.Depositor, err)
	}

	if err := m.AccountDeposit(goCtx, msg.ID, depositor, msg.Amount); err != nil {
		return nil, fmt.Errorf("DepositEscrow: %w", err)
	}

	return &types.MsgDepositEscrowResponse{}, nil
}

func (m msgServer) WithdrawEscrow(goCtx context.Context, msg *types.MsgWithdrawEscrow) (*types.MsgWithdrawEscrowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("owner %q: %v", msg.Owner, err)
	}

	actual, err := m.OwnerWithdraw(goCtx, msg.ID, owner, msg.Amount)
	if err != nil {
		return nil, fmt.Errorf("WithdrawEscrow: %w", err)
	}

	return &types.MsgWithdrawEscrowResponse{Amount: actual.String()}, nil
}
