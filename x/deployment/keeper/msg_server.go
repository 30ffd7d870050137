package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/deployment/types"
)

type msgServer struct {
	Keeper
	marketKeeper types.MarketKeeper
}

// NewMsgServerImpl returns the deployment MsgServer. The market keeper is
// injected here rather than into the Keeper so the keeper-level dependency
// between the two modules stays one-directional.
func NewMsgServerImpl(keeper Keeper, marketKeeper types.MarketKeeper) types.MsgServer {
	return &msgServer{
		Keeper:       keeper,
		marketKeeper: marketKeeper,
	}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) CreateDeployment(goCtx context.Context, msg *types.MsgCreateDeployment) (*types.MsgCreateDeploymentResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("owner %q: %v", msg.Owner, err)
	}

	params, err := m.GetParams(goCtx)
	if err != nil {
		return nil, fmt.Errorf("CreateDeployment: %w", err)
	}

	// Admission: the deposit must cover at least one settlement period at
	// the worst case (every group leased at its max price), and never falls
	// below the module floor.
	interval := m.marketKeeper.SettlementInterval(goCtx)
	required := types.TotalMaxPrice(msg.Groups)
	required.Amount = required.Amount.MulRaw(interval)
	if msg.Deposit.Denom == params.MinDeposit.Denom && required.Amount.LT(params.MinDeposit.Amount) {
		required = sdk.NewCoin(msg.Deposit.Denom, params.MinDeposit.Amount)
	}

	if msg.Deposit.Amount.LT(required.Amount) {
		return nil, types.ErrInsufficientDeposit.Wrapf("deposit %s below required %s", msg.Deposit, required)
	}

	deployment, groups, err := m.Keeper.CreateDeployment(goCtx, owner, msg.Groups)
	if err != nil {
		return nil, fmt.Errorf("CreateDeployment: %w", err)
	}

	if _, err := m.escrowKeeper.AccountCreate(goCtx, deployment.ID.EscrowAccountID(), owner, msg.Deposit); err != nil {
		return nil, fmt.Errorf("CreateDeployment: fund escrow: %w", err)
	}

	for _, group := range groups {
		if err := m.marketKeeper.CreateOrder(goCtx, group); err != nil {
			return nil, fmt.Errorf("CreateDeployment: open order for group %s: %w", group.ID, err)
		}
	}

	return &types.MsgCreateDeploymentResponse{ID: deployment.ID}, nil
}

func (m msgServer) CloseDeployment(goCtx context.Context, msg *types.MsgCloseDeployment) (*types.MsgCloseDeploymentResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	deployment, err := m.GetDeployment(goCtx, msg.ID)
	if err != nil {
		return nil, err
	}

	if deployment.State != types.DeploymentStateActive {
		return nil, types.ErrDeploymentClosed.Wrapf("id %s", msg.ID)
	}

	// The deployment stays active until this block's settlement pass so the
	// final pro-rated settlement happens in one place.
	if err := m.marketKeeper.QueueDeploymentClose(goCtx, msg.ID); err != nil {
		return nil, fmt.Errorf("CloseDeployment: %w", err)
	}

	return &types.MsgCloseDeploymentResponse{}, nil
}

func (m msgServer) DepositDeployment(goCtx context.Context, msg *types.MsgDepositDeployment) (*types.MsgDepositDeploymentResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("depositor %q: %v", msg.Depositor, err)
	}

	deployment, err := m.GetDeployment(goCtx, msg.ID)
	if err != nil {
		return nil, err
	}

	if deployment.State != types.DeploymentStateActive {
		return nil, types.ErrDeploymentClosed.Wrapf("id %s", msg.ID)
	}

	if err := m.escrowKeeper.AccountDeposit(goCtx, msg.ID.EscrowAccountID(), depositor, msg.Amount); err != nil {
		return nil, fmt.Errorf("DepositDeployment: %w", err)
	}

	return &types.MsgDepositDeploymentResponse{}, nil
}
