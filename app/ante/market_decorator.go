package ante

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	marketkeeper "github.com/vela-grid/vela/x/market/keeper"
	markettypes "github.com/vela-grid/vela/x/market/types"
)

// MarketDecorator validates market module-specific transaction requirements
type MarketDecorator struct {
	keeper marketkeeper.Keeper
}

// NewMarketDecorator creates a new MarketDecorator
func NewMarketDecorator(keeper marketkeeper.Keeper) MarketDecorator {
	return MarketDecorator{
		keeper: keeper,
	}
}

// AnteHandle implements the AnteDecorator interface
func (md MarketDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (newCtx sdk.Context, err error) {
	// Skip validation during simulation
	if simulate {
		return next(ctx, tx, simulate)
	}

	msgs := tx.GetMsgs()
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case *markettypes.MsgCreateBid:
			if err := md.validateCreateBid(ctx, msg); err != nil {
				return ctx, err
			}
		case *markettypes.MsgCloseBid:
			if err := md.validateCloseBid(ctx, msg); err != nil {
				return ctx, err
			}
		case *markettypes.MsgCloseLease:
			if err := md.validateCloseLease(ctx, msg); err != nil {
				return ctx, err
			}
		}
	}

	return next(ctx, tx, simulate)
}

// validateCreateBid rejects bids that cannot be admitted before the message
// reaches the keeper: the order must exist, still accept bids, and the
// deposit must clear the configured floor.
func (md MarketDecorator) validateCreateBid(ctx sdk.Context, msg *markettypes.MsgCreateBid) error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid provider address: %s", err)
	}

	// Consume gas for validation
	ctx.GasMeter().ConsumeGas(1000, "bid admission validation")

	order, err := md.keeper.GetOrder(ctx, msg.Order)
	if err != nil {
		return sdkerrors.ErrInvalidRequest.Wrapf("unknown order %s", msg.Order)
	}

	if order.State != markettypes.OrderStateOpen {
		return sdkerrors.ErrInvalidRequest.Wrapf("order %s is not open for bids", order.ID)
	}

	if ctx.BlockHeight() >= order.WindowEnd {
		return sdkerrors.ErrInvalidRequest.Wrapf("bidding window for order %s closed at height %d", order.ID, order.WindowEnd)
	}

	if msg.Price.Denom != order.MaxPrice.Denom {
		return sdkerrors.ErrInvalidRequest.Wrapf("price denom %s does not match order denom %s", msg.Price.Denom, order.MaxPrice.Denom)
	}

	if msg.Price.Amount.GT(order.MaxPrice.Amount) {
		return sdkerrors.ErrInvalidRequest.Wrapf("price %s exceeds order max %s", msg.Price, order.MaxPrice)
	}

	params, err := md.keeper.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("failed to get params: %w", err)
	}

	if msg.Deposit.Denom != params.MinBidDeposit.Denom {
		return sdkerrors.ErrInvalidRequest.Wrapf("deposit denom %s, expected %s", msg.Deposit.Denom, params.MinBidDeposit.Denom)
	}

	if msg.Deposit.Amount.LT(params.MinBidDeposit.Amount) {
		return sdkerrors.ErrInsufficientFunds.Wrapf("deposit %s below minimum %s", msg.Deposit, params.MinBidDeposit)
	}

	return nil
}

// validateCloseBid checks the bid exists and is not already closed.
func (md MarketDecorator) validateCloseBid(ctx sdk.Context, msg *markettypes.MsgCloseBid) error {
	// Consume gas for validation
	ctx.GasMeter().ConsumeGas(800, "bid close validation")

	bid, err := md.keeper.GetBid(ctx, msg.ID)
	if err != nil {
		return sdkerrors.ErrInvalidRequest.Wrapf("unknown bid %s", msg.ID)
	}

	switch bid.State {
	case markettypes.BidStateOpen, markettypes.BidStateActive:
		return nil
	default:
		return sdkerrors.ErrInvalidRequest.Wrapf("bid %s is %s", bid.ID, bid.State)
	}
}

// validateCloseLease checks the lease exists, is live, and that the sender is
// one of its two parties.
func (md MarketDecorator) validateCloseLease(ctx sdk.Context, msg *markettypes.MsgCloseLease) error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}

	// Consume gas for validation
	ctx.GasMeter().ConsumeGas(800, "lease close validation")

	if msg.Sender != msg.ID.Owner && msg.Sender != msg.ID.Provider {
		return sdkerrors.ErrUnauthorized.Wrap("sender is neither tenant nor provider")
	}

	lease, err := md.keeper.GetLease(ctx, msg.ID)
	if err != nil {
		return sdkerrors.ErrInvalidRequest.Wrapf("unknown lease %s", msg.ID)
	}

	if !lease.Live() {
		return sdkerrors.ErrInvalidRequest.Wrapf("lease %s is %s", lease.ID, lease.State)
	}

	return nil
}
