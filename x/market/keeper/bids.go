package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	"github.com/vela-grid/vela/x/market/types"
)

// SetBid stores a bid record
func (k Keeper) SetBid(ctx context.Context, bid types.Bid) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(bid)
	if err != nil {
		return fmt.Errorf("SetBid: marshal: %w", err)
	}

	store.Set(types.GetBidKey(bid.ID), bz)
	return nil
}

// GetBid retrieves a bid by id
func (k Keeper) GetBid(ctx context.Context, id types.BidID) (types.Bid, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetBidKey(id))
	if bz == nil {
		return types.Bid{}, types.ErrBidNotFound.Wrapf("id %s", id)
	}

	var bid types.Bid
	if err := json.Unmarshal(bz, &bid); err != nil {
		return types.Bid{}, fmt.Errorf("GetBid: unmarshal: %w", err)
	}

	return bid, nil
}

// HasBid reports whether a bid exists for the id
func (k Keeper) HasBid(ctx context.Context, id types.BidID) bool {
	return k.getStore(ctx).Has(types.GetBidKey(id))
}

// GetBidsByOrder returns all bids placed on an order in ascending provider
// order.
func (k Keeper) GetBidsByOrder(ctx context.Context, id types.OrderID) []types.Bid {
	store := k.getStore(ctx)

	bids := []types.Bid{}
	iterator := storetypes.KVStorePrefixIterator(store, types.GetOrderBidsPrefix(id))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bid types.Bid
		if err := json.Unmarshal(iterator.Value(), &bid); err != nil {
			continue
		}
		bids = append(bids, bid)
	}

	return bids
}

// IterateBids walks every stored bid, stopping when cb returns true. Used by
// genesis export.
func (k Keeper) IterateBids(ctx context.Context, cb func(types.Bid) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.BidKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bid types.Bid
		if err := json.Unmarshal(iterator.Value(), &bid); err != nil {
			k.Logger(ctx).Error("skipping corrupt bid record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(bid) {
			return
		}
	}
}

// CreateBid places a provider's bid on an open order, escrowing the deposit.
// A provider re-bidding after withdrawing an earlier bid deposits into the
// same escrow account, which the withdrawal left open.
func (k Keeper) CreateBid(ctx context.Context, id types.BidID, price, deposit sdk.Coin) (types.Bid, error) {
	provider, err := sdk.AccAddressFromBech32(id.Provider)
	if err != nil {
		return types.Bid{}, types.ErrInvalidAddress.Wrapf("provider %q: %v", id.Provider, err)
	}

	order, err := k.GetOrder(ctx, id.OrderID())
	if err != nil {
		return types.Bid{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()

	if order.State != types.OrderStateOpen {
		return types.Bid{}, types.ErrOrderNotOpen.Wrapf("order %s is %s", order.ID, order.State)
	}

	if height >= order.WindowEnd {
		return types.Bid{}, types.ErrOrderNotOpen.Wrapf("order %s bidding window closed at height %d", order.ID, order.WindowEnd)
	}

	if id.Provider == id.Owner {
		return types.Bid{}, types.ErrInvalidBid.Wrap("cannot bid on own order")
	}

	if !k.certKeeper.HasValidCertificate(ctx, id.Provider) {
		return types.Bid{}, types.ErrInvalidCertificate.Wrapf("provider %s", id.Provider)
	}

	if price.Denom != order.MaxPrice.Denom {
		return types.Bid{}, types.ErrPriceOutOfRange.Wrapf("price denom %s, order denom %s", price.Denom, order.MaxPrice.Denom)
	}

	if !price.IsPositive() {
		return types.Bid{}, types.ErrPriceOutOfRange.Wrap("price must be positive")
	}

	if price.Amount.GT(order.MaxPrice.Amount) {
		return types.Bid{}, types.ErrPriceOutOfRange.Wrapf("price %s exceeds order max %s", price, order.MaxPrice)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Bid{}, fmt.Errorf("CreateBid: %w", err)
	}

	if deposit.Denom != params.MinBidDeposit.Denom {
		return types.Bid{}, types.ErrInvalidDeposit.Wrapf("deposit denom %s, expected %s", deposit.Denom, params.MinBidDeposit.Denom)
	}

	if deposit.Amount.LT(params.MinBidDeposit.Amount) {
		return types.Bid{}, types.ErrInsufficientDeposit.Wrapf("deposit %s below minimum %s", deposit, params.MinBidDeposit)
	}

	if k.HasBid(ctx, id) {
		existing, err := k.GetBid(ctx, id)
		if err != nil {
			return types.Bid{}, fmt.Errorf("CreateBid: %w", err)
		}
		if existing.State != types.BidStateClosed {
			return types.Bid{}, types.ErrDuplicateBid.Wrapf("bid %s already placed", id)
		}
		if err := k.escrowKeeper.AccountDeposit(ctx, id.EscrowAccountID(), provider, deposit); err != nil {
			return types.Bid{}, fmt.Errorf("CreateBid: fund escrow: %w", err)
		}
	} else {
		if _, err := k.escrowKeeper.AccountCreate(ctx, id.EscrowAccountID(), provider, deposit); err != nil {
			return types.Bid{}, fmt.Errorf("CreateBid: fund escrow: %w", err)
		}
	}

	bid := types.Bid{
		ID:        id,
		Price:     price,
		Deposit:   deposit,
		State:     types.BidStateOpen,
		CreatedAt: height,
	}

	if err := k.SetBid(ctx, bid); err != nil {
		return types.Bid{}, fmt.Errorf("CreateBid: %w", err)
	}

	k.metrics.BidsPlaced.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBidPlaced,
			sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", id.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", id.GSeq)),
			sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", id.OSeq)),
			sdk.NewAttribute(types.AttributeKeyProvider, id.Provider),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyDeposit, deposit.String()),
		),
	)

	k.Logger(ctx).Info("bid placed", "bid", id.String(), "price", price.String())
	return bid, nil
}

// withdrawBid handles a provider pulling an open bid before the order is
// decided. The deposit comes back through the account without closing it, so
// the provider can bid again on the same order.
func (k Keeper) withdrawBid(ctx context.Context, bid types.Bid) error {
	provider, err := sdk.AccAddressFromBech32(bid.ID.Provider)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("provider %q: %v", bid.ID.Provider, err)
	}

	accountID := bid.ID.EscrowAccountID()
	balance, err := k.escrowKeeper.Balance(ctx, accountID)
	if err != nil {
		return fmt.Errorf("withdrawBid: %w", err)
	}

	if balance.IsPositive() {
		if _, err := k.escrowKeeper.Withdraw(ctx, accountID, provider, balance); err != nil {
			return fmt.Errorf("withdrawBid: refund: %w", err)
		}
	}

	bid.State = types.BidStateClosed
	if err := k.SetBid(ctx, bid); err != nil {
		return fmt.Errorf("withdrawBid: %w", err)
	}

	k.emitBidEvent(ctx, types.EventTypeBidClosed, bid.ID)
	return nil
}

// finalizeBid moves a bid to a terminal state and closes its escrow account,
// refunding whatever deposit remains to the provider.
func (k Keeper) finalizeBid(ctx context.Context, bid types.Bid, state types.BidState, eventType string) error {
	bid.State = state
	if err := k.SetBid(ctx, bid); err != nil {
		return fmt.Errorf("finalizeBid: %w", err)
	}

	accountID := bid.ID.EscrowAccountID()
	account, err := k.escrowKeeper.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("finalizeBid: %w", err)
	}

	if account.State == escrowtypes.AccountStateOpen {
		if err := k.escrowKeeper.AccountClose(ctx, accountID); err != nil {
			return fmt.Errorf("finalizeBid: close escrow: %w", err)
		}
	}

	k.emitBidEvent(ctx, eventType, bid.ID)
	return nil
}

func (k Keeper) emitBidEvent(ctx context.Context, eventType string, id types.BidID) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", id.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", id.GSeq)),
			sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", id.OSeq)),
			sdk.NewAttribute(types.AttributeKeyProvider, id.Provider),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)
}
