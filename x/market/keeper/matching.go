package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/market/types"
)

// matchPass decides open orders in ascending id order off a snapshot of the
// open-order index. An order is decided when its bidding window has ended,
// or earlier when early matching is enabled and a valid bid exists.
func (k Keeper) matchPass(ctx context.Context) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("matchPass: %w", err)
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()

	for _, id := range k.openOrderIDs(ctx) {
		order, err := k.GetOrder(ctx, id)
		if err != nil || order.State != types.OrderStateOpen {
			continue
		}
		if err := k.matchOrder(ctx, order, params, height); err != nil {
			k.Logger(ctx).Error("failed to decide order", "order", id.String(), "error", err)
		}
	}

	return nil
}

func (k Keeper) matchOrder(ctx context.Context, order types.Order, params types.Params, height int64) error {
	windowClosed := height >= order.WindowEnd
	if !windowClosed && !params.EarlyMatch {
		return nil
	}

	// Certificates are checked at decision time, not bid time: a provider
	// whose certificate lapsed after bidding never wins.
	var candidates, lapsed []types.Bid
	for _, bid := range k.GetBidsByOrder(ctx, order.ID) {
		if bid.State != types.BidStateOpen {
			continue
		}
		if k.certKeeper.HasValidCertificate(ctx, bid.ID.Provider) {
			candidates = append(candidates, bid)
		} else {
			lapsed = append(lapsed, bid)
		}
	}

	// Early matching only fires once a valid candidate exists; until then
	// every bid, lapsed ones included, stays in place for the window.
	if !windowClosed && len(candidates) == 0 {
		return nil
	}

	for _, bid := range lapsed {
		if err := k.finalizeBid(ctx, bid, types.BidStateLost, types.EventTypeBidLost); err != nil {
			return err
		}
	}

	if len(candidates) == 0 {
		if err := k.closeOrder(ctx, order, types.CloseReasonUnmatched); err != nil {
			return err
		}
		return k.deploymentKeeper.OnGroupFailed(ctx, order.ID.GroupID())
	}

	winner := candidates[0]
	for _, bid := range candidates[1:] {
		if bidBeats(bid, winner) {
			winner = bid
		}
	}

	for _, bid := range candidates {
		if bid.ID == winner.ID {
			continue
		}
		if err := k.finalizeBid(ctx, bid, types.BidStateLost, types.EventTypeBidLost); err != nil {
			return err
		}
	}

	winner.State = types.BidStateActive
	if err := k.SetBid(ctx, winner); err != nil {
		return fmt.Errorf("matchOrder: %w", err)
	}

	lease, err := k.createLease(ctx, winner)
	if err != nil {
		return err
	}

	if err := k.escrowKeeper.AdjustRate(ctx, order.ID.DeploymentID().EscrowAccountID(), lease.Price, true); err != nil {
		return fmt.Errorf("matchOrder: %w", err)
	}

	order.State = types.OrderStateActive
	order.MatchedProvider = winner.ID.Provider
	if err := k.SetOrder(ctx, order); err != nil {
		return fmt.Errorf("matchOrder: %w", err)
	}

	return k.deploymentKeeper.OnLeaseMatched(ctx, order.ID.GroupID())
}

// bidBeats reports whether a wins over b: lowest price first, then earliest
// bid height, then lexicographically smallest provider address.
func bidBeats(a, b types.Bid) bool {
	if !a.Price.Amount.Equal(b.Price.Amount) {
		return a.Price.Amount.LT(b.Price.Amount)
	}
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt < b.CreatedAt
	}
	return a.ID.Provider < b.ID.Provider
}
