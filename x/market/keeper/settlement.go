package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	"github.com/vela-grid/vela/x/market/types"
)

// leaseCloseEntry is the value stored in the lease close queue. Relist
// distinguishes a provider walk-away (the group goes back on the market)
// from a tenant close (the group stays down).
type leaseCloseEntry struct {
	ID     types.LeaseID `json:"id"`
	Relist bool          `json:"relist"`
}

// QueueDeploymentClose schedules a deployment teardown for this block's
// close pass. Idempotent; called by the deployment module on a tenant close.
func (k Keeper) QueueDeploymentClose(ctx context.Context, id deploymenttypes.DeploymentID) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("QueueDeploymentClose: marshal: %w", err)
	}

	store.Set(types.GetDeploymentCloseQueueKey(id.Owner, id.DSeq), bz)
	return nil
}

// queueLeaseClose schedules a lease close for this block's close pass. A
// no-relist request overrides a pending relist, never the reverse: when both
// parties close in the same block the tenant's intent wins.
func (k Keeper) queueLeaseClose(ctx context.Context, id types.LeaseID, relist bool) error {
	store := k.getStore(ctx)
	key := types.GetLeaseCloseQueueKey(id)

	if bz := store.Get(key); bz != nil {
		var pending leaseCloseEntry
		if err := json.Unmarshal(bz, &pending); err == nil && !pending.Relist {
			return nil
		}
	}

	bz, err := json.Marshal(leaseCloseEntry{ID: id, Relist: relist})
	if err != nil {
		return fmt.Errorf("queueLeaseClose: marshal: %w", err)
	}

	store.Set(key, bz)
	return nil
}

// closePass drains the close queues. Deployment teardowns run first so a
// lease close queued against an already-torn-down deployment becomes a
// no-op; each queue is processed in ascending key order.
func (k Keeper) closePass(ctx context.Context) error {
	store := k.getStore(ctx)

	keys, values := drainQueue(store, types.DeploymentCloseQueuePrefix)
	for i, bz := range values {
		store.Delete(keys[i])

		var id deploymenttypes.DeploymentID
		if err := json.Unmarshal(bz, &id); err != nil {
			k.Logger(ctx).Error("skipping corrupt deployment close entry", "key", fmt.Sprintf("%x", keys[i]), "error", err)
			continue
		}
		if err := k.closeDeployment(ctx, id, true); err != nil {
			k.Logger(ctx).Error("failed to close deployment", "deployment", id.String(), "error", err)
		}
	}

	keys, values = drainQueue(store, types.LeaseCloseQueuePrefix)
	for i, bz := range values {
		store.Delete(keys[i])

		var entry leaseCloseEntry
		if err := json.Unmarshal(bz, &entry); err != nil {
			k.Logger(ctx).Error("skipping corrupt lease close entry", "key", fmt.Sprintf("%x", keys[i]), "error", err)
			continue
		}

		lease, err := k.GetLease(ctx, entry.ID)
		if err != nil || !lease.Live() {
			continue
		}
		if err := k.closeLease(ctx, lease, entry.Relist); err != nil {
			k.Logger(ctx).Error("failed to close lease", "lease", entry.ID.String(), "error", err)
		}
	}

	return nil
}

// drainQueue snapshots a queue's keys and values so processing can mutate
// the store without disturbing iteration order.
func drainQueue(store storetypes.KVStore, prefix []byte) (keys, values [][]byte) {
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		keys = append(keys, append([]byte{}, iterator.Key()...))
		values = append(values, append([]byte{}, iterator.Value()...))
	}
	return keys, values
}

// settlePass charges every live lease that has reached its settlement
// interval, in ascending lease id order off a snapshot of the live index.
// Leases in insufficient_funds are retried every block so a top-up takes
// effect at the next pass rather than the next interval.
func (k Keeper) settlePass(ctx context.Context) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("settlePass: %w", err)
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()

	for _, id := range k.liveLeaseIDs(ctx) {
		lease, err := k.GetLease(ctx, id)
		if err != nil || !lease.Live() {
			continue
		}
		if err := k.settleLease(ctx, lease, params, height); err != nil {
			k.Logger(ctx).Error("failed to settle lease", "lease", id.String(), "error", err)
		}
	}

	return nil
}

func (k Keeper) settleLease(ctx context.Context, lease types.Lease, params types.Params, height int64) error {
	elapsed := height - lease.SettledAt
	if elapsed <= 0 {
		return nil
	}

	if lease.State == types.LeaseStateActive && elapsed < params.SettlementInterval {
		return nil
	}

	provider, err := sdk.AccAddressFromBech32(lease.ID.Provider)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("provider %q: %v", lease.ID.Provider, err)
	}

	owed := sdk.NewCoin(lease.Price.Denom, lease.Price.Amount.MulRaw(elapsed))
	accountID := lease.ID.DeploymentID().EscrowAccountID()

	actual, err := k.escrowKeeper.Withdraw(ctx, accountID, provider, owed)
	if err != nil {
		return fmt.Errorf("settleLease: %w", err)
	}

	// The checkpoint advances even on a short payout: blocks the pool could
	// not cover are forgiven, not carried forward.
	lease.TotalPaid = lease.TotalPaid.Add(actual)
	lease.SettledAt = height

	if actual.Amount.Equal(owed.Amount) {
		if lease.State == types.LeaseStateInsufficientFunds {
			lease.State = types.LeaseStateActive
			lease.InsufficientAt = 0
			k.Logger(ctx).Info("lease recovered", "lease", lease.ID.String(), "height", height)
		}

		if err := k.SetLease(ctx, lease); err != nil {
			return fmt.Errorf("settleLease: %w", err)
		}

		k.metrics.SettlementPaid.Inc()
		return k.escrowKeeper.MarkSettled(ctx, accountID, height)
	}

	if lease.State == types.LeaseStateActive {
		lease.State = types.LeaseStateInsufficientFunds
		lease.InsufficientAt = height

		if err := k.SetLease(ctx, lease); err != nil {
			return fmt.Errorf("settleLease: %w", err)
		}

		sdkCtx := sdk.UnwrapSDKContext(ctx)
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeInsufficientFunds,
				sdk.NewAttribute(types.AttributeKeyOwner, lease.ID.Owner),
				sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", lease.ID.DSeq)),
				sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", lease.ID.GSeq)),
				sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", lease.ID.OSeq)),
				sdk.NewAttribute(types.AttributeKeyProvider, lease.ID.Provider),
				sdk.NewAttribute(types.AttributeKeyAmount, actual.String()),
				sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", height)),
			),
		)

		k.Logger(ctx).Info("lease entered insufficient funds",
			"lease", lease.ID.String(), "owed", owed.String(), "paid", actual.String())
		return nil
	}

	// Still short after the grace interval: the lease comes down, and an
	// exhausted pool takes the whole deployment with it.
	if height-lease.InsufficientAt < params.SettlementInterval {
		return k.SetLease(ctx, lease)
	}

	if err := k.SetLease(ctx, lease); err != nil {
		return fmt.Errorf("settleLease: %w", err)
	}

	balance, err := k.escrowKeeper.Balance(ctx, accountID)
	if err == nil && balance.IsPositive() {
		return k.closeLease(ctx, lease, false)
	}

	return k.closeDeployment(ctx, lease.ID.DeploymentID(), false)
}

// settleAndCloseLease pays the provider whatever the pool still covers for
// the blocks since the last checkpoint, then retires the lease, its rate
// contribution, and the winning bid's escrow account.
func (k Keeper) settleAndCloseLease(ctx context.Context, lease types.Lease) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()
	accountID := lease.ID.DeploymentID().EscrowAccountID()

	if elapsed := height - lease.SettledAt; elapsed > 0 {
		provider, err := sdk.AccAddressFromBech32(lease.ID.Provider)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("provider %q: %v", lease.ID.Provider, err)
		}

		owed := sdk.NewCoin(lease.Price.Denom, lease.Price.Amount.MulRaw(elapsed))
		actual, err := k.escrowKeeper.Withdraw(ctx, accountID, provider, owed)
		if err != nil {
			return fmt.Errorf("settleAndCloseLease: %w", err)
		}

		lease.TotalPaid = lease.TotalPaid.Add(actual)
		lease.SettledAt = height
	}

	lease.State = types.LeaseStateClosed
	lease.ClosedAt = height
	if err := k.SetLease(ctx, lease); err != nil {
		return fmt.Errorf("settleAndCloseLease: %w", err)
	}

	// The deployment account keeps draining for other leases, so this
	// lease's price comes off the aggregate rate while the account is still
	// open.
	account, err := k.escrowKeeper.GetAccount(ctx, accountID)
	if err == nil && account.State == escrowtypes.AccountStateOpen {
		if err := k.escrowKeeper.AdjustRate(ctx, accountID, lease.Price, false); err != nil {
			return fmt.Errorf("settleAndCloseLease: %w", err)
		}
	}

	bid, err := k.GetBid(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("settleAndCloseLease: %w", err)
	}
	if err := k.finalizeBid(ctx, bid, types.BidStateClosed, types.EventTypeBidClosed); err != nil {
		return err
	}

	k.metrics.LeasesClosed.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLeaseClosed,
			sdk.NewAttribute(types.AttributeKeyOwner, lease.ID.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", lease.ID.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", lease.ID.GSeq)),
			sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", lease.ID.OSeq)),
			sdk.NewAttribute(types.AttributeKeyProvider, lease.ID.Provider),
			sdk.NewAttribute(types.AttributeKeyAmount, lease.TotalPaid.String()),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", height)),
		),
	)

	k.Logger(ctx).Info("lease closed", "lease", lease.ID.String(), "total_paid", lease.TotalPaid.String())
	return nil
}

// closeLease retires a single lease and its order. With relist the group
// goes straight back on the market under a fresh oseq; otherwise the group
// closes for good.
func (k Keeper) closeLease(ctx context.Context, lease types.Lease, relist bool) error {
	if err := k.settleAndCloseLease(ctx, lease); err != nil {
		return err
	}

	order, err := k.GetOrder(ctx, lease.ID.OrderID())
	if err != nil {
		return fmt.Errorf("closeLease: %w", err)
	}
	if err := k.closeOrder(ctx, order, types.CloseReasonMatched); err != nil {
		return err
	}

	groupID := lease.ID.OrderID().GroupID()
	if !relist {
		return k.deploymentKeeper.OnGroupClosed(ctx, groupID)
	}

	if err := k.deploymentKeeper.OnGroupReopened(ctx, groupID); err != nil {
		return err
	}

	group, err := k.deploymentKeeper.GetGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("closeLease: %w", err)
	}
	return k.CreateOrder(ctx, group)
}

// closeDeployment tears down everything the market holds for one
// deployment: open orders, their bids, and live leases with a final
// settlement. Voluntary closes refund the escrow remainder to the tenant;
// exhaustion marks the account overdrawn instead. The deployment module's
// own records close last.
func (k Keeper) closeDeployment(ctx context.Context, id deploymenttypes.DeploymentID, voluntary bool) error {
	deployment, err := k.deploymentKeeper.GetDeployment(ctx, id)
	if err != nil {
		return err
	}
	if deployment.State != deploymenttypes.DeploymentStateActive {
		return nil
	}

	for _, order := range k.GetOrdersByDeployment(ctx, id) {
		if order.State == types.OrderStateActive && order.MatchedProvider != "" {
			lease, err := k.GetLease(ctx, types.MakeBidID(order.ID, order.MatchedProvider))
			if err == nil && lease.Live() {
				if err := k.settleAndCloseLease(ctx, lease); err != nil {
					return err
				}
			}
		}

		for _, bid := range k.GetBidsByOrder(ctx, order.ID) {
			switch bid.State {
			case types.BidStateOpen:
				if err := k.finalizeBid(ctx, bid, types.BidStateClosed, types.EventTypeBidClosed); err != nil {
					return err
				}
			case types.BidStateClosed:
				// A withdrawn bid leaves its account open for re-bids;
				// nothing can re-bid on a closing order, so sweep it shut.
				accountID := bid.ID.EscrowAccountID()
				account, err := k.escrowKeeper.GetAccount(ctx, accountID)
				if err == nil && account.State == escrowtypes.AccountStateOpen {
					if err := k.escrowKeeper.AccountClose(ctx, accountID); err != nil {
						return fmt.Errorf("closeDeployment: %w", err)
					}
				}
			}
		}

		if err := k.closeOrder(ctx, order, types.CloseReasonDeploymentClosed); err != nil {
			return err
		}
	}

	accountID := id.EscrowAccountID()
	account, err := k.escrowKeeper.GetAccount(ctx, accountID)
	if err == nil && account.State == escrowtypes.AccountStateOpen {
		if voluntary {
			err = k.escrowKeeper.AccountClose(ctx, accountID)
		} else {
			err = k.escrowKeeper.AccountOverdrawn(ctx, accountID)
		}
		if err != nil {
			return fmt.Errorf("closeDeployment: %w", err)
		}
	}

	if err := k.deploymentKeeper.CloseDeployment(ctx, id); err != nil {
		return fmt.Errorf("closeDeployment: %w", err)
	}

	k.Logger(ctx).Info("deployment closed", "deployment", id.String(), "voluntary", voluntary)
	return nil
}
