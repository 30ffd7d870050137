package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	"github.com/vela-grid/vela/x/market/types"
)

// nextOSeq returns and increments a group's order sequence. Each re-listing
// of a group gets a fresh oseq so a closed order's bids and lease stay
// addressable forever.
func (k Keeper) nextOSeq(ctx context.Context, id deploymenttypes.GroupID) uint32 {
	store := k.getStore(ctx)
	key := types.GetNextOSeqKey(id.Owner, id.DSeq, id.GSeq)

	var next uint32 = 1
	if bz := store.Get(key); bz != nil {
		next = binary.BigEndian.Uint32(bz)
	}

	nextBz := make([]byte, 4)
	binary.BigEndian.PutUint32(nextBz, next+1)
	store.Set(key, nextBz)

	return next
}

// setNextOSeq overwrites a group's order sequence. Used by genesis import.
func (k Keeper) setNextOSeq(ctx context.Context, id deploymenttypes.GroupID, oseq uint32) {
	store := k.getStore(ctx)
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, oseq)
	store.Set(types.GetNextOSeqKey(id.Owner, id.DSeq, id.GSeq), bz)
}

// SetOrder stores an order record and maintains the open-order index
func (k Keeper) SetOrder(ctx context.Context, order types.Order) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("SetOrder: marshal: %w", err)
	}

	store.Set(types.GetOrderKey(order.ID), bz)

	indexKey := types.GetOrderOpenIndexKey(order.ID)
	if order.State == types.OrderStateOpen {
		store.Set(indexKey, []byte{1})
	} else {
		store.Delete(indexKey)
	}

	return nil
}

// GetOrder retrieves an order by id
func (k Keeper) GetOrder(ctx context.Context, id types.OrderID) (types.Order, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetOrderKey(id))
	if bz == nil {
		return types.Order{}, types.ErrOrderNotFound.Wrapf("id %s", id)
	}

	var order types.Order
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.Order{}, fmt.Errorf("GetOrder: unmarshal: %w", err)
	}

	return order, nil
}

// HasOrder reports whether an order exists for the id
func (k Keeper) HasOrder(ctx context.Context, id types.OrderID) bool {
	return k.getStore(ctx).Has(types.GetOrderKey(id))
}

// CreateOrder lists an open group on the market. Called by the deployment
// module when a deployment is created and by the close pass when a group is
// re-listed after a provider walks away.
func (k Keeper) CreateOrder(ctx context.Context, group deploymenttypes.Group) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("CreateOrder: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()

	order := types.Order{
		ID:        types.MakeOrderID(group.ID, k.nextOSeq(ctx, group.ID)),
		State:     types.OrderStateOpen,
		MaxPrice:  group.Spec.MaxPrice,
		CreatedAt: height,
		WindowEnd: height + params.BidDuration,
	}

	if err := k.SetOrder(ctx, order); err != nil {
		return fmt.Errorf("CreateOrder: %w", err)
	}

	k.metrics.OrdersOpened.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderOpened,
			sdk.NewAttribute(types.AttributeKeyOwner, order.ID.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", order.ID.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", order.ID.GSeq)),
			sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", order.ID.OSeq)),
			sdk.NewAttribute(types.AttributeKeyPrice, order.MaxPrice.String()),
		),
	)

	k.Logger(ctx).Info("order opened",
		"order", order.ID.String(),
		"max_price", order.MaxPrice.String(),
		"window_end", order.WindowEnd,
	)
	return nil
}

// closeOrder moves an order to closed and records why. Idempotent so the
// close pass can overlap with deployment teardown.
func (k Keeper) closeOrder(ctx context.Context, order types.Order, reason string) error {
	if order.State == types.OrderStateClosed {
		return nil
	}

	order.State = types.OrderStateClosed
	if err := k.SetOrder(ctx, order); err != nil {
		return fmt.Errorf("closeOrder: %w", err)
	}

	k.metrics.OrdersClosed.WithLabelValues(reason).Inc()
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderClosed,
			sdk.NewAttribute(types.AttributeKeyOwner, order.ID.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", order.ID.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", order.ID.GSeq)),
			sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", order.ID.OSeq)),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
		),
	)
	return nil
}

// GetOrdersByOwner returns all of an owner's orders in ascending id order
func (k Keeper) GetOrdersByOwner(ctx context.Context, owner string) []types.Order {
	store := k.getStore(ctx)

	orders := []types.Order{}
	iterator := storetypes.KVStorePrefixIterator(store, types.GetOrderOwnerPrefix(owner))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.Order
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	return orders
}

// GetOrdersByDeployment returns one deployment's orders in ascending id order
func (k Keeper) GetOrdersByDeployment(ctx context.Context, id deploymenttypes.DeploymentID) []types.Order {
	store := k.getStore(ctx)

	orders := []types.Order{}
	iterator := storetypes.KVStorePrefixIterator(store, types.GetDeploymentOrdersPrefix(id.Owner, id.DSeq))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.Order
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	return orders
}

// IterateOrders walks every stored order, stopping when cb returns true.
// Used by genesis export.
func (k Keeper) IterateOrders(ctx context.Context, cb func(types.Order) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.OrderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.Order
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			k.Logger(ctx).Error("skipping corrupt order record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(order) {
			return
		}
	}
}

// openOrderIDs snapshots the open-order index in ascending id order. The
// match pass mutates order state while walking, so it works off this
// snapshot rather than a live iterator.
func (k Keeper) openOrderIDs(ctx context.Context) []types.OrderID {
	store := k.getStore(ctx)

	ids := []types.OrderID{}
	iterator := storetypes.KVStorePrefixIterator(store, types.OrderOpenIndexPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		orderKey := append(append([]byte{}, types.OrderKeyPrefix...), key[len(types.OrderOpenIndexPrefix):]...)
		bz := store.Get(orderKey)
		if bz == nil {
			continue
		}
		var order types.Order
		if err := json.Unmarshal(bz, &order); err != nil {
			continue
		}
		ids = append(ids, order.ID)
	}

	return ids
}
