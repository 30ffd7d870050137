package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	"github.com/vela-grid/vela/x/market/types"
)

// SetLease stores a lease record and maintains the live-lease and provider
// indexes.
func (k Keeper) SetLease(ctx context.Context, lease types.Lease) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(lease)
	if err != nil {
		return fmt.Errorf("SetLease: marshal: %w", err)
	}

	primaryKey := types.GetLeaseKey(lease.ID)
	store.Set(primaryKey, bz)
	store.Set(types.GetLeaseProviderIndexKey(lease.ID), primaryKey)

	liveKey := types.GetLeaseLiveIndexKey(lease.ID)
	if lease.Live() {
		store.Set(liveKey, []byte{1})
	} else {
		store.Delete(liveKey)
	}

	return nil
}

// GetLease retrieves a lease by id
func (k Keeper) GetLease(ctx context.Context, id types.LeaseID) (types.Lease, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetLeaseKey(id))
	if bz == nil {
		return types.Lease{}, types.ErrLeaseNotFound.Wrapf("id %s", id)
	}

	var lease types.Lease
	if err := json.Unmarshal(bz, &lease); err != nil {
		return types.Lease{}, fmt.Errorf("GetLease: unmarshal: %w", err)
	}

	return lease, nil
}

// HasLease reports whether a lease exists for the id
func (k Keeper) HasLease(ctx context.Context, id types.LeaseID) bool {
	return k.getStore(ctx).Has(types.GetLeaseKey(id))
}

// createLease opens a lease against the winning bid. The settlement
// checkpoint starts at the current height, so the first charged block is the
// one after the match.
func (k Keeper) createLease(ctx context.Context, bid types.Bid) (types.Lease, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()

	lease := types.Lease{
		ID:        bid.ID,
		Price:     bid.Price,
		State:     types.LeaseStateActive,
		CreatedAt: height,
		SettledAt: height,
		TotalPaid: sdk.NewInt64Coin(bid.Price.Denom, 0),
	}

	if err := k.SetLease(ctx, lease); err != nil {
		return types.Lease{}, fmt.Errorf("createLease: %w", err)
	}

	k.metrics.LeasesCreated.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLeaseCreated,
			sdk.NewAttribute(types.AttributeKeyOwner, lease.ID.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", lease.ID.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", lease.ID.GSeq)),
			sdk.NewAttribute(types.AttributeKeyOSeq, fmt.Sprintf("%d", lease.ID.OSeq)),
			sdk.NewAttribute(types.AttributeKeyProvider, lease.ID.Provider),
			sdk.NewAttribute(types.AttributeKeyPrice, lease.Price.String()),
		),
	)

	k.Logger(ctx).Info("lease created", "lease", lease.ID.String(), "price", lease.Price.String())
	return lease, nil
}

// GetLeasesByOwner returns all leases under one tenant's deployments in
// ascending id order.
func (k Keeper) GetLeasesByOwner(ctx context.Context, owner string) []types.Lease {
	return k.collectLeases(ctx, types.GetLeaseOwnerPrefix(owner))
}

// GetLeasesByDeployment returns one deployment's leases in ascending id order
func (k Keeper) GetLeasesByDeployment(ctx context.Context, id deploymenttypes.DeploymentID) []types.Lease {
	return k.collectLeases(ctx, types.GetDeploymentLeasesPrefix(id.Owner, id.DSeq))
}

func (k Keeper) collectLeases(ctx context.Context, prefix []byte) []types.Lease {
	store := k.getStore(ctx)

	leases := []types.Lease{}
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var lease types.Lease
		if err := json.Unmarshal(iterator.Value(), &lease); err != nil {
			continue
		}
		leases = append(leases, lease)
	}

	return leases
}

// GetLeasesByProvider returns all of a provider's leases, resolved through
// the provider index.
func (k Keeper) GetLeasesByProvider(ctx context.Context, provider string) []types.Lease {
	store := k.getStore(ctx)

	leases := []types.Lease{}
	iterator := storetypes.KVStorePrefixIterator(store, types.GetLeaseProviderPrefix(provider))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		bz := store.Get(iterator.Value())
		if bz == nil {
			continue
		}
		var lease types.Lease
		if err := json.Unmarshal(bz, &lease); err != nil {
			continue
		}
		leases = append(leases, lease)
	}

	return leases
}

// IterateLeases walks every stored lease, stopping when cb returns true.
// Used by genesis export.
func (k Keeper) IterateLeases(ctx context.Context, cb func(types.Lease) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.LeaseKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var lease types.Lease
		if err := json.Unmarshal(iterator.Value(), &lease); err != nil {
			k.Logger(ctx).Error("skipping corrupt lease record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(lease) {
			return
		}
	}
}

// liveLeaseIDs snapshots the live-lease index in ascending id order. The
// settlement pass mutates lease state while walking, so it works off this
// snapshot rather than a live iterator.
func (k Keeper) liveLeaseIDs(ctx context.Context) []types.LeaseID {
	store := k.getStore(ctx)

	ids := []types.LeaseID{}
	iterator := storetypes.KVStorePrefixIterator(store, types.LeaseLiveIndexPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		primaryKey := append(append([]byte{}, types.LeaseKeyPrefix...), key[len(types.LeaseLiveIndexPrefix):]...)
		bz := store.Get(primaryKey)
		if bz == nil {
			continue
		}
		var lease types.Lease
		if err := json.Unmarshal(bz, &lease); err != nil {
			continue
		}
		ids = append(ids, lease.ID)
	}

	return ids
}
