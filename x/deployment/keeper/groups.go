package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/deployment/types"
)

// SetGroup stores a group record
func (k Keeper) SetGroup(ctx context.Context, group types.Group) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("SetGroup: marshal: %w", err)
	}

	store.Set(types.GetGroupKey(group.ID), bz)
	return nil
}

// GetGroup retrieves a group by id
func (k Keeper) GetGroup(ctx context.Context, id types.GroupID) (types.Group, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetGroupKey(id))
	if bz == nil {
		return types.Group{}, types.ErrGroupNotFound.Wrapf("id %s", id)
	}

	var group types.Group
	if err := json.Unmarshal(bz, &group); err != nil {
		return types.Group{}, fmt.Errorf("GetGroup: unmarshal: %w", err)
	}

	return group, nil
}

// GetGroups returns all groups of one deployment in gseq order
func (k Keeper) GetGroups(ctx context.Context, id types.DeploymentID) []types.Group {
	store := k.getStore(ctx)

	var groups []types.Group
	iterator := storetypes.KVStorePrefixIterator(store, types.GetDeploymentGroupsPrefix(id))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var group types.Group
		if err := json.Unmarshal(iterator.Value(), &group); err != nil {
			k.Logger(ctx).Error("skipping corrupt group record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		groups = append(groups, group)
	}

	return groups
}

// OnLeaseMatched moves the group to matched when a lease is created against
// its order. Called by the market module.
func (k Keeper) OnLeaseMatched(ctx context.Context, id types.GroupID) error {
	return k.transitionGroup(ctx, id, types.GroupStateOpen, types.GroupStateMatched, "")
}

// OnGroupFailed marks a group failed when its order window expired with no
// valid bid. Called by the market module.
func (k Keeper) OnGroupFailed(ctx context.Context, id types.GroupID) error {
	return k.transitionGroup(ctx, id, types.GroupStateOpen, types.GroupStateFailed, types.EventTypeGroupFailed)
}

// OnGroupClosed marks a group closed when its lease ends for good. Called by
// the market module.
func (k Keeper) OnGroupClosed(ctx context.Context, id types.GroupID) error {
	group, err := k.GetGroup(ctx, id)
	if err != nil {
		return err
	}

	if group.State == types.GroupStateClosed {
		return types.ErrInvalidGroupState.Wrapf("group %s already closed", id)
	}

	group.State = types.GroupStateClosed
	if err := k.SetGroup(ctx, group); err != nil {
		return fmt.Errorf("OnGroupClosed: %w", err)
	}

	k.metrics.GroupTransitions.WithLabelValues(group.State.String()).Inc()
	k.emitGroupEvent(ctx, types.EventTypeGroupClosed, id)
	return nil
}

// OnGroupReopened returns a matched group to open after a provider-side
// lease close, so the market can list a replacement order. Called by the
// market module.
func (k Keeper) OnGroupReopened(ctx context.Context, id types.GroupID) error {
	return k.transitionGroup(ctx, id, types.GroupStateMatched, types.GroupStateOpen, "")
}

func (k Keeper) transitionGroup(ctx context.Context, id types.GroupID, from, to types.GroupState, eventType string) error {
	group, err := k.GetGroup(ctx, id)
	if err != nil {
		return err
	}

	if group.State != from {
		return types.ErrInvalidGroupState.Wrapf("group %s is %s, expected %s", id, group.State, from)
	}

	group.State = to
	if err := k.SetGroup(ctx, group); err != nil {
		return fmt.Errorf("transitionGroup: %w", err)
	}

	k.metrics.GroupTransitions.WithLabelValues(to.String()).Inc()
	if eventType != "" {
		k.emitGroupEvent(ctx, eventType, id)
	}
	return nil
}

func (k Keeper) emitGroupEvent(ctx context.Context, eventType string, id types.GroupID) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", id.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGSeq, fmt.Sprintf("%d", id.GSeq)),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)
}

// IterateGroups walks every stored group, stopping when cb returns true.
// Used by genesis export.
func (k Keeper) IterateGroups(ctx context.Context, cb func(types.Group) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.GroupKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var group types.Group
		if err := json.Unmarshal(iterator.Value(), &group); err != nil {
			k.Logger(ctx).Error("skipping corrupt group record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(group) {
			return
		}
	}
}
