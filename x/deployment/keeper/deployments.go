package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/deployment/types"
)

// GetNextDSeq returns and increments the global deployment sequence
func (k Keeper) GetNextDSeq(ctx context.Context) (uint64, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.NextDSeqKey)

	var next uint64 = 1
	if bz != nil {
		next = binary.BigEndian.Uint64(bz)
	}

	nextBz := make([]byte, 8)
	binary.BigEndian.PutUint64(nextBz, next+1)
	store.Set(types.NextDSeqKey, nextBz)

	return next, nil
}

// PeekNextDSeq returns the next dseq without consuming it
func (k Keeper) PeekNextDSeq(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(types.NextDSeqKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

// SetNextDSeq overwrites the global deployment sequence. Used by genesis import.
func (k Keeper) SetNextDSeq(ctx context.Context, dseq uint64) {
	store := k.getStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, dseq)
	store.Set(types.NextDSeqKey, bz)
}

// SetDeployment stores a deployment record
func (k Keeper) SetDeployment(ctx context.Context, deployment types.Deployment) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(deployment)
	if err != nil {
		return fmt.Errorf("SetDeployment: marshal: %w", err)
	}

	store.Set(types.GetDeploymentKey(deployment.ID), bz)
	return nil
}

// GetDeployment retrieves a deployment by id
func (k Keeper) GetDeployment(ctx context.Context, id types.DeploymentID) (types.Deployment, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetDeploymentKey(id))
	if bz == nil {
		return types.Deployment{}, types.ErrDeploymentNotFound.Wrapf("id %s", id)
	}

	var deployment types.Deployment
	if err := json.Unmarshal(bz, &deployment); err != nil {
		return types.Deployment{}, fmt.Errorf("GetDeployment: unmarshal: %w", err)
	}

	return deployment, nil
}

// HasDeployment reports whether a deployment exists for the id
func (k Keeper) HasDeployment(ctx context.Context, id types.DeploymentID) bool {
	store := k.getStore(ctx)
	return store.Has(types.GetDeploymentKey(id))
}

// CreateDeployment stores a new deployment with its groups. The dseq is
// keeper-assigned from the global sequence; groups are numbered from 1 in
// the order given. Escrow funding and order creation are the msg server's
// responsibility.
func (k Keeper) CreateDeployment(ctx context.Context, owner sdk.AccAddress, groupSpecs []types.GroupSpec) (types.Deployment, []types.Group, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if len(groupSpecs) == 0 {
		return types.Deployment{}, nil, types.ErrEmptyGroups
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Deployment{}, nil, fmt.Errorf("CreateDeployment: %w", err)
	}

	if uint32(len(groupSpecs)) > params.MaxGroups {
		return types.Deployment{}, nil, types.ErrTooManyGroups.Wrapf("%d groups, maximum %d", len(groupSpecs), params.MaxGroups)
	}

	for _, gs := range groupSpecs {
		if err := gs.Validate(); err != nil {
			return types.Deployment{}, nil, err
		}
	}

	dseq, err := k.GetNextDSeq(ctx)
	if err != nil {
		return types.Deployment{}, nil, fmt.Errorf("CreateDeployment: next dseq: %w", err)
	}

	deployment := types.Deployment{
		ID:        types.DeploymentID{Owner: owner.String(), DSeq: dseq},
		State:     types.DeploymentStateActive,
		CreatedAt: sdkCtx.BlockHeight(),
	}

	if err := k.SetDeployment(ctx, deployment); err != nil {
		return types.Deployment{}, nil, fmt.Errorf("CreateDeployment: %w", err)
	}

	groups := make([]types.Group, 0, len(groupSpecs))
	for i, gs := range groupSpecs {
		group := types.Group{
			ID:        types.MakeGroupID(deployment.ID, uint32(i+1)),
			Spec:      gs,
			State:     types.GroupStateOpen,
			CreatedAt: sdkCtx.BlockHeight(),
		}
		if err := k.SetGroup(ctx, group); err != nil {
			return types.Deployment{}, nil, fmt.Errorf("CreateDeployment: %w", err)
		}
		groups = append(groups, group)
	}

	k.metrics.DeploymentsCreated.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeploymentCreated,
			sdk.NewAttribute(types.AttributeKeyOwner, deployment.ID.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", deployment.ID.DSeq)),
			sdk.NewAttribute(types.AttributeKeyGroups, fmt.Sprintf("%d", len(groups))),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return deployment, groups, nil
}

// CloseDeployment closes the deployment and every group still live under it.
// Called from the market module's close processing, after orders, bids, and
// leases have been wound down; also the exit path when the deployment's
// escrow is exhausted.
func (k Keeper) CloseDeployment(ctx context.Context, id types.DeploymentID) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	deployment, err := k.GetDeployment(ctx, id)
	if err != nil {
		return err
	}

	if deployment.State != types.DeploymentStateActive {
		return types.ErrDeploymentClosed.Wrapf("id %s", id)
	}

	deployment.State = types.DeploymentStateClosed
	deployment.ClosedAt = sdkCtx.BlockHeight()

	if err := k.SetDeployment(ctx, deployment); err != nil {
		return fmt.Errorf("CloseDeployment: %w", err)
	}

	for _, group := range k.GetGroups(ctx, id) {
		if group.State == types.GroupStateClosed {
			continue
		}
		group.State = types.GroupStateClosed
		if err := k.SetGroup(ctx, group); err != nil {
			return fmt.Errorf("CloseDeployment: %w", err)
		}
		k.metrics.GroupTransitions.WithLabelValues(group.State.String()).Inc()
	}

	k.metrics.DeploymentsClosed.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeploymentClosed,
			sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
			sdk.NewAttribute(types.AttributeKeyDSeq, fmt.Sprintf("%d", id.DSeq)),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return nil
}

// GetDeploymentsByOwner returns all deployments created by the owner
func (k Keeper) GetDeploymentsByOwner(ctx context.Context, owner string) []types.Deployment {
	store := k.getStore(ctx)

	var deployments []types.Deployment
	iterator := storetypes.KVStorePrefixIterator(store, types.GetDeploymentOwnerPrefix(owner))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var deployment types.Deployment
		if err := json.Unmarshal(iterator.Value(), &deployment); err != nil {
			k.Logger(ctx).Error("skipping corrupt deployment record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		deployments = append(deployments, deployment)
	}

	return deployments
}

// IterateDeployments walks every stored deployment, stopping when cb returns
// true. Used by genesis export and invariants.
func (k Keeper) IterateDeployments(ctx context.Context, cb func(types.Deployment) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.DeploymentKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var deployment types.Deployment
		if err := json.Unmarshal(iterator.Value(), &deployment); err != nil {
			k.Logger(ctx).Error("skipping corrupt deployment record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(deployment) {
			return
		}
	}
}
