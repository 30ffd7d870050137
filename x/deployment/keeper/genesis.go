package keeper

import (
	"context"
	"fmt"

	"github.com/vela-grid/vela/x/deployment/types"
)

// InitGenesis initializes the deployment module state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("init genesis: %w", err)
	}

	var maxDSeq uint64
	for _, deployment := range genState.Deployments {
		if err := deployment.Validate(); err != nil {
			return fmt.Errorf("init genesis: invalid deployment %s: %w", deployment.ID, err)
		}
		if err := k.SetDeployment(ctx, deployment); err != nil {
			return fmt.Errorf("init genesis: %w", err)
		}
		if deployment.ID.DSeq > maxDSeq {
			maxDSeq = deployment.ID.DSeq
		}
	}

	for _, group := range genState.Groups {
		if err := group.Validate(); err != nil {
			return fmt.Errorf("init genesis: invalid group %s: %w", group.ID, err)
		}
		if err := k.SetGroup(ctx, group); err != nil {
			return fmt.Errorf("init genesis: %w", err)
		}
	}

	next := genState.NextDSeq
	if next == 0 {
		next = 1
	}
	if maxDSeq >= next {
		next = maxDSeq + 1
	}
	k.SetNextDSeq(ctx, next)

	return nil
}

// ExportGenesis returns the deployment module state as a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genState := types.DefaultGenesis()

	params, err := k.GetParams(ctx)
	if err == nil {
		genState.Params = params
	}

	genState.NextDSeq = k.PeekNextDSeq(ctx)

	k.IterateDeployments(ctx, func(deployment types.Deployment) bool {
		genState.Deployments = append(genState.Deployments, deployment)
		return false
	})

	k.IterateGroups(ctx, func(group types.Group) bool {
		genState.Groups = append(genState.Groups, group)
		return false
	})

	return genState
}
