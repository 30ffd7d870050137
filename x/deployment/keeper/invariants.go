package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	"github.com/vela-grid/vela/x/deployment/types"
)

// RegisterInvariants registers the deployment module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "active-escrow-backing", ActiveEscrowBackingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "well-formed-records", WellFormedRecordsInvariant(k))
}

// AllInvariants runs all invariants of the deployment module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		msg, broke := ActiveEscrowBackingInvariant(k)(ctx)
		if broke {
			return msg, broke
		}
		return WellFormedRecordsInvariant(k)(ctx)
	}
}

// ActiveEscrowBackingInvariant checks that every active deployment has an
// open escrow account funding it.
func ActiveEscrowBackingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		k.IterateDeployments(ctx, func(deployment types.Deployment) bool {
			if deployment.State != types.DeploymentStateActive {
				return false
			}

			account, err := k.escrowKeeper.GetAccount(ctx, deployment.ID.EscrowAccountID())
			if err != nil {
				broken = true
				msg += fmt.Sprintf("active deployment %s has no escrow account\n", deployment.ID)
				return false
			}

			if account.State != escrowtypes.AccountStateOpen {
				broken = true
				msg += fmt.Sprintf("active deployment %s backed by %s escrow account\n", deployment.ID, account.State)
			}
			return false
		})

		return sdk.FormatInvariant(types.ModuleName, "active-escrow-backing",
			fmt.Sprintf("found active deployments without open escrow backing\n%s", msg)), broken
	}
}

// WellFormedRecordsInvariant checks that all stored deployments and groups
// pass validation and that every group references a stored deployment.
func WellFormedRecordsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		k.IterateDeployments(ctx, func(deployment types.Deployment) bool {
			if err := deployment.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("invalid deployment %s: %v\n", deployment.ID, err)
			}
			return false
		})

		k.IterateGroups(ctx, func(group types.Group) bool {
			if err := group.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("invalid group %s: %v\n", group.ID, err)
			}
			if !k.HasDeployment(ctx, group.ID.DeploymentID()) {
				broken = true
				msg += fmt.Sprintf("group %s references missing deployment\n", group.ID)
			}
			return false
		})

		return sdk.FormatInvariant(types.ModuleName, "well-formed-records",
			fmt.Sprintf("found malformed deployment records\n%s", msg)), broken
	}
}
