package keeper

import (
	"context"
	"fmt"

	"github.com/vela-grid/vela/x/escrow/types"
)

// InitGenesis initializes the escrow module's state from a genesis state.
// SetAccount rebuilds the owner index alongside the primary records.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, account := range genState.Accounts {
		if err := account.Validate(); err != nil {
			return fmt.Errorf("invalid account %s: %w", account.ID, err)
		}
		if err := k.SetAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to set account %s: %w", account.ID, err)
		}
	}

	return nil
}

// ExportGenesis returns the escrow module's exported genesis state
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genState := types.DefaultGenesis()

	params, err := k.GetParams(ctx)
	if err == nil {
		genState.Params = params
	}

	k.IterateAccounts(ctx, func(account types.Account) bool {
		genState.Accounts = append(genState.Accounts, account)
		return false
	})

	return genState
}
