package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vela-grid/vela/x/market/types"
)

// GetParams returns the current parameters from the store
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("GetParams: unmarshal: %w", err)
	}
	return params, nil
}

// SetParams sets the parameters in the store
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("SetParams: %w", err)
	}

	store := k.getStore(ctx)
	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("SetParams: marshal: %w", err)
	}
	store.Set(types.ParamsKey, bz)
	return nil
}

// SettlementInterval returns the settlement interval parameter. Deployment
// close uses it to size the escrow withdraw reserve.
func (k Keeper) SettlementInterval(ctx context.Context) int64 {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.DefaultSettlementInterval
	}
	return params.SettlementInterval
}
