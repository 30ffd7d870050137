package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/deployment/types"
)

// Keeper of the deployment store
type Keeper struct {
	storeKey     storetypes.StoreKey
	cdc          codec.BinaryCodec
	escrowKeeper types.EscrowKeeper
	metrics      *DeploymentMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new deployment Keeper instance
func NewKeeper(cdc codec.BinaryCodec, key storetypes.StoreKey, escrowKeeper types.EscrowKeeper) *Keeper {
	return &Keeper{
		storeKey:     key,
		cdc:          cdc,
		escrowKeeper: escrowKeeper,
		metrics:      NewDeploymentMetrics(),
	}
}

// getStore returns the KVStore for the deployment module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
