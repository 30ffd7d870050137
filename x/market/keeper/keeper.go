package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/market/types"
)

// Keeper of the market store. The market sits downstream of the deployment,
// escrow and cert modules: deployments publish orders here, escrow custodies
// the funds leases draw on, and certs gate who may bid.
type Keeper struct {
	storeKey         storetypes.StoreKey
	cdc              codec.BinaryCodec
	escrowKeeper     types.EscrowKeeper
	deploymentKeeper types.DeploymentKeeper
	certKeeper       types.CertKeeper
	metrics          *MarketMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new market Keeper instance
func NewKeeper(
	cdc codec.BinaryCodec,
	key storetypes.StoreKey,
	escrowKeeper types.EscrowKeeper,
	deploymentKeeper types.DeploymentKeeper,
	certKeeper types.CertKeeper,
) *Keeper {
	return &Keeper{
		storeKey:         key,
		cdc:              cdc,
		escrowKeeper:     escrowKeeper,
		deploymentKeeper: deploymentKeeper,
		certKeeper:       certKeeper,
		metrics:          NewMarketMetrics(),
	}
}

// getStore returns the KVStore for the market module
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
