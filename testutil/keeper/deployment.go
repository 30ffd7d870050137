package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	deploymentkeeper "github.com/vela-grid/vela/x/deployment/keeper"
	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	escrowkeeper "github.com/vela-grid/vela/x/escrow/keeper"
	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
)

// DeploymentKeeper creates a test keeper for the deployment module together
// with the escrow keeper it deposits into and a bank keeper for funding.
func DeploymentKeeper(t testing.TB) (*deploymentkeeper.Keeper, *escrowkeeper.Keeper, bankkeeper.BaseKeeper, sdk.Context) {
	deploymentStoreKey := storetypes.NewKVStoreKey(deploymenttypes.StoreKey)
	escrowStoreKey := storetypes.NewKVStoreKey(escrowtypes.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(deploymentStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(escrowStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		minttypes.ModuleName:       {authtypes.Minter},
		escrowtypes.ModuleName:     nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	escrowKeeper := escrowkeeper.NewKeeper(cdc, escrowStoreKey, bankKeeper)
	k := deploymentkeeper.NewKeeper(cdc, deploymentStoreKey, escrowKeeper)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: time.Unix(1700000000, 0).UTC()}, false, log.NewNopLogger())

	require.NoError(t, escrowKeeper.InitGenesis(ctx, *escrowtypes.DefaultGenesis()))
	require.NoError(t, k.InitGenesis(ctx, *deploymenttypes.DefaultGenesis()))

	return k, escrowKeeper, bankKeeper, ctx
}
