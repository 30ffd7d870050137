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

	certkeeper "github.com/vela-grid/vela/x/cert/keeper"
	certtypes "github.com/vela-grid/vela/x/cert/types"
	deploymentkeeper "github.com/vela-grid/vela/x/deployment/keeper"
	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	escrowkeeper "github.com/vela-grid/vela/x/escrow/keeper"
	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	marketkeeper "github.com/vela-grid/vela/x/market/keeper"
	markettypes "github.com/vela-grid/vela/x/market/types"
)

// MarketFixture carries the full keeper stack the market depends on. Cert,
// escrow, deployment and market all share one in-memory multistore so
// cross-module flows (order placement, escrow draws, certificate checks)
// behave as they do in the app.
type MarketFixture struct {
	Market     *marketkeeper.Keeper
	Deployment *deploymentkeeper.Keeper
	Escrow     *escrowkeeper.Keeper
	Cert       *certkeeper.Keeper
	Bank       bankkeeper.BaseKeeper
	Ctx        sdk.Context
}

// MarketKeeper creates a test fixture with the market keeper wired to real
// cert, escrow and deployment keepers.
func MarketKeeper(t testing.TB) MarketFixture {
	marketStoreKey := storetypes.NewKVStoreKey(markettypes.StoreKey)
	deploymentStoreKey := storetypes.NewKVStoreKey(deploymenttypes.StoreKey)
	escrowStoreKey := storetypes.NewKVStoreKey(escrowtypes.StoreKey)
	certStoreKey := storetypes.NewKVStoreKey(certtypes.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(marketStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(deploymentStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(escrowStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(certStoreKey, storetypes.StoreTypeIAVL, db)
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

	certKeeper := certkeeper.NewKeeper(cdc, certStoreKey)
	escrowKeeper := escrowkeeper.NewKeeper(cdc, escrowStoreKey, bankKeeper)
	deploymentKeeper := deploymentkeeper.NewKeeper(cdc, deploymentStoreKey, escrowKeeper)
	marketKeeper := marketkeeper.NewKeeper(cdc, marketStoreKey, escrowKeeper, deploymentKeeper, certKeeper)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: time.Unix(1700000000, 0).UTC()}, false, log.NewNopLogger())

	require.NoError(t, certKeeper.InitGenesis(ctx, *certtypes.DefaultGenesis()))
	require.NoError(t, escrowKeeper.InitGenesis(ctx, *escrowtypes.DefaultGenesis()))
	require.NoError(t, deploymentKeeper.InitGenesis(ctx, *deploymenttypes.DefaultGenesis()))
	require.NoError(t, marketKeeper.InitGenesis(ctx, *markettypes.DefaultGenesis()))

	return MarketFixture{
		Market:     marketKeeper,
		Deployment: deploymentKeeper,
		Escrow:     escrowKeeper,
		Cert:       certKeeper,
		Bank:       bankKeeper,
		Ctx:        ctx,
	}
}

// WithHeight returns a copy of the fixture context advanced to the given
// block height. The market's end-of-block passes key off the header height,
// so scenario tests step heights explicitly.
func (f MarketFixture) WithHeight(height int64) sdk.Context {
	header := f.Ctx.BlockHeader()
	header.Height = height
	return f.Ctx.WithBlockHeader(header)
}
