package keeper

import (
	"testing"

	"cosmossdk.io/log"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/baseapp"
	simtestutil "github.com/cosmos/cosmos-sdk/testutil/sims"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/app"
)

// SetupTestApp initializes a full test application with all modules. Most
// tests want one of the per-module fixtures instead; this exists for tests
// that need the real module manager (genesis export, begin/end block order).
func SetupTestApp(t *testing.T) (*app.VelaApp, sdk.Context) {
	t.Helper()

	db := dbm.NewMemDB()
	testApp := app.NewVelaApp(
		log.NewNopLogger(),
		db,
		nil,
		true,
		simtestutil.EmptyAppOptions{},
		baseapp.SetChainID("vela-test-1"),
	)

	ctx := testApp.NewContextLegacy(false, cmtproto.Header{Height: testApp.LastBlockHeight()})

	return testApp, ctx
}
