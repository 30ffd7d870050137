package ante_test

import (
	"testing"

	moduletestutil "github.com/cosmos/cosmos-sdk/types/module/testutil"
	authante "github.com/cosmos/cosmos-sdk/x/auth/ante"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/app/ante"
)

// Construction-only stubs. NewAnteHandler checks its options for nil before
// any keeper method can be reached, so embedding the interface is enough.
type stubAccountKeeper struct{ authante.AccountKeeper }

type stubBankKeeper struct{ authtypes.BankKeeper }

func TestNewAnteHandler_MissingAccountKeeper(t *testing.T) {
	handler, err := ante.NewAnteHandler(ante.HandlerOptions{})
	require.Error(t, err)
	require.Nil(t, handler)
	require.Contains(t, err.Error(), "account keeper is required")
}

func TestNewAnteHandler_MissingBankKeeper(t *testing.T) {
	handler, err := ante.NewAnteHandler(ante.HandlerOptions{
		AccountKeeper: stubAccountKeeper{},
	})
	require.Error(t, err)
	require.Nil(t, handler)
	require.Contains(t, err.Error(), "bank keeper is required")
}

func TestNewAnteHandler_MissingSignModeHandler(t *testing.T) {
	handler, err := ante.NewAnteHandler(ante.HandlerOptions{
		AccountKeeper: stubAccountKeeper{},
		BankKeeper:    stubBankKeeper{},
	})
	require.Error(t, err)
	require.Nil(t, handler)
	require.Contains(t, err.Error(), "sign mode handler is required")
}

func TestNewAnteHandler_WithoutOptionalKeepers(t *testing.T) {
	// IBC, market and cert keepers are optional; the chain must build
	// without them so lightweight test apps can skip module wiring.
	encCfg := moduletestutil.MakeTestEncodingConfig()

	handler, err := ante.NewAnteHandler(ante.HandlerOptions{
		AccountKeeper:   stubAccountKeeper{},
		BankKeeper:      stubBankKeeper{},
		SignModeHandler: encCfg.TxConfig.SignModeHandler(),
	})
	require.NoError(t, err)
	require.NotNil(t, handler)
}
