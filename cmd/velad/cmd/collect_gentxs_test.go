package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"

	"github.com/vela-grid/vela/app"
)

func TestMsgCreateValidatorToGenesisValidator(t *testing.T) {
	encodingConfig := app.MakeEncodingConfig()
	pk := ed25519.GenPrivKey().PubKey()

	valAddr := sdk.ValAddress(pk.Address())
	msg, err := stakingtypes.NewMsgCreateValidator(
		valAddr.String(),
		pk,
		sdk.NewCoin("uvela", sdkmath.NewInt(5_000_000)),
		stakingtypes.NewDescription("node1", "", "", "", ""),
		stakingtypes.NewCommissionRates(math.LegacyMustNewDecFromStr("0.10"), math.LegacyMustNewDecFromStr("0.20"), math.LegacyMustNewDecFromStr("0.01")),
		math.NewInt(1),
	)
	require.NoError(t, err)

	validator, err := msgCreateValidatorToGenesisValidator(encodingConfig.InterfaceRegistry, msg)
	require.NoError(t, err)
	require.Equal(t, valAddr, sdk.ValAddress(validator.Address))
	require.Equal(t, "node1", validator.Name)
	require.Equal(t, sdk.TokensToConsensusPower(msg.Value.Amount, sdk.DefaultPowerReduction), validator.Power)
}

func TestMsgCreateValidatorToGenesisValidatorZeroPower(t *testing.T) {
	encodingConfig := app.MakeEncodingConfig()
	pk := ed25519.GenPrivKey().PubKey()

	valAddr := sdk.ValAddress(pk.Address())
	msg, err := stakingtypes.NewMsgCreateValidator(
		valAddr.String(),
		pk,
		sdk.NewCoin("uvela", sdkmath.ZeroInt()),
		stakingtypes.NewDescription("node1", "", "", "", ""),
		stakingtypes.NewCommissionRates(math.LegacyMustNewDecFromStr("0.10"), math.LegacyMustNewDecFromStr("0.20"), math.LegacyMustNewDecFromStr("0.01")),
		math.NewInt(1),
	)
	require.NoError(t, err)

	_, err = msgCreateValidatorToGenesisValidator(encodingConfig.InterfaceRegistry, msg)
	require.Error(t, err)
}

func TestMsgCreateValidatorToGenesisValidatorNil(t *testing.T) {
	encodingConfig := app.MakeEncodingConfig()

	_, err := msgCreateValidatorToGenesisValidator(encodingConfig.InterfaceRegistry, nil)
	require.Error(t, err)
}

func TestFindBalance(t *testing.T) {
	addr := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()
	other := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()

	balances := []banktypes.Balance{
		{Address: addr, Coins: sdk.NewCoins(sdk.NewInt64Coin("uvela", 1000))},
	}

	found := findBalance(balances, addr)
	require.NotNil(t, found)
	require.Equal(t, addr, found.Address)

	require.Nil(t, findBalance(balances, other))
}

func TestEnsureBalanceAppends(t *testing.T) {
	addr := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()

	balances := []banktypes.Balance{}
	entry := ensureBalance(&balances, addr)
	require.NotNil(t, entry)
	require.Len(t, balances, 1)
	require.True(t, entry.Coins.IsZero())

	entry.Coins = entry.Coins.Add(sdk.NewInt64Coin("uvela", 42))
	require.Equal(t, "42uvela", balances[0].Coins.String())

	// A second call must return the existing entry, not append a duplicate.
	again := ensureBalance(&balances, addr)
	require.Len(t, balances, 1)
	require.Equal(t, "42uvela", again.Coins.String())
}
