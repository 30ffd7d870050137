package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	tmtypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/app"
)

// initVelaHome initializes a chain home directory so genesis commands have a
// genesis.json to operate on.
func initVelaHome(t *testing.T) (string, client.Context) {
	t.Helper()
	app.SetConfig()

	homeDir := t.TempDir()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"genesis-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
	cmd.SetOut(new(bytes.Buffer))

	clientCtx := client.Context{}.WithHomeDir(homeDir)
	require.NoError(t, executeCommandWithContext(t, cmd, &clientCtx))

	return homeDir, clientCtx
}

func readAuthBankGenesis(t *testing.T, homeDir string) (authtypes.GenesisState, banktypes.GenesisState) {
	t.Helper()

	genDoc, err := tmtypes.GenesisDocFromFile(filepath.Join(homeDir, "config", "genesis.json"))
	require.NoError(t, err)

	var appState map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(genDoc.AppState, &appState))

	cdc := app.MakeEncodingConfig().Codec

	var authGenesis authtypes.GenesisState
	cdc.MustUnmarshalJSON(appState[authtypes.ModuleName], &authGenesis)

	var bankGenesis banktypes.GenesisState
	cdc.MustUnmarshalJSON(appState[banktypes.ModuleName], &bankGenesis)

	return authGenesis, bankGenesis
}

func runAddGenesisAccount(t *testing.T, homeDir string, clientCtx client.Context, args ...string) error {
	t.Helper()

	cmd := AddGenesisAccountCmd(homeDir)
	cmd.SetArgs(args)
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	return executeCommandWithContext(t, cmd, &clientCtx)
}

func TestAddGenesisAccountCmd(t *testing.T) {
	homeDir, clientCtx := initVelaHome(t)

	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())

	_, bankBefore := readAuthBankGenesis(t, homeDir)
	supplyBefore := bankBefore.Supply

	err := runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "1000000uvela")
	require.NoError(t, err)

	authGenesis, bankGenesis := readAuthBankGenesis(t, homeDir)

	accounts, err := authtypes.UnpackAccounts(authGenesis.Accounts)
	require.NoError(t, err)
	require.True(t, accounts.Contains(addr), "account should be registered in auth genesis")

	balance := findBalance(bankGenesis.Balances, addr.String())
	require.NotNil(t, balance, "account should have a bank balance")
	require.Equal(t, "1000000uvela", balance.Coins.String())

	added := bankGenesis.Supply.Sub(supplyBefore...)
	require.Equal(t, "1000000uvela", added.String(), "supply should grow by exactly the granted coins")
}

func TestAddGenesisAccountCmdDuplicate(t *testing.T) {
	homeDir, clientCtx := initVelaHome(t)

	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())

	require.NoError(t, runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "1000000uvela"))

	// Same account again without --append must be rejected.
	err := runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "500000uvela")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists in genesis")

	// With --append the balance is topped up instead.
	require.NoError(t, runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "500000uvela", "--append"))

	authGenesis, bankGenesis := readAuthBankGenesis(t, homeDir)

	accounts, err := authtypes.UnpackAccounts(authGenesis.Accounts)
	require.NoError(t, err)

	// The account must appear exactly once.
	var occurrences int
	for _, acc := range accounts {
		if acc.GetAddress().Equals(addr) {
			occurrences++
		}
	}
	require.Equal(t, 1, occurrences)

	balance := findBalance(bankGenesis.Balances, addr.String())
	require.NotNil(t, balance)
	require.Equal(t, "1500000uvela", balance.Coins.String())
}

func TestAddGenesisAccountCmdMultipleDenoms(t *testing.T) {
	homeDir, clientCtx := initVelaHome(t)

	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())

	err := runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "1000000uvela,500stake")
	require.NoError(t, err)

	_, bankGenesis := readAuthBankGenesis(t, homeDir)

	balance := findBalance(bankGenesis.Balances, addr.String())
	require.NotNil(t, balance)
	require.Equal(t, "500stake,1000000uvela", balance.Coins.String())
}

func TestAddGenesisAccountCmdInvalidCoins(t *testing.T) {
	homeDir, clientCtx := initVelaHome(t)

	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())

	err := runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "not coins at all")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse coins")
}

func TestAddGenesisAccountCmdUnknownKey(t *testing.T) {
	homeDir, clientCtx := initVelaHome(t)

	// Argument is neither a bech32 address nor a name in the (injected, empty)
	// keyring.
	_, krCtx := newTestKeyring(t)
	clientCtx = clientCtx.WithKeyring(krCtx.Keyring)

	err := runAddGenesisAccount(t, homeDir, clientCtx, "no-such-key", "1000000uvela")
	require.Error(t, err)
}

func TestAddGenesisAccountCmdNoGenesis(t *testing.T) {
	app.SetConfig()

	homeDir := t.TempDir()
	clientCtx := client.Context{}.WithHomeDir(homeDir)

	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())

	err := runAddGenesisAccount(t, homeDir, clientCtx, addr.String(), "1000000uvela")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read genesis file")
}

func TestAddGenesisAccountCmdStructure(t *testing.T) {
	app.SetConfig()

	cmd := AddGenesisAccountCmd(app.DefaultNodeHome)

	require.Equal(t, "add-genesis-account [address_or_key_name] [coins]", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup(flagAppendMode))
	require.NotNil(t, cmd.Flags().Lookup(flags.FlagKeyringBackend))
	require.NotNil(t, cmd.Flags().Lookup(flags.FlagHome))

	require.Error(t, cmd.Args(cmd, []string{"only-one"}))
	require.NoError(t, cmd.Args(cmd, []string{"addr", "coins"}))
}
