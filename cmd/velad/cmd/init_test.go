package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tmtypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/app"
)

// testMnemonic is the BIP39 reference vector, used where a deterministic
// consensus key is needed.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func setFlag(tb testing.TB, flagSet *pflag.FlagSet, name, value string) {
	tb.Helper()
	require.NoError(tb, flagSet.Set(name, value))
}

func TestInitCmd(t *testing.T) {
	tests := []struct {
		name      string
		moniker   string
		chainID   string
		overwrite bool
		wantErr   bool
	}{
		{
			name:    "valid init with chain ID",
			moniker: "test-node",
			chainID: "vela-1",
		},
		{
			name:    "valid init without chain ID (auto-generate)",
			moniker: "test-node-2",
			chainID: "",
		},
		{
			name:      "valid init with overwrite",
			moniker:   "test-node-3",
			chainID:   "vela-testnet-3",
			overwrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			homeDir := t.TempDir()
			app.SetConfig()

			cmd := InitCmd(homeDir)
			require.NotNil(t, cmd)

			cmd.SetArgs([]string{tt.moniker})
			setFlag(t, cmd.Flags(), flags.FlagChainID, tt.chainID)
			setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
			if tt.overwrite {
				setFlag(t, cmd.Flags(), flagOverwrite, "true")
			}

			outBuf := new(bytes.Buffer)
			cmd.SetOut(outBuf)
			cmd.SetErr(outBuf)

			clientCtx := client.Context{}.WithHomeDir(homeDir)

			err := executeCommandWithContext(t, cmd, &clientCtx)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			genFile := filepath.Join(homeDir, "config", "genesis.json")
			require.FileExists(t, genFile, "genesis file should be created")

			genDoc, err := tmtypes.GenesisDocFromFile(genFile)
			require.NoError(t, err)
			require.NotNil(t, genDoc)

			if tt.chainID != "" {
				require.Equal(t, tt.chainID, genDoc.ChainID)
			} else {
				require.Contains(t, genDoc.ChainID, "vela-local-")
			}

			require.NotNil(t, genDoc.ConsensusParams)
			require.Equal(t, int64(2097152), genDoc.ConsensusParams.Block.MaxBytes)
			require.Equal(t, int64(100000000), genDoc.ConsensusParams.Block.MaxGas)

			require.DirExists(t, filepath.Join(homeDir, "config"))
			require.DirExists(t, filepath.Join(homeDir, "data"))

			require.FileExists(t, filepath.Join(homeDir, "config", "node_key.json"))
			require.FileExists(t, filepath.Join(homeDir, "config", "priv_validator_key.json"))
		})
	}
}

func TestInitCmdGenesisExists(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-1")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	// Second init without --overwrite must refuse to clobber the genesis.
	cmd2 := InitCmd(homeDir)
	cmd2.SetArgs([]string{"test-node-2"})
	setFlag(t, cmd2.Flags(), flags.FlagChainID, "vela-testnet-2")
	setFlag(t, cmd2.Flags(), flags.FlagHome, homeDir)

	outBuf2 := new(bytes.Buffer)
	cmd2.SetOut(outBuf2)
	cmd2.SetErr(outBuf2)

	err = executeCommandWithContext(t, cmd2, &clientCtx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "genesis.json file already exists")
}

func TestInitCmdWithOverwrite(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-1")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	genFile := filepath.Join(homeDir, "config", "genesis.json")
	genDoc1, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)
	originalTime := genDoc1.GenesisTime

	time.Sleep(10 * time.Millisecond)

	cmd2 := InitCmd(homeDir)
	cmd2.SetArgs([]string{"test-node-overwrite"})
	setFlag(t, cmd2.Flags(), flags.FlagChainID, "vela-testnet-2")
	setFlag(t, cmd2.Flags(), flags.FlagHome, homeDir)
	setFlag(t, cmd2.Flags(), flagOverwrite, "true")

	outBuf2 := new(bytes.Buffer)
	cmd2.SetOut(outBuf2)

	err = executeCommandWithContext(t, cmd2, &clientCtx)
	require.NoError(t, err)

	genDoc2, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)
	require.Equal(t, "vela-testnet-2", genDoc2.ChainID)
	require.NotEqual(t, originalTime, genDoc2.GenesisTime, "genesis time should be different after overwrite")
}

func TestInitCmdGenesisValidation(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"validator-1"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	genFile := filepath.Join(homeDir, "config", "genesis.json")
	genDoc, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)

	require.Equal(t, "vela-testnet", genDoc.ChainID)
	require.NotEmpty(t, genDoc.AppState)

	var appState map[string]json.RawMessage
	err = json.Unmarshal(genDoc.AppState, &appState)
	require.NoError(t, err)
	require.NotEmpty(t, appState)

	require.NotNil(t, genDoc.ConsensusParams)
	require.NotNil(t, genDoc.ConsensusParams.Block)
	require.NotNil(t, genDoc.ConsensusParams.Evidence)
	require.NotNil(t, genDoc.ConsensusParams.Validator)
}

func TestInitCmdConsensusParams(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-validator"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	genFile := filepath.Join(homeDir, "config", "genesis.json")
	genDoc, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)

	require.Equal(t, int64(2097152), genDoc.ConsensusParams.Block.MaxBytes, "block MaxBytes should be 2MB")
	require.Equal(t, int64(100000000), genDoc.ConsensusParams.Block.MaxGas, "block MaxGas should be 100M")
	require.Equal(t, int64(400000), genDoc.ConsensusParams.Evidence.MaxAgeNumBlocks, "evidence MaxAgeNumBlocks should be ~23 days at 5s blocks")
	require.Equal(t, 21*24*time.Hour, genDoc.ConsensusParams.Evidence.MaxAgeDuration, "evidence MaxAgeDuration should be 21 days")
	require.Equal(t, int64(1048576), genDoc.ConsensusParams.Evidence.MaxBytes, "evidence MaxBytes should be 1MB")
}

func TestInitCmdRecoverMnemonic(t *testing.T) {
	app.SetConfig()

	// The same mnemonic must derive the same consensus key regardless of
	// the home directory.
	var pubKeys []interface{}
	for i := 0; i < 2; i++ {
		homeDir := t.TempDir()

		cmd := InitCmd(homeDir)
		cmd.SetArgs([]string{fmt.Sprintf("recovered-%d", i)})
		setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
		setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
		setFlag(t, cmd.Flags(), flagRecover, "true")
		cmd.SetIn(strings.NewReader(testMnemonic + "\n"))

		outBuf := new(bytes.Buffer)
		cmd.SetOut(outBuf)

		clientCtx := client.Context{}.WithHomeDir(homeDir)

		err := executeCommandWithContext(t, cmd, &clientCtx)
		require.NoError(t, err)

		privValKeyData, err := os.ReadFile(filepath.Join(homeDir, "config", "priv_validator_key.json"))
		require.NoError(t, err)

		var privValKey map[string]interface{}
		require.NoError(t, json.Unmarshal(privValKeyData, &privValKey))
		pubKeys = append(pubKeys, privValKey["pub_key"])
	}

	require.Equal(t, pubKeys[0], pubKeys[1], "recovered consensus keys should match")
}

func TestInitCmdRecoverInvalidMnemonic(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
	setFlag(t, cmd.Flags(), flagRecover, "true")
	cmd.SetIn(strings.NewReader("definitely not a valid mnemonic\n"))

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid mnemonic")
}

func TestFileExists(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-file-*")
	require.NoError(t, err)
	tmpFileName := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpFileName)

	require.True(t, fileExists(tmpFileName))

	err = os.Remove(tmpFileName)
	require.NoError(t, err)

	require.False(t, fileExists(tmpFileName))
	require.False(t, fileExists("/path/that/does/not/exist"))

	// Directories are not files.
	require.False(t, fileExists(t.TempDir()))
}

func TestInitCmdOutput(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-validator"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	output := outBuf.String()

	require.Contains(t, output, "Successfully initialized chain configuration")
	require.Contains(t, output, "Chain ID: vela-testnet")
	require.Contains(t, output, "Moniker: test-validator")
	require.Contains(t, output, "Node ID:")
	require.Contains(t, output, "Home directory:")
	require.Contains(t, output, "Genesis file:")
	require.Contains(t, output, "Config file:")
	require.Contains(t, output, "App config:")
}

// executeCommandWithContext wires a fully populated client context into the
// command before running it, the way the root command's PersistentPreRunE
// would in production.
func executeCommandWithContext(t testing.TB, cmd *cobra.Command, clientCtx *client.Context) error {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(clientCtx.HomeDir, "config"), 0o755); err != nil {
		return err
	}

	encodingConfig := app.MakeEncodingConfig()

	*clientCtx = clientCtx.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig).
		WithLegacyAmino(encodingConfig.Amino).
		WithHomeDir(clientCtx.HomeDir)

	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}

	_ = client.SetCmdClientContextHandler(*clientCtx, cmd)

	return cmd.Execute()
}

func TestInitCmdNodeKeyGeneration(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	nodeKeyFile := filepath.Join(homeDir, "config", "node_key.json")
	require.FileExists(t, nodeKeyFile)

	nodeKeyData, err := os.ReadFile(nodeKeyFile)
	require.NoError(t, err)

	var nodeKey map[string]interface{}
	err = json.Unmarshal(nodeKeyData, &nodeKey)
	require.NoError(t, err)
	require.Contains(t, nodeKey, "priv_key")
}

func TestInitCmdPrivValidatorKeyGeneration(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	privValKeyFile := filepath.Join(homeDir, "config", "priv_validator_key.json")
	require.FileExists(t, privValKeyFile)

	privValKeyData, err := os.ReadFile(privValKeyFile)
	require.NoError(t, err)

	var privValKey map[string]interface{}
	err = json.Unmarshal(privValKeyData, &privValKey)
	require.NoError(t, err)
	require.Contains(t, privValKey, "address")
	require.Contains(t, privValKey, "pub_key")
	require.Contains(t, privValKey, "priv_key")
}

func TestInitCmdMultipleChains(t *testing.T) {
	chains := []string{"vela-1", "vela-testnet-2", "vela-devnet"}

	for i, chainID := range chains {
		homeDir := t.TempDir()
		app.SetConfig()

		cmd := InitCmd(homeDir)
		moniker := fmt.Sprintf("validator-%d", i)
		cmd.SetArgs([]string{moniker})
		setFlag(t, cmd.Flags(), flags.FlagChainID, chainID)
		setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

		outBuf := new(bytes.Buffer)
		cmd.SetOut(outBuf)

		clientCtx := client.Context{}.WithHomeDir(homeDir)

		err := executeCommandWithContext(t, cmd, &clientCtx)
		require.NoError(t, err)

		genFile := filepath.Join(homeDir, "config", "genesis.json")
		genDoc, err := tmtypes.GenesisDocFromFile(genFile)
		require.NoError(t, err)
		require.Equal(t, chainID, genDoc.ChainID)
	}
}

func TestInitCmdGenesisTimeSet(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	beforeTime := time.Now()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	afterTime := time.Now()

	genFile := filepath.Join(homeDir, "config", "genesis.json")
	genDoc, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)

	require.True(t, genDoc.GenesisTime.After(beforeTime) || genDoc.GenesisTime.Equal(beforeTime))
	require.True(t, genDoc.GenesisTime.Before(afterTime) || genDoc.GenesisTime.Equal(afterTime))
}

func TestInitCmdAppStateModules(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)
	cmd.SetArgs([]string{"test-node"})
	setFlag(t, cmd.Flags(), flags.FlagChainID, "vela-testnet")
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)

	clientCtx := client.Context{}.WithHomeDir(homeDir)

	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.NoError(t, err)

	genFile := filepath.Join(homeDir, "config", "genesis.json")
	genDoc, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)

	require.NotEmpty(t, genDoc.AppState)

	var appState map[string]json.RawMessage
	err = json.Unmarshal(genDoc.AppState, &appState)
	require.NoError(t, err)

	expectedModules := []string{
		"auth",
		"bank",
		"staking",
		"gov",
		"cert",
		"market",
		"escrow",
		"deployment",
	}

	for _, module := range expectedModules {
		require.Contains(t, appState, module, "app state should contain %s module", module)
	}
}

func TestInitCmdFlagDefaults(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)

	overwrite, err := cmd.Flags().GetBool(flagOverwrite)
	require.NoError(t, err)
	require.False(t, overwrite)

	recoverFlag, err := cmd.Flags().GetBool(flagRecover)
	require.NoError(t, err)
	require.False(t, recoverFlag)

	home, err := cmd.Flags().GetString(flags.FlagHome)
	require.NoError(t, err)
	require.Equal(t, homeDir, home)
}

func TestInitCmdCommandStructure(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)

	require.Equal(t, "init [moniker]", cmd.Use)
	require.NotEmpty(t, cmd.Short)
	require.NotEmpty(t, cmd.Long)
	require.NotNil(t, cmd.RunE)

	require.NotNil(t, cmd.Flags().Lookup(flags.FlagChainID))
	require.NotNil(t, cmd.Flags().Lookup(flagOverwrite))
	require.NotNil(t, cmd.Flags().Lookup(flagRecover))
	require.NotNil(t, cmd.Flags().Lookup(flags.FlagHome))
}

func TestInitCmdLongDescription(t *testing.T) {
	homeDir := t.TempDir()
	app.SetConfig()

	cmd := InitCmd(homeDir)

	require.Contains(t, cmd.Long, "velad init")
	require.Contains(t, cmd.Long, "chain-id")
}

func BenchmarkInitCmd(b *testing.B) {
	app.SetConfig()

	for i := 0; i < b.N; i++ {
		homeDir := b.TempDir()

		cmd := InitCmd(homeDir)
		cmd.SetArgs([]string{"test-node"})
		setFlag(b, cmd.Flags(), flags.FlagChainID, "vela-testnet")
		setFlag(b, cmd.Flags(), flags.FlagHome, homeDir)

		outBuf := new(bytes.Buffer)
		cmd.SetOut(outBuf)

		clientCtx := client.Context{}.WithHomeDir(homeDir)

		_ = executeCommandWithContext(b, cmd, &clientCtx)
	}
}
