package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/app"
)

func TestTxCommand(t *testing.T) {
	app.SetConfig()

	cmd := txCommand()
	require.NotNil(t, cmd)
	require.Equal(t, "tx", cmd.Use)
	require.Equal(t, "Transactions subcommands", cmd.Short)
	require.True(t, cmd.DisableFlagParsing)
	require.Equal(t, 2, cmd.SuggestionsMinimumDistance)
	require.NotNil(t, cmd.RunE)
}

func TestTxCommandSubcommands(t *testing.T) {
	app.SetConfig()

	cmd := txCommand()

	expectedSubcommands := []string{
		"sign",
		"sign-batch",
		"multi-sign",
		"multisign-batch",
		"validate-signatures",
		"broadcast",
		"encode",
		"decode",
		"simulate",
		"batch",
	}

	for _, expected := range expectedSubcommands {
		require.NotNil(t, findSubcommand(cmd, expected), "expected subcommand %s not found", expected)
	}
}

func TestTxMarketplaceModuleCommands(t *testing.T) {
	app.SetConfig()

	cmd := txCommand()

	for _, name := range []string{"cert", "market", "escrow", "deployment"} {
		sub := findSubcommand(cmd, name)
		require.NotNil(t, sub, "tx should have %s module subcommand", name)
		require.Greater(t, len(sub.Commands()), 0, "%s tx command should have subcommands", name)
	}
}

func TestTxSDKModuleCommands(t *testing.T) {
	app.SetConfig()

	cmd := txCommand()

	for _, name := range []string{"bank", "staking", "gov"} {
		require.NotNil(t, findSubcommand(cmd, name), "tx should have %s module subcommand", name)
	}
}

func TestTxCommandHelp(t *testing.T) {
	app.SetConfig()

	cmd := txCommand()

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(outBuf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := outBuf.String()
	require.Contains(t, output, "Transactions subcommands")
	require.Contains(t, output, "Usage:")
}

func TestTxCommandUnknownSubcommand(t *testing.T) {
	app.SetConfig()

	cmd := txCommand()

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(outBuf)
	cmd.SetArgs([]string{"definitely-not-a-command"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown command")
}

func TestTxBatchCommandStructure(t *testing.T) {
	app.SetConfig()

	cmd := GetTxBatchCmd()

	require.Equal(t, "batch [tx-file...]", cmd.Use)
	require.NotEmpty(t, cmd.Short)
	require.NotNil(t, cmd.RunE)

	require.NotNil(t, cmd.Flags().Lookup(flagFailFast))
	require.NotNil(t, cmd.Flags().Lookup(flags.FlagChainID), "batch should carry the standard tx flags")

	// At least one tx file is required.
	require.Error(t, cmd.Args(cmd, []string{}))
	require.NoError(t, cmd.Args(cmd, []string{"tx.json"}))
}

// newBatchCmdContext wires a client context with the encoding config into the
// batch command so decode paths work without a running node.
func newBatchCmdContext(t *testing.T) client.Context {
	t.Helper()
	app.SetConfig()

	encodingConfig := app.MakeEncodingConfig()
	return client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig).
		WithHomeDir(t.TempDir())
}

func TestTxBatchCommandMissingFile(t *testing.T) {
	clientCtx := newBatchCmdContext(t)

	cmd := GetTxBatchCmd()
	cmd.SetContext(context.Background())
	require.NoError(t, client.SetCmdClientContextHandler(clientCtx, cmd))

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{
		filepath.Join(t.TempDir(), "does-not-exist.json"),
		"--keyring-backend", "test",
	})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 1 transactions failed")

	require.Contains(t, outBuf.String(), "FAILED")
	require.Contains(t, outBuf.String(), "0 of 1 transactions broadcast successfully")
}

func TestTxBatchCommandFailFast(t *testing.T) {
	clientCtx := newBatchCmdContext(t)

	cmd := GetTxBatchCmd()
	cmd.SetContext(context.Background())
	require.NoError(t, client.SetCmdClientContextHandler(clientCtx, cmd))

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)

	missing := filepath.Join(t.TempDir(), "missing.json")
	cmd.SetArgs([]string{
		missing,
		filepath.Join(t.TempDir(), "never-reached.json"),
		"--fail-fast",
		"--keyring-backend", "test",
	})

	err := cmd.Execute()
	require.Error(t, err)

	// fail-fast aborts before the per-file summary is printed.
	require.Contains(t, err.Error(), missing)
	require.NotContains(t, outBuf.String(), "transactions broadcast successfully")
}

func TestTxBatchCommandInvalidTxFile(t *testing.T) {
	clientCtx := newBatchCmdContext(t)

	txFile := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(txFile, []byte("not a transaction"), 0o600))

	cmd := GetTxBatchCmd()
	cmd.SetContext(context.Background())
	require.NoError(t, client.SetCmdClientContextHandler(clientCtx, cmd))

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{txFile, "--keyring-backend", "test"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, outBuf.String(), "failed to decode tx")
}
