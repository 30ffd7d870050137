package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	tmtypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/server"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/spf13/cobra"
)

const flagAppendMode = "append"

// AddGenesisAccountCmd returns a command that adds an account with an initial
// balance to genesis.json. The argument can be a bech32 address or a key name
// from the local keyring.
func AddGenesisAccountCmd(defaultNodeHome string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-genesis-account [address_or_key_name] [coins]",
		Short: "Add a genesis account to genesis.json",
		Long: `Add a genesis account to genesis.json. The account is registered with the
auth module, its balance is credited in the bank module, and the total supply
is bumped to match.

Example:
  velad add-genesis-account vela1... 1000000000uvela
  velad add-genesis-account my-key 1000000000uvela --keyring-backend test
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx := client.GetClientContextFromCmd(cmd)
			cdc := clientCtx.Codec

			serverCtx := server.GetServerContextFromCmd(cmd)
			config := serverCtx.Config
			config.SetRoot(clientCtx.HomeDir)

			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				// Not an address, try the keyring.
				inBuf := bufio.NewReader(cmd.InOrStdin())
				keyringBackend, _ := cmd.Flags().GetString(flags.FlagKeyringBackend)

				var kr keyring.Keyring
				if keyringBackend != "" && clientCtx.Keyring == nil {
					kr, err = keyring.New(sdk.KeyringServiceName(), keyringBackend, clientCtx.HomeDir, inBuf, cdc)
					if err != nil {
						return err
					}
				} else {
					kr = clientCtx.Keyring
				}
				if kr == nil {
					return errors.New("keyring is not available")
				}

				k, err := kr.Key(args[0])
				if err != nil {
					return fmt.Errorf("failed to get address from keyring: %w", err)
				}

				addr, err = k.GetAddress()
				if err != nil {
					return err
				}
			}

			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return fmt.Errorf("failed to parse coins: %w", err)
			}

			genFile := config.GenesisFile()
			genDoc, err := tmtypes.GenesisDocFromFile(genFile)
			if err != nil {
				return fmt.Errorf("failed to read genesis file: %w", err)
			}

			var appState map[string]json.RawMessage
			if err := json.Unmarshal(genDoc.AppState, &appState); err != nil {
				return fmt.Errorf("failed to unmarshal genesis state: %w", err)
			}

			var authGenesis authtypes.GenesisState
			cdc.MustUnmarshalJSON(appState[authtypes.ModuleName], &authGenesis)

			accounts, err := authtypes.UnpackAccounts(authGenesis.Accounts)
			if err != nil {
				return fmt.Errorf("failed to unpack genesis accounts: %w", err)
			}

			appendMode, _ := cmd.Flags().GetBool(flagAppendMode)
			if accounts.Contains(addr) {
				if !appendMode {
					return fmt.Errorf("account %s already exists in genesis, use --append to top up its balance", addr)
				}
			} else {
				accounts = append(accounts, authtypes.NewBaseAccount(addr, nil, 0, 0))

				packed, err := authtypes.PackAccounts(accounts)
				if err != nil {
					return fmt.Errorf("failed to pack genesis accounts: %w", err)
				}
				authGenesis.Accounts = packed
				appState[authtypes.ModuleName] = cdc.MustMarshalJSON(&authGenesis)
			}

			var bankGenesis banktypes.GenesisState
			cdc.MustUnmarshalJSON(appState[banktypes.ModuleName], &bankGenesis)

			if balance := findBalance(bankGenesis.Balances, addr.String()); balance != nil {
				balance.Coins = balance.Coins.Add(coins...)
			} else {
				bankGenesis.Balances = append(bankGenesis.Balances, banktypes.Balance{
					Address: addr.String(),
					Coins:   coins,
				})
			}
			bankGenesis.Supply = bankGenesis.Supply.Add(coins...)
			appState[banktypes.ModuleName] = cdc.MustMarshalJSON(&bankGenesis)

			appStateJSON, err := json.Marshal(appState)
			if err != nil {
				return fmt.Errorf("failed to marshal genesis state: %w", err)
			}
			genDoc.AppState = appStateJSON

			return genDoc.SaveAs(genFile)
		},
	}

	cmd.Flags().String(flags.FlagKeyringBackend, flags.DefaultKeyringBackend, "Select keyring's backend (os|file|kwallet|pass|test)")
	cmd.Flags().Bool(flagAppendMode, false, "append the coins to the balance if the account already exists")
	cmd.Flags().String(flags.FlagHome, defaultNodeHome, "node's home directory")

	return cmd
}
