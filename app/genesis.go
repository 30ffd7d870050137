package app

import (
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	crisistypes "github.com/cosmos/cosmos-sdk/x/crisis/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	slashingtypes "github.com/cosmos/cosmos-sdk/x/slashing/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
	markettypes "github.com/vela-grid/vela/x/market/types"
)

// GenesisState represents the genesis state of the blockchain.
// It is a map from module name to module genesis state.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState generates the default state for the application.
func NewDefaultGenesisState(cdc codec.JSONCodec) GenesisState {
	return ModuleBasics.DefaultGenesis(cdc)
}

// GenesisConfig holds the network parameters a Vela genesis is built from.
type GenesisConfig struct {
	ChainID string

	// Consensus and governance.
	MaxValidators               uint32
	UnbondingPeriodSeconds      int64
	DoubleSignPenalty           string
	DowntimePenalty             string
	DowntimeWindowBlocks        int64
	DowntimeJailDurationSeconds int64
	MinDepositAmount            int64
	VotingPeriodSeconds         int64
	Quorum                      string
	Threshold                   string
	VetoThreshold               string

	// Marketplace.
	BidDurationBlocks        int64
	SettlementIntervalBlocks int64
	MinBidDepositAmount      int64
	MinEscrowDepositAmount   int64
}

// DefaultGenesisConfig returns the mainnet launch parameters.
func DefaultGenesisConfig() GenesisConfig {
	return GenesisConfig{
		ChainID:                     "vela-1",
		MaxValidators:               125,
		UnbondingPeriodSeconds:      1814400, // 21 days
		DoubleSignPenalty:           "0.05",
		DowntimePenalty:             "0.001",
		DowntimeWindowBlocks:        10000,
		DowntimeJailDurationSeconds: 86400,
		MinDepositAmount:            10000000000, // 10,000 VELA
		VotingPeriodSeconds:         1209600,     // 14 days
		Quorum:                      "0.400000000000000000",
		Threshold:                   "0.667000000000000000",
		VetoThreshold:               "0.333000000000000000",

		BidDurationBlocks:        markettypes.DefaultBidDuration,
		SettlementIntervalBlocks: markettypes.DefaultSettlementInterval,
		MinBidDepositAmount:      markettypes.DefaultMinBidDepositAmount,
		MinEscrowDepositAmount:   escrowtypes.DefaultMinDepositAmount,
	}
}

// NewGenesisStateFromConfig builds a genesis document with the configured
// network parameters applied over the module defaults. Standard SDK modules
// round-trip through the proto codec; the marketplace modules use plain JSON
// genesis documents.
func NewGenesisStateFromConfig(cdc codec.Codec, config GenesisConfig) GenesisState {
	genesis := NewDefaultGenesisState(cdc)

	var stakingGenesis stakingtypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[stakingtypes.ModuleName], &stakingGenesis)
	stakingGenesis.Params.BondDenom = BondDenom
	stakingGenesis.Params.MaxValidators = config.MaxValidators
	stakingGenesis.Params.UnbondingTime = time.Duration(config.UnbondingPeriodSeconds) * time.Second
	stakingGenesis.Params.MinCommissionRate = math.LegacyMustNewDecFromStr("0.05")
	genesis[stakingtypes.ModuleName] = cdc.MustMarshalJSON(&stakingGenesis)

	var mintGenesis minttypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[minttypes.ModuleName], &mintGenesis)
	mintGenesis.Params.MintDenom = BondDenom
	// Fixed supply: emission stays at zero.
	mintGenesis.Params.InflationRateChange = math.LegacyZeroDec()
	mintGenesis.Params.InflationMax = math.LegacyZeroDec()
	mintGenesis.Params.InflationMin = math.LegacyZeroDec()
	mintGenesis.Minter.Inflation = math.LegacyZeroDec()
	mintGenesis.Minter.AnnualProvisions = math.LegacyZeroDec()
	genesis[minttypes.ModuleName] = cdc.MustMarshalJSON(&mintGenesis)

	var slashingGenesis slashingtypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[slashingtypes.ModuleName], &slashingGenesis)
	slashingGenesis.Params.SignedBlocksWindow = config.DowntimeWindowBlocks
	slashingGenesis.Params.MinSignedPerWindow = math.LegacyMustNewDecFromStr("0.50")
	slashingGenesis.Params.DowntimeJailDuration = time.Duration(config.DowntimeJailDurationSeconds) * time.Second
	slashingGenesis.Params.SlashFractionDoubleSign = math.LegacyMustNewDecFromStr(config.DoubleSignPenalty)
	slashingGenesis.Params.SlashFractionDowntime = math.LegacyMustNewDecFromStr(config.DowntimePenalty)
	genesis[slashingtypes.ModuleName] = cdc.MustMarshalJSON(&slashingGenesis)

	var govGenesis govv1.GenesisState
	cdc.MustUnmarshalJSON(genesis[govtypes.ModuleName], &govGenesis)
	govGenesis.Params.MinDeposit = sdk.NewCoins(sdk.NewInt64Coin(BondDenom, config.MinDepositAmount))
	govGenesis.Params.VotingPeriod = durationPtr(time.Duration(config.VotingPeriodSeconds) * time.Second)
	govGenesis.Params.Quorum = config.Quorum
	govGenesis.Params.Threshold = config.Threshold
	govGenesis.Params.VetoThreshold = config.VetoThreshold
	genesis[govtypes.ModuleName] = cdc.MustMarshalJSON(&govGenesis)

	var crisisGenesis crisistypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[crisistypes.ModuleName], &crisisGenesis)
	crisisGenesis.ConstantFee = sdk.NewInt64Coin(BondDenom, 1000000000)
	genesis[crisistypes.ModuleName] = cdc.MustMarshalJSON(&crisisGenesis)

	var marketGenesis markettypes.GenesisState
	mustUnmarshalJSON(genesis[markettypes.ModuleName], &marketGenesis)
	marketGenesis.Params.BidDuration = config.BidDurationBlocks
	marketGenesis.Params.SettlementInterval = config.SettlementIntervalBlocks
	marketGenesis.Params.MinBidDeposit = sdk.NewInt64Coin(BondDenom, config.MinBidDepositAmount)
	genesis[markettypes.ModuleName] = mustMarshalJSON(marketGenesis)

	var escrowGenesis escrowtypes.GenesisState
	mustUnmarshalJSON(genesis[escrowtypes.ModuleName], &escrowGenesis)
	escrowGenesis.Params.MinDeposit = sdk.NewInt64Coin(BondDenom, config.MinEscrowDepositAmount)
	genesis[escrowtypes.ModuleName] = mustMarshalJSON(escrowGenesis)

	return genesis
}

func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

func mustUnmarshalJSON(bz []byte, v interface{}) {
	if err := json.Unmarshal(bz, v); err != nil {
		panic(err)
	}
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
