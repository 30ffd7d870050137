package simapp

import (
	"math/rand"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/simulation"
)

// Simulation parameter constants
const (
	// Staking parameters
	StakePerAccount           = "stake_per_account"
	InitiallyBondedValidators = "initially_bonded_validators"

	// Bank parameters
	InitialAccountBalance = "initial_account_balance"

	// Marketplace parameters
	BidDuration        = "bid_duration"
	SettlementInterval = "settlement_interval"
	BidProbability     = "bid_probability"
	CloseProbability   = "close_probability"
	DepositFloor       = "deposit_floor"
)

// SimulationParams defines the parameters for the simulation
type SimulationParams struct {
	// Account parameters
	StakePerAccount       math.Int
	InitialAccountBalance math.Int

	// Staking parameters
	InitiallyBondedValidators int

	// Marketplace parameters
	BidDuration        int64
	SettlementInterval int64
	BidProbability     math.LegacyDec
	CloseProbability   math.LegacyDec
	DepositFloor       math.Int
}

// DefaultSimulationParams returns default simulation parameters
func DefaultSimulationParams() SimulationParams {
	return SimulationParams{
		StakePerAccount:           math.NewInt(100000000000),  // 100k tokens
		InitialAccountBalance:     math.NewInt(1000000000000), // 1M tokens
		InitiallyBondedValidators: 50,
		BidDuration:               10,
		SettlementInterval:        5,
		BidProbability:            math.LegacyNewDecWithPrec(40, 2), // 40%
		CloseProbability:          math.LegacyNewDecWithPrec(5, 2),  // 5%
		DepositFloor:              math.NewInt(1000),
	}
}

// RandomizedParams creates randomized simulation parameters
func RandomizedParams(r *rand.Rand) SimulationParams {
	return SimulationParams{
		StakePerAccount:           simulation.RandomAmount(r, math.NewInt(1000000000000)),
		InitialAccountBalance:     simulation.RandomAmount(r, math.NewInt(10000000000000)),
		InitiallyBondedValidators: simulation.RandIntBetween(r, 10, 100),
		BidDuration:               int64(simulation.RandIntBetween(r, 2, 50)),
		SettlementInterval:        int64(simulation.RandIntBetween(r, 1, 20)),
		BidProbability:            simulation.RandomDecAmount(r, math.LegacyNewDecWithPrec(80, 2)),
		CloseProbability:          simulation.RandomDecAmount(r, math.LegacyNewDecWithPrec(20, 2)),
		DepositFloor:              simulation.RandomAmount(r, math.NewInt(100000)),
	}
}

// ParamChanges intentionally returns no legacy param changes because Cosmos SDK v0.50
// removed ParamChange proposals in favor of MsgUpdateParams governance flow.
// Simulations that need parameter mutations should craft MsgUpdateParams transactions
// through module-specific simulation packages instead of legacy param changes.
func ParamChanges(_ *rand.Rand) []simulation.LegacyParamChange {
	return []simulation.LegacyParamChange{}
}

// RandomAccounts creates random accounts for simulation
func RandomAccounts(r *rand.Rand, n int) []simulation.Account {
	// Use the SDK's RandomAccounts function instead
	return simulation.RandomAccounts(r, n)
}

// WeightedOperations returns the default weighted operations for simulation.
// Callers should prefer the app's SimulationManager().WeightedOperations(simState).
func WeightedOperations() []simulation.WeightedOperation {
	return []simulation.WeightedOperation{}
}
