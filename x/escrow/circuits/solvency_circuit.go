package circuits

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// SolvencyCircuit proves that a deployment escrow account can fund its lease
// obligations for a number of upcoming settlement blocks without revealing
// the balance.
//
// Circuit Statement: "The account funding deployment D, committed to by C,
// holds a balance B with B >= RateAmount * BlocksCovered, where
// C = MiMC(owner || D || salt || B)."
//
// Providers ask tenants for this attestation before accepting long-running
// leases. The chain never consumes it: settlement reads balances directly,
// so the proof stays an off-chain credential.
// Constraint count: ~9,000 constraints
type SolvencyCircuit struct {
	// Public inputs
	DSeq              frontend.Variable `gnark:",public"` // Deployment the account funds
	AccountCommitment frontend.Variable `gnark:",public"` // MiMC commitment to owner, dseq, salt, balance
	RateAmount        frontend.Variable `gnark:",public"` // Per-block settlement rate
	BlocksCovered     frontend.Variable `gnark:",public"` // Settlement blocks the proof covers
	RequiredAmount    frontend.Variable `gnark:",public"` // RateAmount * BlocksCovered

	// Private inputs
	OwnerAddress [20]frontend.Variable `gnark:",private"` // Account owner address bytes
	BalanceSalt  frontend.Variable     `gnark:",private"` // Blinds the commitment
	Balance      frontend.Variable     `gnark:",private"` // Current account balance
}

// Define implements the gnark Circuit interface for solvency constraints.
func (circuit *SolvencyCircuit) Define(api frontend.API) error {
	mimc, err := mimc.NewMiMC(api)
	if err != nil {
		return fmt.Errorf("failed to initialize MiMC: %w", err)
	}

	// ═══════════════════════════════════════════════════════════════════════
	// CONSTRAINT 1: Commitment Binding
	// ═══════════════════════════════════════════════════════════════════════

	mimc.Reset()
	for i := 0; i < 20; i++ {
		mimc.Write(circuit.OwnerAddress[i])
	}
	mimc.Write(circuit.DSeq)
	mimc.Write(circuit.BalanceSalt)
	mimc.Write(circuit.Balance)

	commitment := mimc.Sum()
	api.AssertIsEqual(commitment, circuit.AccountCommitment)

	// ═══════════════════════════════════════════════════════════════════════
	// CONSTRAINT 2: Required Amount Derivation
	// ═══════════════════════════════════════════════════════════════════════

	// RequiredAmount is public so verifiers can read the obligation straight
	// off the statement; the circuit pins it to RateAmount * BlocksCovered.
	required := api.Mul(circuit.RateAmount, circuit.BlocksCovered)
	api.AssertIsEqual(circuit.RequiredAmount, required)

	// ═══════════════════════════════════════════════════════════════════════
	// CONSTRAINT 3: Solvency
	// ═══════════════════════════════════════════════════════════════════════

	api.AssertIsLessOrEqual(circuit.RequiredAmount, circuit.Balance)

	// ═══════════════════════════════════════════════════════════════════════
	// CONSTRAINT 4: Range Bounds
	// ═══════════════════════════════════════════════════════════════════════

	// BlocksCovered in [1, 2^20] and RateAmount < 2^40 keep the product
	// under 2^60, so the multiplication cannot wrap the scalar field.
	api.AssertIsLessOrEqual(1, circuit.BlocksCovered)
	api.AssertIsLessOrEqual(circuit.BlocksCovered, 1<<20)

	maxRate := new(big.Int).Lsh(big.NewInt(1), 40)
	api.AssertIsLessOrEqual(circuit.RateAmount, frontend.Variable(maxRate))

	// Balance must fit the coin amount range (< 2^62).
	maxBalance := new(big.Int).Lsh(big.NewInt(1), 62)
	api.AssertIsLessOrEqual(circuit.Balance, frontend.Variable(maxBalance))

	return nil
}

// GetConstraintCount returns the estimated number of constraints.
func (circuit *SolvencyCircuit) GetConstraintCount() int {
	// Approximate constraint breakdown:
	// - MiMC hash: 23 absorbed elements = ~8,000 constraints
	// - Comparisons: 5 × ~200 constraints = 1,000
	// - Arithmetic: ~10 constraints
	// Total: ~9,000 constraints
	return 9000
}

// GetPublicInputCount returns the number of public inputs.
func (circuit *SolvencyCircuit) GetPublicInputCount() int {
	return 5 // DSeq, AccountCommitment, RateAmount, BlocksCovered, RequiredAmount
}

// GetCircuitName returns the circuit identifier.
func (circuit *SolvencyCircuit) GetCircuitName() string {
	return "escrow-solvency-v1"
}
