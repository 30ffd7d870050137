package circuits

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
)

func TestSolvencyCircuitGetters(t *testing.T) {
	var c SolvencyCircuit
	if got := c.GetConstraintCount(); got == 0 {
		t.Fatalf("expected constraint count > 0")
	}
	if got := c.GetPublicInputCount(); got != 5 {
		t.Fatalf("expected 5 public inputs, got %d", got)
	}
	if got := c.GetCircuitName(); got == "" {
		t.Fatalf("expected circuit name")
	}
}

func TestSolvencyCircuitCoversAndRejectsShortBalance(t *testing.T) {
	assert := test.NewAssert(t)

	// Balance exactly covers rate * blocks.
	stmt, w := solvencyFixture(t, 150, 30, 5)
	assert.SolvingSucceeded(new(SolvencyCircuit), solvencyAssignment(stmt, w), test.WithCurves(ecc.BN254))

	// One short of the obligation.
	shortStmt, shortW := solvencyFixture(t, 149, 30, 5)
	assert.SolvingFailed(new(SolvencyCircuit), solvencyAssignment(shortStmt, shortW), test.WithCurves(ecc.BN254))
}

func TestSolvencyCircuitRejectsTamperedStatement(t *testing.T) {
	assert := test.NewAssert(t)

	// Commitment does not match the witness.
	stmt, w := solvencyFixture(t, 500, 10, 5)
	stmt.AccountCommitment = new(big.Int).Add(stmt.AccountCommitment, big.NewInt(1))
	assert.SolvingFailed(new(SolvencyCircuit), solvencyAssignment(stmt, w), test.WithCurves(ecc.BN254))

	// Claimed required amount disagrees with rate * blocks.
	stmt, w = solvencyFixture(t, 500, 10, 5)
	assignment := solvencyAssignment(stmt, w)
	assignment.RequiredAmount = big.NewInt(40)
	assert.SolvingFailed(new(SolvencyCircuit), assignment, test.WithCurves(ecc.BN254))

	// A proof over zero blocks claims nothing.
	stmt, w = solvencyFixture(t, 500, 10, 0)
	assert.SolvingFailed(new(SolvencyCircuit), solvencyAssignment(stmt, w), test.WithCurves(ecc.BN254))
}

func TestSolvencyProveVerifyRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}

	prover, err := NewSolvencyProver()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	stmt, w := solvencyFixture(t, 1000, 30, 5)
	att, err := prover.Prove(stmt, w)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if att.ProofSystem != "groth16" || att.CircuitID != "escrow-solvency-v1" {
		t.Fatalf("unexpected attestation metadata: %s/%s", att.ProofSystem, att.CircuitID)
	}

	vkData, err := prover.VerifyingKey()
	if err != nil {
		t.Fatalf("verifying key: %v", err)
	}

	if err := VerifySolvency(vkData, att, stmt); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// A provider checking a different obligation must reject the proof.
	richer := stmt
	richer.Rate = big.NewInt(31)
	if err := VerifySolvency(vkData, att, richer); err == nil {
		t.Fatalf("expected verification failure for mismatched statement")
	}

	// Tampered public inputs are caught before pairing checks.
	tampered := *att
	tampered.PublicInputs = append([]byte(nil), att.PublicInputs...)
	tampered.PublicInputs[0] ^= 0xff
	if err := VerifySolvency(vkData, &tampered, stmt); err == nil {
		t.Fatalf("expected verification failure for tampered public inputs")
	}
}

func TestSolvencyProveRejectsBadInputs(t *testing.T) {
	if _, err := AccountCommitment(make([]byte, 19), 1, 2, big.NewInt(10)); err == nil {
		t.Fatalf("expected error for short owner address")
	}
	if _, err := AccountCommitment(make([]byte, 20), 1, 2, big.NewInt(-1)); err == nil {
		t.Fatalf("expected error for negative balance")
	}
}

func solvencyFixture(t *testing.T, balance, rate, blocks uint64) (SolvencyStatement, SolvencyWitness) {
	t.Helper()

	owner := make([]byte, 20)
	for i := range owner {
		owner[i] = byte(i + 1)
	}

	w := SolvencyWitness{
		Owner:       owner,
		BalanceSalt: 42,
		Balance:     new(big.Int).SetUint64(balance),
	}

	commitment, err := AccountCommitment(owner, 7, w.BalanceSalt, w.Balance)
	if err != nil {
		t.Fatalf("commitment: %v", err)
	}

	return SolvencyStatement{
		DSeq:              7,
		AccountCommitment: commitment,
		Rate:              new(big.Int).SetUint64(rate),
		BlocksCovered:     blocks,
	}, w
}
