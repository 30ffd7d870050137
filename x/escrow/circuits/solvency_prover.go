package circuits

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	mimcbn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// SolvencyStatement is the public claim a solvency attestation makes: the
// escrow account funding deployment DSeq, committed to by AccountCommitment,
// holds at least Rate * BlocksCovered.
type SolvencyStatement struct {
	DSeq              uint64
	AccountCommitment *big.Int
	Rate              *big.Int
	BlocksCovered     uint64
}

// RequiredAmount returns Rate * BlocksCovered.
func (s SolvencyStatement) RequiredAmount() *big.Int {
	return new(big.Int).Mul(s.Rate, new(big.Int).SetUint64(s.BlocksCovered))
}

// SolvencyWitness is the private side of the claim, known only to the
// account owner.
type SolvencyWitness struct {
	Owner       []byte // 20-byte account address
	BalanceSalt uint64 // Blinds the commitment
	Balance     *big.Int
}

// SolvencyAttestation is a serialized groth16 proof together with the
// encoded public inputs it was produced for.
type SolvencyAttestation struct {
	Proof        []byte
	PublicInputs []byte
	ProofSystem  string // "groth16"
	CircuitID    string // "escrow-solvency-v1"
}

// SolvencyProver carries a compiled solvency circuit and its groth16 key
// pair. Setup runs once per process; proofs are generated per statement.
type SolvencyProver struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewSolvencyProver compiles the solvency circuit and runs the groth16
// setup.
func NewSolvencyProver() (*SolvencyProver, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &SolvencyCircuit{})
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("failed to setup circuit: %w", err)
	}

	return &SolvencyProver{ccs: ccs, pk: pk, vk: vk}, nil
}

// VerifyingKey serializes the verifying key for distribution to providers.
func (p *SolvencyProver) VerifyingKey() ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := p.vk.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to serialize verifying key: %w", err)
	}
	return buf.Bytes(), nil
}

// AccountCommitment computes the commitment the circuit binds the witness
// to: MiMC(owner bytes || dseq || salt || balance), each input absorbed as
// one bn254 field element. The owner address must be 20 bytes.
func AccountCommitment(owner []byte, dseq, salt uint64, balance *big.Int) (*big.Int, error) {
	if len(owner) != 20 {
		return nil, fmt.Errorf("owner address must be 20 bytes, got %d", len(owner))
	}
	if balance == nil || balance.Sign() < 0 {
		return nil, fmt.Errorf("balance must be a non-negative integer")
	}

	h := mimcbn254.NewMiMC()
	var el fr.Element
	for _, b := range owner {
		el.SetUint64(uint64(b))
		eb := el.Bytes()
		h.Write(eb[:])
	}
	el.SetUint64(dseq)
	eb := el.Bytes()
	h.Write(eb[:])

	el.SetUint64(salt)
	eb = el.Bytes()
	h.Write(eb[:])

	el.SetBigInt(balance)
	eb = el.Bytes()
	h.Write(eb[:])

	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

// Prove generates a solvency attestation for the statement using the
// owner's private witness. The statement commitment must have been computed
// over the same witness or proving fails.
func (p *SolvencyProver) Prove(stmt SolvencyStatement, w SolvencyWitness) (*SolvencyAttestation, error) {
	if len(w.Owner) != 20 {
		return nil, fmt.Errorf("owner address must be 20 bytes, got %d", len(w.Owner))
	}
	if w.Balance == nil || stmt.AccountCommitment == nil || stmt.Rate == nil {
		return nil, fmt.Errorf("statement and witness must be fully populated")
	}
	if stmt.BlocksCovered == 0 {
		return nil, fmt.Errorf("blocks covered must be positive")
	}

	assignment := solvencyAssignment(stmt, w)

	witnessData, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to create witness: %w", err)
	}

	proof, err := groth16.Prove(p.ccs, p.pk, witnessData)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof: %w", err)
	}

	proofBytes := new(bytes.Buffer)
	if _, err := proof.WriteTo(proofBytes); err != nil {
		return nil, fmt.Errorf("failed to serialize proof: %w", err)
	}

	return &SolvencyAttestation{
		Proof:        proofBytes.Bytes(),
		PublicInputs: encodeSolvencyPublicInputs(stmt),
		ProofSystem:  "groth16",
		CircuitID:    (&SolvencyCircuit{}).GetCircuitName(),
	}, nil
}

// VerifySolvency checks a solvency attestation against the statement the
// provider expects. vkData is the serialized verifying key from the setup.
func VerifySolvency(vkData []byte, att *SolvencyAttestation, stmt SolvencyStatement) error {
	if att == nil {
		return fmt.Errorf("attestation must not be nil")
	}
	if att.ProofSystem != "groth16" {
		return fmt.Errorf("unsupported proof system: %s", att.ProofSystem)
	}
	if want := (&SolvencyCircuit{}).GetCircuitName(); att.CircuitID != want {
		return fmt.Errorf("unexpected circuit id: %s", att.CircuitID)
	}
	if stmt.AccountCommitment == nil || stmt.Rate == nil {
		return fmt.Errorf("statement must be fully populated")
	}
	if !bytes.Equal(att.PublicInputs, encodeSolvencyPublicInputs(stmt)) {
		return fmt.Errorf("public inputs mismatch")
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(vkData)); err != nil {
		return fmt.Errorf("failed to deserialize verifying key: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(att.Proof)); err != nil {
		return fmt.Errorf("failed to deserialize proof: %w", err)
	}

	publicAssignment := &SolvencyCircuit{
		DSeq:              stmt.DSeq,
		AccountCommitment: stmt.AccountCommitment,
		RateAmount:        stmt.Rate,
		BlocksCovered:     stmt.BlocksCovered,
		RequiredAmount:    stmt.RequiredAmount(),
	}
	publicWitness, err := frontend.NewWitness(publicAssignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("failed to create public witness: %w", err)
	}

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}

func solvencyAssignment(stmt SolvencyStatement, w SolvencyWitness) *SolvencyCircuit {
	assignment := &SolvencyCircuit{
		DSeq:              stmt.DSeq,
		AccountCommitment: stmt.AccountCommitment,
		RateAmount:        stmt.Rate,
		BlocksCovered:     stmt.BlocksCovered,
		RequiredAmount:    stmt.RequiredAmount(),
		BalanceSalt:       w.BalanceSalt,
		Balance:           w.Balance,
	}
	for i := range w.Owner {
		assignment.OwnerAddress[i] = w.Owner[i]
	}
	return assignment
}

// encodeSolvencyPublicInputs packs the statement in witness order: dseq,
// commitment, rate, blocks covered, required amount. Field elements are
// 32-byte big-endian, counters 8-byte big-endian.
func encodeSolvencyPublicInputs(stmt SolvencyStatement) []byte {
	out := make([]byte, 0, 8+32+32+8+32)
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], stmt.DSeq)
	out = append(out, buf[:]...)

	var el fr.Element
	el.SetBigInt(stmt.AccountCommitment)
	eb := el.Bytes()
	out = append(out, eb[:]...)

	el.SetBigInt(stmt.Rate)
	eb = el.Bytes()
	out = append(out, eb[:]...)

	binary.BigEndian.PutUint64(buf[:], stmt.BlocksCovered)
	out = append(out, buf[:]...)

	el.SetBigInt(stmt.RequiredAmount())
	eb = el.Bytes()
	out = append(out, eb[:]...)

	return out
}
