package protocols

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

var (
	// ErrInvalidProof means the proof is structurally malformed
	ErrInvalidProof = errors.New("invalid proof")

	// ErrConstraintVerificationFailed means the algebraic identity
	// between the folded constraints and the quotient does not hold
	ErrConstraintVerificationFailed = errors.New("constraint verification failed")

	// ErrPcsVerificationFailed means the opening proof does not match
	// the commitments
	ErrPcsVerificationFailed = errors.New("commitment opening verification failed")
)

// Verify checks a proof against the computation and public values.
//
// The verifier:
//  1. Checks the proof's shape against the computation's declared
//     dimensions
//  2. Replays the prover's transcript: observes the commitments and
//     public values and re-derives every challenge
//  3. Verifies the commitment openings against the commitments
//  4. Folds the constraints over the opened values at zeta
//  5. Recombines the quotient chunk openings and checks
//     folded == Q(zeta) * Z_H(zeta)
//
// All failures are wrapped around one of the sentinel errors above.
func Verify(cfg *Config, comp Computation, proof *Proof, publicValues []field.Element) error {
	// Step 1: structural checks before any arithmetic
	if err := proof.Validate(comp.Width(), comp.AuxWidth(), cfg.QuotientDegree()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if proof.LogDegree >= 32 {
		return fmt.Errorf("%w: log degree %d out of range", ErrInvalidProof, proof.LogDegree)
	}
	height := 1 << proof.LogDegree

	traceDomain, err := NewArithmeticDomain(height)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	// Step 2: transcript replay, in the prover's exact order
	challenger := cfg.Challenger()
	challenger.ObserveCommitment(proof.MainCommit)
	challenger.ObserveSlice(publicValues)

	var challenges []xfield.XFieldElement
	if comp.AuxWidth() > 0 {
		challenges, err = challenger.SampleMany(comp.NumChallenges())
		if err != nil {
			return fmt.Errorf("failed to sample auxiliary challenges: %w", err)
		}
		challenger.ObserveCommitment(*proof.AuxCommit)
	}

	alpha, err := challenger.Sample()
	if err != nil {
		return fmt.Errorf("failed to sample folding challenge: %w", err)
	}

	for _, commit := range proof.QuotientCommits {
		challenger.ObserveCommitment(commit)
	}

	zeta, err := challenger.Sample()
	if err != nil {
		return fmt.Errorf("failed to sample evaluation point: %w", err)
	}
	zetaNext, err := traceDomain.NextPoint(zeta)
	if err != nil {
		return fmt.Errorf("failed to step evaluation point: %w", err)
	}

	// Step 3: opening verification
	rounds := []CommitmentRound{{
		Commitment: proof.MainCommit,
		Widths:     []int{comp.Width()},
		Height:     height,
		Points:     [][]xfield.XFieldElement{{zeta, zetaNext}},
	}}
	opened := [][][][]xfield.XFieldElement{{{proof.MainLocal, proof.MainNext}}}

	if comp.AuxWidth() > 0 {
		rounds = append(rounds, CommitmentRound{
			Commitment: *proof.AuxCommit,
			Widths:     []int{comp.AuxWidth()},
			Height:     height,
			Points:     [][]xfield.XFieldElement{{zeta, zetaNext}},
		})
		opened = append(opened, [][][]xfield.XFieldElement{{proof.AuxLocal, proof.AuxNext}})
	}
	for i, commit := range proof.QuotientCommits {
		rounds = append(rounds, CommitmentRound{
			Commitment: commit,
			Widths:     []int{1},
			Height:     height,
			Points:     [][]xfield.XFieldElement{{zeta}},
		})
		opened = append(opened, [][][]xfield.XFieldElement{{proof.QuotientChunks[i]}})
	}

	if err := cfg.PCS().VerifyOpenings(rounds, opened, proof.OpeningProof, challenger); err != nil {
		return fmt.Errorf("%w: %v", ErrPcsVerificationFailed, err)
	}

	// Step 4: fold the constraints over the opened values
	selectors, err := traceDomain.SelectorsAtPoint(zeta)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	main := Window{local: proof.MainLocal, next: proof.MainNext}
	aux := Window{local: proof.AuxLocal, next: proof.AuxNext}
	folder := NewVerifierFolder(main, aux, challenges, publicValues, selectors, alpha)
	comp.Eval(folder)
	folded := folder.Accumulated()

	// Step 5: recombine Q(zeta) = sum_i (zeta^height)^i * C_i(zeta)
	// and check the vanishing identity
	zetaPow := extPow(zeta, uint64(height))
	quotient := xfield.Zero
	for i := len(proof.QuotientChunks) - 1; i >= 0; i-- {
		quotient = quotient.Mul(zetaPow).Add(proof.QuotientChunks[i][0])
	}

	if !folded.Equal(quotient.Mul(selectors.Vanishing)) {
		return fmt.Errorf("%w: folded constraints do not match the quotient at the evaluation point",
			ErrConstraintVerificationFailed)
	}

	return nil
}
