package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/huitseeker/p3-md/internal/p3-md/utils"
)

// Prove generates a proof that the main trace satisfies the
// computation's constraints under the given public values.
//
// The prover:
//  1. Commits to the main trace on its natural domain
//  2. Observes the commitment and the public values
//  3. If the computation has an auxiliary trace: samples its
//     challenges, builds and commits the auxiliary trace, observes the
//     commitment
//  4. Samples the constraint-folding challenge alpha
//  5. Evaluates the folded constraints on a disjoint coset and divides
//     by the trace domain's vanishing polynomial to get the quotient
//  6. Splits the quotient into low-degree chunks, commits each chunk
//     and observes the commitments
//  7. Samples the out-of-domain point zeta
//  8. Opens all commitments at zeta (and the traces additionally at
//     zeta*g) through the commitment scheme
func Prove(cfg *Config, comp Computation, mainTrace *Matrix, publicValues []field.Element) (*Proof, error) {
	if mainTrace.Width() != comp.Width() {
		return nil, fmt.Errorf("trace has %d columns but the computation declares %d",
			mainTrace.Width(), comp.Width())
	}
	height := mainTrace.Height()
	if !utils.IsPowerOfTwo(height) {
		return nil, fmt.Errorf("trace height must be a power of 2, got %d", height)
	}

	pcs := cfg.PCS()
	challenger := cfg.Challenger()

	traceDomain, err := NewArithmeticDomain(height)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace domain: %w", err)
	}

	// Step 1-2: main trace commitment
	mainCommit, mainData, err := pcs.Commit([]DomainMatrix{{Domain: traceDomain, Matrix: mainTrace.Lift()}})
	if err != nil {
		return nil, fmt.Errorf("failed to commit to main trace: %w", err)
	}
	challenger.ObserveCommitment(mainCommit)
	challenger.ObserveSlice(publicValues)

	// Step 3: auxiliary trace phase. The challenges depend on the main
	// commitment, so the auxiliary trace cannot be grinded against them.
	var challenges []xfield.XFieldElement
	var auxCommit *Commitment
	var auxData *ProverData
	auxEvalsSource := EmptyExtMatrix()

	if comp.AuxWidth() > 0 {
		challenges, err = challenger.SampleMany(comp.NumChallenges())
		if err != nil {
			return nil, fmt.Errorf("failed to sample auxiliary challenges: %w", err)
		}

		auxTrace, err := comp.BuildAuxTrace(mainTrace, challenges)
		if err != nil {
			return nil, fmt.Errorf("failed to build auxiliary trace: %w", err)
		}
		if auxTrace.Width() != comp.AuxWidth() {
			return nil, fmt.Errorf("auxiliary trace has %d columns but the computation declares %d",
				auxTrace.Width(), comp.AuxWidth())
		}
		if auxTrace.Height() != height {
			return nil, fmt.Errorf("auxiliary trace has %d rows but the main trace has %d",
				auxTrace.Height(), height)
		}

		commit, data, err := pcs.Commit([]DomainMatrix{{Domain: traceDomain, Matrix: auxTrace}})
		if err != nil {
			return nil, fmt.Errorf("failed to commit to auxiliary trace: %w", err)
		}
		auxCommit = &commit
		auxData = data
		challenger.ObserveCommitment(commit)
	}

	// Step 4: the folding challenge, with an alpha-power table sized to
	// the exact number of assertions the computation registers
	alpha, err := challenger.Sample()
	if err != nil {
		return nil, fmt.Errorf("failed to sample folding challenge: %w", err)
	}
	numAssertions := CountAssertions(comp, publicValues)
	alphaPowers := AlphaPowers(alpha, numAssertions)

	// Step 5: quotient evaluation on a disjoint coset
	quotientDegree := cfg.QuotientDegree()
	quotientSize := height * quotientDegree
	quotientDomain, err := traceDomain.CreateDisjointDomain(quotientSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build quotient domain: %w", err)
	}

	mainEvals, err := pcs.EvaluationsOnDomain(mainData, 0, quotientDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate main trace on quotient domain: %w", err)
	}
	if auxData != nil {
		auxEvalsSource, err = pcs.EvaluationsOnDomain(auxData, 0, quotientDomain)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate auxiliary trace on quotient domain: %w", err)
		}
	}

	selectors, err := traceDomain.SelectorsOnCoset(quotientDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to compute selectors: %w", err)
	}

	quotientValues := computeQuotientValues(
		comp, mainEvals, auxEvalsSource,
		challenges, publicValues,
		selectors, alphaPowers, quotientDegree,
	)

	// Step 6: split the quotient into chunks of degree < height.
	// Writing Q(x) = sum_i x^(height*i) * C_i(x), chunk i holds the
	// i-th block of height coefficients; the verifier recombines the
	// chunk openings with powers of zeta^height.
	quotientCoeffs, err := extInterpolateCoset(quotientValues, quotientDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to interpolate quotient: %w", err)
	}

	subDomains, err := quotientDomain.SplitDomains(quotientDegree)
	if err != nil {
		return nil, fmt.Errorf("failed to split quotient domain: %w", err)
	}

	quotientCommits := make([]Commitment, quotientDegree)
	chunkData := make([]*ProverData, quotientDegree)
	for i := 0; i < quotientDegree; i++ {
		chunkCoeffs := quotientCoeffs[i*height : (i+1)*height]
		chunkEvals, err := extEvaluateCoset(chunkCoeffs, subDomains[i])
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate quotient chunk %d: %w", i, err)
		}
		chunkMatrix, err := NewExtMatrix(chunkEvals, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to shape quotient chunk %d: %w", i, err)
		}
		commit, data, err := pcs.Commit([]DomainMatrix{{Domain: subDomains[i], Matrix: chunkMatrix}})
		if err != nil {
			return nil, fmt.Errorf("failed to commit to quotient chunk %d: %w", i, err)
		}
		quotientCommits[i] = commit
		chunkData[i] = data
		challenger.ObserveCommitment(commit)
	}

	// Step 7: the out-of-domain point
	zeta, err := challenger.Sample()
	if err != nil {
		return nil, fmt.Errorf("failed to sample evaluation point: %w", err)
	}
	zetaNext, err := traceDomain.NextPoint(zeta)
	if err != nil {
		return nil, fmt.Errorf("failed to step evaluation point: %w", err)
	}

	// Step 8: batch opening. Traces open at zeta and zeta*g, quotient
	// chunks at zeta only.
	rounds := []OpeningRound{
		{Data: mainData, Points: [][]xfield.XFieldElement{{zeta, zetaNext}}},
	}
	if auxData != nil {
		rounds = append(rounds, OpeningRound{Data: auxData, Points: [][]xfield.XFieldElement{{zeta, zetaNext}}})
	}
	for i := 0; i < quotientDegree; i++ {
		rounds = append(rounds, OpeningRound{Data: chunkData[i], Points: [][]xfield.XFieldElement{{zeta}}})
	}

	opened, openingProof, err := pcs.Open(rounds, challenger)
	if err != nil {
		return nil, fmt.Errorf("failed to open commitments: %w", err)
	}

	proof := &Proof{
		MainCommit:      mainCommit,
		AuxCommit:       auxCommit,
		QuotientCommits: quotientCommits,
		MainLocal:       opened[0][0][0],
		MainNext:        opened[0][0][1],
		OpeningProof:    openingProof,
		LogDegree:       uint8(utils.Log2(height)),
	}

	chunkStart := 1
	if auxData != nil {
		proof.AuxLocal = opened[1][0][0]
		proof.AuxNext = opened[1][0][1]
		chunkStart = 2
	}
	proof.QuotientChunks = make([][]xfield.XFieldElement, quotientDegree)
	for i := 0; i < quotientDegree; i++ {
		proof.QuotientChunks[i] = opened[chunkStart+i][0][0]
	}

	return proof, nil
}
