package protocols

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

func testCommitment(t *testing.T, pcs *MerklePCS, height, width int) (Commitment, *ProverData, *ArithmeticDomain) {
	t.Helper()

	domain, err := NewArithmeticDomain(height)
	if err != nil {
		t.Fatalf("failed to build domain: %v", err)
	}

	values := make([]xfield.XFieldElement, height*width)
	for i := range values {
		values[i] = xfield.New([3]field.Element{field.New(uint64(i + 1)), field.New(uint64(2 * i)), field.Zero})
	}
	matrix, err := NewExtMatrix(values, width)
	if err != nil {
		t.Fatalf("failed to build matrix: %v", err)
	}

	commit, data, err := pcs.Commit([]DomainMatrix{{Domain: domain, Matrix: matrix}})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return commit, data, domain
}

func TestPCSOpenVerifyRoundTrip(t *testing.T) {
	pcs, _ := NewMerklePCS(8)
	commit, data, _ := testCommitment(t, pcs, 16, 3)

	zeta := xfield.New([3]field.Element{field.New(777), field.New(13), field.New(2)})

	opened, proof, err := pcs.Open(
		[]OpeningRound{{Data: data, Points: [][]xfield.XFieldElement{{zeta}}}},
		NewChallenger(),
	)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	rounds := []CommitmentRound{{
		Commitment: commit,
		Widths:     []int{3},
		Height:     16,
		Points:     [][]xfield.XFieldElement{{zeta}},
	}}
	if err := pcs.VerifyOpenings(rounds, opened, proof, NewChallenger()); err != nil {
		t.Errorf("valid opening rejected: %v", err)
	}
}

func TestPCSOpenedValuesMatchInterpolant(t *testing.T) {
	pcs, _ := NewMerklePCS(4)
	_, data, domain := testCommitment(t, pcs, 8, 2)

	// Opening at an in-domain point must reproduce the committed row
	point := xfield.NewConst(domain.Elements()[3])
	opened, _, err := pcs.Open(
		[]OpeningRound{{Data: data, Points: [][]xfield.XFieldElement{{point}}}},
		NewChallenger(),
	)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	row := data.matrices[0].Row(3)
	for c := range row {
		if !opened[0][0][0][c].Equal(row[c]) {
			t.Errorf("column %d: opening disagrees with committed value", c)
		}
	}
}

func TestPCSRejectsTamperedOpening(t *testing.T) {
	pcs, _ := NewMerklePCS(8)
	commit, data, _ := testCommitment(t, pcs, 16, 2)

	zeta := xfield.New([3]field.Element{field.New(31337), field.Zero, field.One})
	opened, proof, err := pcs.Open(
		[]OpeningRound{{Data: data, Points: [][]xfield.XFieldElement{{zeta}}}},
		NewChallenger(),
	)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	opened[0][0][0][1] = opened[0][0][0][1].Add(xfield.One)

	rounds := []CommitmentRound{{
		Commitment: commit,
		Widths:     []int{2},
		Height:     16,
		Points:     [][]xfield.XFieldElement{{zeta}},
	}}
	if err := pcs.VerifyOpenings(rounds, opened, proof, NewChallenger()); err == nil {
		t.Error("tampered opening accepted")
	}
}

func TestPCSRejectsWrongCommitment(t *testing.T) {
	pcs, _ := NewMerklePCS(8)
	_, data, _ := testCommitment(t, pcs, 16, 2)
	otherCommit, _, _ := testCommitment(t, pcs, 16, 3)

	zeta := xfield.New([3]field.Element{field.New(5), field.New(5), field.New(5)})
	opened, proof, err := pcs.Open(
		[]OpeningRound{{Data: data, Points: [][]xfield.XFieldElement{{zeta}}}},
		NewChallenger(),
	)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	rounds := []CommitmentRound{{
		Commitment: otherCommit,
		Widths:     []int{2},
		Height:     16,
		Points:     [][]xfield.XFieldElement{{zeta}},
	}}
	if err := pcs.VerifyOpenings(rounds, opened, proof, NewChallenger()); err == nil {
		t.Error("opening against a foreign commitment accepted")
	}
}

func TestEvaluationsOnDomain(t *testing.T) {
	pcs, _ := NewMerklePCS(4)
	_, data, domain := testCommitment(t, pcs, 8, 2)

	coset, err := domain.CreateDisjointDomain(32)
	if err != nil {
		t.Fatalf("failed to build coset: %v", err)
	}
	evals, err := pcs.EvaluationsOnDomain(data, 0, coset)
	if err != nil {
		t.Fatalf("failed to evaluate: %v", err)
	}
	if evals.Height() != 32 || evals.Width() != 2 {
		t.Fatalf("unexpected shape %dx%d", evals.Height(), evals.Width())
	}

	// Spot-check one point against Horner evaluation of the interpolant
	x := xfield.NewConst(coset.Elements()[5])
	for c := 0; c < 2; c++ {
		direct := extEvalAt(data.coeffs[0][c], x)
		if !evals.Get(5, c).Equal(direct) {
			t.Errorf("column %d: coset evaluation disagrees with interpolant", c)
		}
	}
}
