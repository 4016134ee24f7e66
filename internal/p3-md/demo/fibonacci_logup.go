// Package demo provides ready-made computations for the examples, the
// CLI and the integration tests.
package demo

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/huitseeker/p3-md/internal/p3-md/protocols"
)

// FibonacciLogUp proves Fibonacci number computation with a LogUp-style
// auxiliary column.
//
// The main trace has two columns (a, b) stepping as (a, b) -> (b, a+b).
// The auxiliary trace holds a running sum of inverses
//
//	s_i = sum_{j<=i} 1 / (gamma - a_j - beta*b_j)
//
// over two verifier challenges gamma and beta. Public values are the
// first and last rows: [a_0, b_0, a_last, b_last].
type FibonacciLogUp struct{}

// Width returns the number of main-trace columns.
func (FibonacciLogUp) Width() int { return 2 }

// AuxWidth returns the number of auxiliary columns.
func (FibonacciLogUp) AuxWidth() int { return 1 }

// NumChallenges returns the number of challenges the auxiliary trace
// consumes.
func (FibonacciLogUp) NumChallenges() int { return 2 }

// BuildAuxTrace computes the running inverse sum.
func (FibonacciLogUp) BuildAuxTrace(main *protocols.Matrix, challenges []xfield.XFieldElement) (*protocols.ExtMatrix, error) {
	if len(challenges) != 2 {
		return nil, fmt.Errorf("expected 2 challenges, got %d", len(challenges))
	}
	gamma, beta := challenges[0], challenges[1]

	values := make([]xfield.XFieldElement, main.Height())
	sum := xfield.Zero
	for r := 0; r < main.Height(); r++ {
		a := xfield.NewConst(main.Get(r, 0))
		b := xfield.NewConst(main.Get(r, 1))
		denom := gamma.Sub(a).Sub(beta.Mul(b))
		if denom.IsZero() {
			return nil, fmt.Errorf("challenge collision at row %d", r)
		}
		sum = sum.Add(denom.Inverse())
		values[r] = sum
	}
	return protocols.NewExtMatrix(values, 1)
}

// Eval registers the Fibonacci and running-sum constraints.
func (FibonacciLogUp) Eval(b protocols.ConstraintBuilder) {
	main := b.Main()
	aux := b.Aux()
	pv := b.PublicValues()
	gamma, beta := b.Challenges()[0], b.Challenges()[1]

	isFirst := b.IsFirstRow()
	isLast := b.IsLastRow()
	isTransition := b.IsTransitionWindow(2)

	a, bCol := main.Local(0), main.Local(1)
	aNext, bNext := main.Next(0), main.Next(1)

	// Boundary: the first and last rows match the public values
	b.AssertZero(isFirst.Mul(a.Sub(xfield.NewConst(pv[0]))))
	b.AssertZero(isFirst.Mul(bCol.Sub(xfield.NewConst(pv[1]))))
	b.AssertZero(isLast.Mul(a.Sub(xfield.NewConst(pv[2]))))
	b.AssertZero(isLast.Mul(bCol.Sub(xfield.NewConst(pv[3]))))

	// Transition: (a, b) -> (b, a+b)
	b.AssertZero(isTransition.Mul(aNext.Sub(bCol)))
	b.AssertZero(isTransition.Mul(bNext.Sub(a).Sub(bCol)))

	// Running sum: s_0 * (gamma - a_0 - beta*b_0) = 1 and
	// (s' - s) * (gamma - a' - beta*b') = 1
	s, sNext := aux.Local(0), aux.Next(0)
	firstDenom := gamma.Sub(a).Sub(beta.Mul(bCol))
	b.AssertZeroExt(isFirst.Mul(s.Mul(firstDenom).Sub(xfield.One)))
	nextDenom := gamma.Sub(aNext).Sub(beta.Mul(bNext))
	b.AssertZeroExt(isTransition.Mul(sNext.Sub(s).Mul(nextDenom).Sub(xfield.One)))
}

// FibonacciTrace builds a Fibonacci trace with the given number of rows
// starting from (0, 1). The row count must be a power of two.
func FibonacciTrace(rows int) (*protocols.Matrix, error) {
	values := make([]field.Element, 2*rows)
	a, b := field.Zero, field.One
	for r := 0; r < rows; r++ {
		values[2*r] = a
		values[2*r+1] = b
		a, b = b, a.Add(b)
	}
	return protocols.NewTraceMatrix(values, 2)
}

// FibonacciPublicValues extracts the public values from a trace: its
// first and last rows.
func FibonacciPublicValues(trace *protocols.Matrix) []field.Element {
	last := trace.Height() - 1
	return []field.Element{
		trace.Get(0, 0), trace.Get(0, 1),
		trace.Get(last, 0), trace.Get(last, 1),
	}
}
