package demo

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/huitseeker/p3-md/internal/p3-md/protocols"
)

// Counter is the simplest possible computation: a single column that
// increments by one each row. It has no auxiliary trace, exercising the
// engine's no-aux path. Public values are [start, end].
type Counter struct{}

func (Counter) Width() int         { return 1 }
func (Counter) AuxWidth() int      { return 0 }
func (Counter) NumChallenges() int { return 0 }

// BuildAuxTrace is never called for computations without auxiliary
// columns.
func (Counter) BuildAuxTrace(*protocols.Matrix, []xfield.XFieldElement) (*protocols.ExtMatrix, error) {
	return nil, fmt.Errorf("counter has no auxiliary trace")
}

// Eval registers the boundary and increment constraints.
func (Counter) Eval(b protocols.ConstraintBuilder) {
	main := b.Main()
	pv := b.PublicValues()

	c := main.Local(0)
	cNext := main.Next(0)

	b.AssertZero(b.IsFirstRow().Mul(c.Sub(xfield.NewConst(pv[0]))))
	b.AssertZero(b.IsLastRow().Mul(c.Sub(xfield.NewConst(pv[1]))))
	b.AssertZero(b.IsTransitionWindow(2).Mul(cNext.Sub(c).Sub(xfield.One)))
}

// CounterTrace builds a counting trace starting at `start` with the
// given number of rows. The row count must be a power of two.
func CounterTrace(start uint64, rows int) (*protocols.Matrix, error) {
	values := make([]field.Element, rows)
	current := field.New(start)
	for r := 0; r < rows; r++ {
		values[r] = current
		current = current.Add(field.One)
	}
	return protocols.NewTraceMatrix(values, 1)
}

// CounterPublicValues extracts the public values from a counter trace.
func CounterPublicValues(trace *protocols.Matrix) []field.Element {
	return []field.Element{trace.Get(0, 0), trace.Get(trace.Height()-1, 0)}
}
