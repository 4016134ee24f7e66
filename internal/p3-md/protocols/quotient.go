package protocols

import (
	"runtime"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// computeQuotientValues evaluates the quotient polynomial on the
// quotient coset: at every point, fold all constraints with the alpha
// powers and divide by the trace domain's vanishing polynomial.
//
// The "next row" seen from point i lives `blowup` coset points ahead,
// because the coset oversamples the trace domain by that factor.
//
// The loop is sharded by index range across the available CPUs; each
// worker writes its own disjoint slice of the output.
func computeQuotientValues(
	comp Computation,
	mainEvals, auxEvals *ExtMatrix,
	challenges []xfield.XFieldElement,
	publicValues []field.Element,
	selectors *CosetSelectors,
	alphaPowers []xfield.XFieldElement,
	blowup int,
) []xfield.XFieldElement {
	quotientSize := mainEvals.Height()
	values := make([]xfield.XFieldElement, quotientSize)

	workers := runtime.NumCPU()
	if workers > quotientSize {
		workers = quotientSize
	}
	chunk := (quotientSize + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < quotientSize; start += chunk {
		end := start + chunk
		if end > quotientSize {
			end = quotientSize
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				next := (i + blowup) % quotientSize

				main := Window{local: mainEvals.Row(i), next: mainEvals.Row(next)}
				aux := Window{}
				if auxEvals.Width() > 0 {
					aux = Window{local: auxEvals.Row(i), next: auxEvals.Row(next)}
				}

				folder := NewProverFolder(
					main, aux,
					challenges, publicValues,
					xfield.NewConst(selectors.IsFirstRow[i]),
					xfield.NewConst(selectors.IsLastRow[i]),
					xfield.NewConst(selectors.IsTransition[i]),
					alphaPowers,
				)
				comp.Eval(folder)

				values[i] = folder.Accumulated().Mul(xfield.NewConst(selectors.InvVanishing[i]))
			}
		}(start, end)
	}
	wg.Wait()

	return values
}
