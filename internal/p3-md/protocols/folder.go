package protocols

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// Folders fold every registered constraint into a single scalar
//
//	acc = sum_i c_i * alpha^(n-1-i)
//
// where n is the total assertion count. The prover reaches this sum by
// indexing a precomputed alpha-power table; the verifier reaches the same
// sum with a running Horner accumulator. Constraint order is fixed by
// Computation.Eval, so both sides agree term for term.

// ProverFolder accumulates constraint evaluations at one quotient-domain
// point.
type ProverFolder struct {
	main         Window
	aux          Window
	challenges   []xfield.XFieldElement
	publicValues []field.Element

	isFirstRow   xfield.XFieldElement
	isLastRow    xfield.XFieldElement
	isTransition xfield.XFieldElement

	// alphaPowers[i] = alpha^i, sized to the exact assertion count
	alphaPowers []xfield.XFieldElement
	index       int
	accumulator xfield.XFieldElement
}

// NewProverFolder creates a folder for one evaluation point. The
// alpha-power table must hold exactly as many powers as the computation
// registers assertions.
func NewProverFolder(
	main, aux Window,
	challenges []xfield.XFieldElement,
	publicValues []field.Element,
	isFirstRow, isLastRow, isTransition xfield.XFieldElement,
	alphaPowers []xfield.XFieldElement,
) *ProverFolder {
	return &ProverFolder{
		main:         main,
		aux:          aux,
		challenges:   challenges,
		publicValues: publicValues,
		isFirstRow:   isFirstRow,
		isLastRow:    isLastRow,
		isTransition: isTransition,
		alphaPowers:  alphaPowers,
		accumulator:  xfield.Zero,
	}
}

func (f *ProverFolder) Main() Window                       { return f.main }
func (f *ProverFolder) Aux() Window                        { return f.aux }
func (f *ProverFolder) Challenges() []xfield.XFieldElement { return f.challenges }
func (f *ProverFolder) PublicValues() []field.Element      { return f.publicValues }
func (f *ProverFolder) IsFirstRow() xfield.XFieldElement   { return f.isFirstRow }
func (f *ProverFolder) IsLastRow() xfield.XFieldElement    { return f.isLastRow }

func (f *ProverFolder) IsTransitionWindow(size int) xfield.XFieldElement {
	if size != 2 {
		panic("only transition windows of size 2 are supported")
	}
	return f.isTransition
}

// AssertZero folds constraint c_i with weight alpha^(n-1-i).
func (f *ProverFolder) AssertZero(x xfield.XFieldElement) {
	if f.index >= len(f.alphaPowers) {
		panic("constraint count exceeds the assertion tally; Eval is not deterministic")
	}
	power := f.alphaPowers[len(f.alphaPowers)-1-f.index]
	f.accumulator = f.accumulator.Add(power.Mul(x))
	f.index++
}

func (f *ProverFolder) AssertZeroExt(x xfield.XFieldElement) {
	f.AssertZero(x)
}

// Accumulated returns the folded constraint value.
func (f *ProverFolder) Accumulated() xfield.XFieldElement {
	return f.accumulator
}

// AlphaPowers builds the table [alpha^0, ..., alpha^(count-1)].
func AlphaPowers(alpha xfield.XFieldElement, count int) []xfield.XFieldElement {
	powers := make([]xfield.XFieldElement, count)
	current := xfield.One
	for i := 0; i < count; i++ {
		powers[i] = current
		current = current.Mul(alpha)
	}
	return powers
}

// VerifierFolder replays the constraints on the opened out-of-domain
// scalars, folding them Horner-style into the same combination the
// prover computed.
type VerifierFolder struct {
	main         Window
	aux          Window
	challenges   []xfield.XFieldElement
	publicValues []field.Element

	selectors *PointSelectors

	alpha       xfield.XFieldElement
	accumulator xfield.XFieldElement
}

// NewVerifierFolder creates a folder over the opened values at zeta.
func NewVerifierFolder(
	main, aux Window,
	challenges []xfield.XFieldElement,
	publicValues []field.Element,
	selectors *PointSelectors,
	alpha xfield.XFieldElement,
) *VerifierFolder {
	return &VerifierFolder{
		main:         main,
		aux:          aux,
		challenges:   challenges,
		publicValues: publicValues,
		selectors:    selectors,
		alpha:        alpha,
		accumulator:  xfield.Zero,
	}
}

func (f *VerifierFolder) Main() Window                       { return f.main }
func (f *VerifierFolder) Aux() Window                        { return f.aux }
func (f *VerifierFolder) Challenges() []xfield.XFieldElement { return f.challenges }
func (f *VerifierFolder) PublicValues() []field.Element      { return f.publicValues }
func (f *VerifierFolder) IsFirstRow() xfield.XFieldElement   { return f.selectors.IsFirstRow }
func (f *VerifierFolder) IsLastRow() xfield.XFieldElement    { return f.selectors.IsLastRow }

func (f *VerifierFolder) IsTransitionWindow(size int) xfield.XFieldElement {
	if size != 2 {
		panic("only transition windows of size 2 are supported")
	}
	return f.selectors.IsTransition
}

// AssertZero folds the next constraint: acc = acc*alpha + x.
func (f *VerifierFolder) AssertZero(x xfield.XFieldElement) {
	f.accumulator = f.accumulator.Mul(f.alpha).Add(x)
}

func (f *VerifierFolder) AssertZeroExt(x xfield.XFieldElement) {
	f.AssertZero(x)
}

// Accumulated returns the folded constraint value.
func (f *VerifierFolder) Accumulated() xfield.XFieldElement {
	return f.accumulator
}
