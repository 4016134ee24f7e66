package protocols

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// Computation describes an algebraic computation whose execution trace the
// engine can prove and verify. Implementations declare their trace shape
// and express their constraints through a ConstraintBuilder, which both
// the prover and the verifier instantiate with their own backing data.
type Computation interface {
	// Width is the number of main-trace columns (base field)
	Width() int

	// AuxWidth is the number of auxiliary-trace columns (extension
	// field); zero if the computation has no auxiliary trace
	AuxWidth() int

	// NumChallenges is the number of verifier challenges the auxiliary
	// trace construction consumes
	NumChallenges() int

	// BuildAuxTrace derives the auxiliary trace from the main trace and
	// the sampled challenges. Only called when AuxWidth() > 0; the
	// result must have the main trace's height and AuxWidth() columns.
	BuildAuxTrace(main *Matrix, challenges []xfield.XFieldElement) (*ExtMatrix, error)

	// Eval expresses every constraint of the computation against the
	// builder. It must register assertions in the same order on every
	// call.
	Eval(b ConstraintBuilder)
}

// Window is a two-row view into a trace: the current row and the next
// (cyclically wrapped) row.
type Window struct {
	local []xfield.XFieldElement
	next  []xfield.XFieldElement
}

// Local returns the value in the given column of the current row.
func (w Window) Local(col int) xfield.XFieldElement {
	return w.local[col]
}

// Next returns the value in the given column of the next row.
func (w Window) Next(col int) xfield.XFieldElement {
	return w.next[col]
}

// Width returns the number of columns in the window.
func (w Window) Width() int {
	return len(w.local)
}

// ConstraintBuilder is the surface a Computation writes its constraints
// against. The prover's folder accumulates full evaluations over the
// quotient domain while the verifier's folder replays the same
// constraints on opened scalars; a Computation cannot tell them apart.
//
// All expressions are extension-field valued. Main-trace values are
// lifted into the extension, so base-field and auxiliary constraints
// share one assertion channel.
type ConstraintBuilder interface {
	// Main returns the two-row window into the main trace
	Main() Window

	// Aux returns the two-row window into the auxiliary trace
	// (width 0 if the computation has none)
	Aux() Window

	// Challenges returns the sampled verifier challenges
	Challenges() []xfield.XFieldElement

	// PublicValues returns the public inputs and outputs
	PublicValues() []field.Element

	// IsFirstRow returns the selector that is nonzero exactly when the
	// window sits on the first trace row
	IsFirstRow() xfield.XFieldElement

	// IsLastRow returns the selector for the last trace row
	IsLastRow() xfield.XFieldElement

	// IsTransitionWindow returns the selector that is nonzero on every
	// row transition except the wrap-around from last to first row.
	// Only window size 2 is supported; any other size panics.
	IsTransitionWindow(size int) xfield.XFieldElement

	// AssertZero registers the constraint x == 0
	AssertZero(x xfield.XFieldElement)

	// AssertZeroExt registers the constraint x == 0 for an
	// extension-valued expression. Identical to AssertZero; kept so
	// auxiliary constraints read as such.
	AssertZeroExt(x xfield.XFieldElement)
}

// countingBuilder runs a Computation's Eval purely to count assertions.
// All values are zero; only the assertion tally matters.
type countingBuilder struct {
	mainWidth    int
	auxWidth     int
	challenges   []xfield.XFieldElement
	publicValues []field.Element
	count        int
}

func (c *countingBuilder) Main() Window {
	return Window{
		local: make([]xfield.XFieldElement, c.mainWidth),
		next:  make([]xfield.XFieldElement, c.mainWidth),
	}
}

func (c *countingBuilder) Aux() Window {
	return Window{
		local: make([]xfield.XFieldElement, c.auxWidth),
		next:  make([]xfield.XFieldElement, c.auxWidth),
	}
}

func (c *countingBuilder) Challenges() []xfield.XFieldElement { return c.challenges }
func (c *countingBuilder) PublicValues() []field.Element      { return c.publicValues }
func (c *countingBuilder) IsFirstRow() xfield.XFieldElement   { return xfield.Zero }
func (c *countingBuilder) IsLastRow() xfield.XFieldElement    { return xfield.Zero }
func (c *countingBuilder) AssertZero(xfield.XFieldElement)    { c.count++ }
func (c *countingBuilder) AssertZeroExt(xfield.XFieldElement) { c.count++ }

func (c *countingBuilder) IsTransitionWindow(size int) xfield.XFieldElement {
	if size != 2 {
		panic("only transition windows of size 2 are supported")
	}
	return xfield.Zero
}

// CountAssertions runs the computation's constraints once against a
// zero-valued builder and returns how many assertions it registers. The
// result sizes the alpha-power table exactly.
func CountAssertions(comp Computation, publicValues []field.Element) int {
	builder := &countingBuilder{
		mainWidth:    comp.Width(),
		auxWidth:     comp.AuxWidth(),
		challenges:   make([]xfield.XFieldElement, comp.NumChallenges()),
		publicValues: publicValues,
	}
	comp.Eval(builder)
	return builder.count
}
