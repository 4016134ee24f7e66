package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/huitseeker/p3-md/internal/p3-md/utils"
)

// ArithmeticDomain represents a domain for polynomial operations.
// This is a coset of a multiplicative subgroup: {offset * generator^i : i = 0..length-1}
//
// All domains have power-of-2 lengths for efficient NTT operations.
type ArithmeticDomain struct {
	// Offset shifts the domain (field.One for no offset)
	Offset field.Element

	// Generator is a primitive n-th root of unity where n = length
	Generator field.Element

	// Length is the number of elements in the domain (must be power of 2)
	Length int
}

// NewArithmeticDomain creates a domain with the given length and no offset.
// This is the natural evaluation domain for traces of height `length`.
func NewArithmeticDomain(length int) (*ArithmeticDomain, error) {
	if !utils.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("domain length must be a power of 2, got %d", length)
	}

	// field.PrimitiveRootOfUnity feeds the canonical values in
	// field.PrimitiveRoots through NewFromRaw, which expects Montgomery
	// form, so its results are not roots of unity. Read the table with
	// the canonical-value constructor instead.
	rootValue, ok := field.PrimitiveRoots[uint64(length)]
	if !ok {
		return nil, fmt.Errorf("no primitive root of unity of order %d", length)
	}
	generator := field.New(rootValue)

	return &ArithmeticDomain{
		Offset:    field.One,
		Generator: generator,
		Length:    length,
	}, nil
}

// WithOffset returns a new domain with the given offset
func (d *ArithmeticDomain) WithOffset(offset field.Element) *ArithmeticDomain {
	return &ArithmeticDomain{
		Offset:    offset,
		Generator: d.Generator,
		Length:    d.Length,
	}
}

// CreateDisjointDomain creates a coset of the given size that shares no
// point with this domain. The coset is shifted by a multiplicative
// generator of the field, which lies in no power-of-two subgroup.
func (d *ArithmeticDomain) CreateDisjointDomain(size int) (*ArithmeticDomain, error) {
	coset, err := NewArithmeticDomain(size)
	if err != nil {
		return nil, err
	}
	shift := fieldGenerator()
	if d.Offset.Equal(shift) {
		// Shift twice so the new coset stays disjoint from an
		// already-shifted domain.
		shift = shift.Mul(shift)
	}
	return coset.WithOffset(shift), nil
}

// SplitDomains splits the domain into `factor` disjoint sub-domains of
// equal size. Sub-domain i is {offset * g^i * (g^factor)^j : j = 0..m-1}
// where g is this domain's generator and m = length/factor.
func (d *ArithmeticDomain) SplitDomains(factor int) ([]*ArithmeticDomain, error) {
	if !utils.IsPowerOfTwo(factor) || factor > d.Length {
		return nil, fmt.Errorf("split factor must be a power of 2 <= %d, got %d", d.Length, factor)
	}

	subGenerator := fieldPow(d.Generator, uint64(factor))
	subDomains := make([]*ArithmeticDomain, factor)
	offset := d.Offset
	for i := 0; i < factor; i++ {
		subDomains[i] = &ArithmeticDomain{
			Offset:    offset,
			Generator: subGenerator,
			Length:    d.Length / factor,
		}
		offset = offset.Mul(d.Generator)
	}
	return subDomains, nil
}

// Elements returns all elements in the domain: {offset * generator^i : i = 0..length-1}
func (d *ArithmeticDomain) Elements() []field.Element {
	elements := make([]field.Element, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// NextPoint maps an out-of-domain point to the point one trace row later,
// i.e. zeta * g where g generates the underlying subgroup.
func (d *ArithmeticDomain) NextPoint(zeta xfield.XFieldElement) (xfield.XFieldElement, error) {
	if d.Length == 0 {
		return xfield.Zero, fmt.Errorf("domain has no next-point operation")
	}
	return zeta.Mul(xfield.NewConst(d.Generator)), nil
}

// VanishingAtPoint evaluates the domain's vanishing polynomial
// Z(X) = X^n - offset^n at an out-of-domain point.
func (d *ArithmeticDomain) VanishingAtPoint(zeta xfield.XFieldElement) xfield.XFieldElement {
	zn := extPow(zeta, uint64(d.Length))
	return zn.Sub(xfield.NewConst(fieldPow(d.Offset, uint64(d.Length))))
}

// lastPoint returns the domain's last element, offset * g^(n-1).
func (d *ArithmeticDomain) lastPoint() field.Element {
	return d.Offset.Mul(fieldPow(d.Generator, uint64(d.Length-1)))
}

// String returns a human-readable representation
func (d *ArithmeticDomain) String() string {
	return fmt.Sprintf("Domain{length: %d, offset: %v, generator: %v}",
		d.Length, d.Offset, d.Generator)
}

// CosetSelectors holds selector evaluations over an entire evaluation coset.
//
// For a trace domain H of size n with generator g, evaluated at x:
//
//	Z_H(x)         = x^n - 1
//	is_first_row   = Z_H(x) / (x - 1)
//	is_last_row    = Z_H(x) / (x - g^(n-1))
//	is_transition  = x - g^(n-1)
//	inv_vanishing  = 1 / Z_H(x)
//
// Every coset point must lie outside H, so none of the divisions can hit
// zero.
type CosetSelectors struct {
	IsFirstRow   []field.Element
	IsLastRow    []field.Element
	IsTransition []field.Element
	InvVanishing []field.Element
}

// SelectorsOnCoset computes the trace-domain selectors at every point of a
// disjoint evaluation coset.
func (d *ArithmeticDomain) SelectorsOnCoset(coset *ArithmeticDomain) (*CosetSelectors, error) {
	n := uint64(d.Length)
	first := d.Offset
	last := d.lastPoint()
	offsetN := fieldPow(d.Offset, n)

	sel := &CosetSelectors{
		IsFirstRow:   make([]field.Element, coset.Length),
		IsLastRow:    make([]field.Element, coset.Length),
		IsTransition: make([]field.Element, coset.Length),
		InvVanishing: make([]field.Element, coset.Length),
	}

	for i, x := range coset.Elements() {
		vanishing := fieldPow(x, n).Sub(offsetN)
		if vanishing.IsZero() {
			return nil, fmt.Errorf("coset point %d lies on the trace domain", i)
		}
		sel.InvVanishing[i] = vanishing.Inverse()
		sel.IsFirstRow[i] = vanishing.Mul(x.Sub(first).Inverse())
		sel.IsLastRow[i] = vanishing.Mul(x.Sub(last).Inverse())
		sel.IsTransition[i] = x.Sub(last)
	}

	return sel, nil
}

// PointSelectors holds selector values at a single out-of-domain point.
type PointSelectors struct {
	IsFirstRow   xfield.XFieldElement
	IsLastRow    xfield.XFieldElement
	IsTransition xfield.XFieldElement
	Vanishing    xfield.XFieldElement
}

// SelectorsAtPoint computes the trace-domain selectors at one
// out-of-domain point. The point must not lie on the domain.
func (d *ArithmeticDomain) SelectorsAtPoint(zeta xfield.XFieldElement) (*PointSelectors, error) {
	vanishing := d.VanishingAtPoint(zeta)
	if vanishing.IsZero() {
		return nil, fmt.Errorf("evaluation point lies on the trace domain")
	}

	first := xfield.NewConst(d.Offset)
	last := xfield.NewConst(d.lastPoint())

	return &PointSelectors{
		IsFirstRow:   vanishing.Mul(zeta.Sub(first).Inverse()),
		IsLastRow:    vanishing.Mul(zeta.Sub(last).Inverse()),
		IsTransition: zeta.Sub(last),
		Vanishing:    vanishing,
	}, nil
}

// fieldGenerator returns a multiplicative generator of the base field,
// used as a coset shift. 7 generates the Goldilocks multiplicative group.
func fieldGenerator() field.Element {
	return field.New(7)
}

// fieldPow raises a base-field element to a power by square-and-multiply.
func fieldPow(base field.Element, exp uint64) field.Element {
	result := field.One
	for ; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}
