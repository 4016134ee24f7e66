package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/huitseeker/p3-md/internal/p3-md/utils"
)

// Polynomial helpers over the extension field. The NTT twiddles are
// base-field roots of unity lifted into the extension, so the same
// two-adic subgroups serve base and extension polynomials alike.

// extPow raises an extension element to a power by square-and-multiply.
func extPow(base xfield.XFieldElement, exp uint64) xfield.XFieldElement {
	result := xfield.One
	for ; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}

// extNTT evaluates the polynomial with the given coefficients on the
// subgroup generated by `generator` (a primitive n-th root of unity for
// n = len(values)). Iterative radix-2 Cooley-Tukey, in natural order.
func extNTT(values []xfield.XFieldElement, generator field.Element) ([]xfield.XFieldElement, error) {
	n := len(values)
	if !utils.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("NTT size must be a power of 2, got %d", n)
	}

	out := make([]xfield.XFieldElement, n)
	copy(out, values)

	// Bit-reversal permutation
	logN := utils.Log2(n)
	for i := 0; i < n; i++ {
		j := reverseBits(i, logN)
		if i < j {
			out[i], out[j] = out[j], out[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := fieldPow(generator, uint64(n/size))
		for start := 0; start < n; start += size {
			w := field.One
			for k := 0; k < half; k++ {
				even := out[start+k]
				odd := out[start+k+half].Mul(xfield.NewConst(w))
				out[start+k] = even.Add(odd)
				out[start+k+half] = even.Sub(odd)
				w = w.Mul(step)
			}
		}
	}

	return out, nil
}

// extInverseNTT interpolates evaluations over the subgroup generated by
// `generator` back into coefficient form.
func extInverseNTT(values []xfield.XFieldElement, generator field.Element) ([]xfield.XFieldElement, error) {
	coeffs, err := extNTT(values, generator.Inverse())
	if err != nil {
		return nil, err
	}

	nInv := field.New(uint64(len(values))).Inverse()
	scale := xfield.NewConst(nInv)
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(scale)
	}
	return coeffs, nil
}

// extInterpolateCoset interpolates evaluations over a coset into
// coefficient form. Writing g(x) = f(offset*x), the evaluations are a
// plain subgroup NTT of g; dividing coefficient i by offset^i recovers f.
func extInterpolateCoset(values []xfield.XFieldElement, domain *ArithmeticDomain) ([]xfield.XFieldElement, error) {
	if len(values) != domain.Length {
		return nil, fmt.Errorf("expected %d evaluations, got %d", domain.Length, len(values))
	}

	coeffs, err := extInverseNTT(values, domain.Generator)
	if err != nil {
		return nil, err
	}

	if !domain.Offset.Equal(field.One) {
		offsetInv := domain.Offset.Inverse()
		power := field.One
		for i := range coeffs {
			coeffs[i] = coeffs[i].Mul(xfield.NewConst(power))
			power = power.Mul(offsetInv)
		}
	}
	return coeffs, nil
}

// extEvaluateCoset evaluates a coefficient-form polynomial on a coset.
// Coefficients beyond the domain length are rejected; shorter inputs are
// zero-padded.
func extEvaluateCoset(coeffs []xfield.XFieldElement, domain *ArithmeticDomain) ([]xfield.XFieldElement, error) {
	if len(coeffs) > domain.Length {
		return nil, fmt.Errorf("polynomial degree %d exceeds domain length %d", len(coeffs)-1, domain.Length)
	}

	scaled := make([]xfield.XFieldElement, domain.Length)
	power := field.One
	for i := range coeffs {
		scaled[i] = coeffs[i].Mul(xfield.NewConst(power))
		power = power.Mul(domain.Offset)
	}
	for i := len(coeffs); i < domain.Length; i++ {
		scaled[i] = xfield.Zero
	}

	return extNTT(scaled, domain.Generator)
}

// extEvalAt evaluates a coefficient-form polynomial at a single point
// using Horner's rule.
func extEvalAt(coeffs []xfield.XFieldElement, point xfield.XFieldElement) xfield.XFieldElement {
	result := xfield.Zero
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result.Mul(point).Add(coeffs[i])
	}
	return result
}

// reverseBits reverses the low `bits` bits of i.
func reverseBits(i, bits int) int {
	result := 0
	for b := 0; b < bits; b++ {
		result = (result << 1) | (i & 1)
		i >>= 1
	}
	return result
}
