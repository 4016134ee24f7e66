package protocols

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

func testPoly(n int) []xfield.XFieldElement {
	coeffs := make([]xfield.XFieldElement, n)
	for i := range coeffs {
		coeffs[i] = xfield.New([3]field.Element{
			field.New(uint64(i*i + 1)),
			field.New(uint64(3*i + 7)),
			field.New(uint64(i)),
		})
	}
	return coeffs
}

func TestExtNTTRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 8, 32} {
		domain, err := NewArithmeticDomain(n)
		if err != nil {
			t.Fatalf("failed to build domain: %v", err)
		}
		coset := domain.WithOffset(field.New(7))

		coeffs := testPoly(n)
		values, err := extEvaluateCoset(coeffs, coset)
		if err != nil {
			t.Fatalf("n=%d: evaluation failed: %v", n, err)
		}
		back, err := extInterpolateCoset(values, coset)
		if err != nil {
			t.Fatalf("n=%d: interpolation failed: %v", n, err)
		}

		for i := range coeffs {
			if !back[i].Equal(coeffs[i]) {
				t.Fatalf("n=%d: coefficient %d does not round-trip", n, i)
			}
		}
	}
}

func TestExtEvaluateCosetMatchesPointwise(t *testing.T) {
	domain, _ := NewArithmeticDomain(8)
	coset := domain.WithOffset(field.New(7))

	coeffs := testPoly(8)
	values, err := extEvaluateCoset(coeffs, coset)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	for i, x := range coset.Elements() {
		direct := extEvalAt(coeffs, xfield.NewConst(x))
		if !values[i].Equal(direct) {
			t.Errorf("point %d: NTT and Horner disagree", i)
		}
	}
}

func TestExtEvaluateCosetZeroPads(t *testing.T) {
	domain, _ := NewArithmeticDomain(16)

	coeffs := testPoly(4)
	values, err := extEvaluateCoset(coeffs, domain)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if len(values) != 16 {
		t.Fatalf("expected 16 values, got %d", len(values))
	}

	direct := extEvalAt(coeffs, xfield.NewConst(domain.Generator))
	if !values[1].Equal(direct) {
		t.Error("padded evaluation disagrees with Horner")
	}
}

func TestExtEvaluateCosetRejectsOversizedPoly(t *testing.T) {
	domain, _ := NewArithmeticDomain(4)
	if _, err := extEvaluateCoset(testPoly(8), domain); err == nil {
		t.Error("expected error for degree exceeding domain length")
	}
}

func TestExtPow(t *testing.T) {
	x := xfield.New([3]field.Element{field.New(5), field.New(11), field.New(2)})
	if !extPow(x, 0).Equal(xfield.One) {
		t.Error("x^0 != 1")
	}
	if !extPow(x, 1).Equal(x) {
		t.Error("x^1 != x")
	}
	if !extPow(x, 5).Equal(x.Mul(x).Mul(x).Mul(x).Mul(x)) {
		t.Error("x^5 mismatch")
	}
}
