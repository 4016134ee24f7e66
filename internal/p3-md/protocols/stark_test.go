package protocols

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// testCounter is a single incrementing column with no auxiliary trace.
// Public values: [start, end].
type testCounter struct{}

func (testCounter) Width() int         { return 1 }
func (testCounter) AuxWidth() int      { return 0 }
func (testCounter) NumChallenges() int { return 0 }

func (testCounter) BuildAuxTrace(*Matrix, []xfield.XFieldElement) (*ExtMatrix, error) {
	return nil, fmt.Errorf("no auxiliary trace")
}

func (testCounter) Eval(b ConstraintBuilder) {
	main := b.Main()
	pv := b.PublicValues()
	c, cNext := main.Local(0), main.Next(0)

	b.AssertZero(b.IsFirstRow().Mul(c.Sub(xfield.NewConst(pv[0]))))
	b.AssertZero(b.IsLastRow().Mul(c.Sub(xfield.NewConst(pv[1]))))
	b.AssertZero(b.IsTransitionWindow(2).Mul(cNext.Sub(c).Sub(xfield.One)))
}

func counterTrace(t *testing.T, start uint64, rows int) (*Matrix, []field.Element) {
	t.Helper()
	values := make([]field.Element, rows)
	current := field.New(start)
	for r := 0; r < rows; r++ {
		values[r] = current
		current = current.Add(field.One)
	}
	trace, err := NewTraceMatrix(values, 1)
	if err != nil {
		t.Fatalf("failed to build trace: %v", err)
	}
	return trace, []field.Element{trace.Get(0, 0), trace.Get(rows-1, 0)}
}

// testFib is a Fibonacci computation with a LogUp-style running-sum
// auxiliary column over two challenges. Public values:
// [a_0, b_0, a_last, b_last].
type testFib struct{}

func (testFib) Width() int         { return 2 }
func (testFib) AuxWidth() int      { return 1 }
func (testFib) NumChallenges() int { return 2 }

func (testFib) BuildAuxTrace(main *Matrix, challenges []xfield.XFieldElement) (*ExtMatrix, error) {
	gamma, beta := challenges[0], challenges[1]
	values := make([]xfield.XFieldElement, main.Height())
	sum := xfield.Zero
	for r := 0; r < main.Height(); r++ {
		denom := gamma.
			Sub(xfield.NewConst(main.Get(r, 0))).
			Sub(beta.Mul(xfield.NewConst(main.Get(r, 1))))
		if denom.IsZero() {
			return nil, fmt.Errorf("challenge collision at row %d", r)
		}
		sum = sum.Add(denom.Inverse())
		values[r] = sum
	}
	return NewExtMatrix(values, 1)
}

func (testFib) Eval(b ConstraintBuilder) {
	main, aux := b.Main(), b.Aux()
	pv := b.PublicValues()
	gamma, beta := b.Challenges()[0], b.Challenges()[1]

	isFirst := b.IsFirstRow()
	isLast := b.IsLastRow()
	isTransition := b.IsTransitionWindow(2)

	a, fb := main.Local(0), main.Local(1)
	aNext, fbNext := main.Next(0), main.Next(1)

	b.AssertZero(isFirst.Mul(a.Sub(xfield.NewConst(pv[0]))))
	b.AssertZero(isFirst.Mul(fb.Sub(xfield.NewConst(pv[1]))))
	b.AssertZero(isLast.Mul(a.Sub(xfield.NewConst(pv[2]))))
	b.AssertZero(isLast.Mul(fb.Sub(xfield.NewConst(pv[3]))))
	b.AssertZero(isTransition.Mul(aNext.Sub(fb)))
	b.AssertZero(isTransition.Mul(fbNext.Sub(a).Sub(fb)))

	s, sNext := aux.Local(0), aux.Next(0)
	b.AssertZeroExt(isFirst.Mul(s.Mul(gamma.Sub(a).Sub(beta.Mul(fb))).Sub(xfield.One)))
	b.AssertZeroExt(isTransition.Mul(
		sNext.Sub(s).Mul(gamma.Sub(aNext).Sub(beta.Mul(fbNext))).Sub(xfield.One)))
}

func fibTrace(t *testing.T, rows int) (*Matrix, []field.Element) {
	t.Helper()
	values := make([]field.Element, 2*rows)
	a, b := field.Zero, field.One
	for r := 0; r < rows; r++ {
		values[2*r] = a
		values[2*r+1] = b
		a, b = b, a.Add(b)
	}
	trace, err := NewTraceMatrix(values, 2)
	if err != nil {
		t.Fatalf("failed to build trace: %v", err)
	}
	last := rows - 1
	return trace, []field.Element{
		trace.Get(0, 0), trace.Get(0, 1),
		trace.Get(last, 0), trace.Get(last, 1),
	}
}

func TestProveVerifyCompleteness(t *testing.T) {
	cfg := DefaultConfig()
	for _, height := range []int{1, 2, 4, 8, 16, 32, 64} {
		t.Run(fmt.Sprintf("Height%d", height), func(t *testing.T) {
			trace, pv := counterTrace(t, 5, height)
			proof, err := Prove(cfg, testCounter{}, trace, pv)
			if err != nil {
				t.Fatalf("proof generation failed: %v", err)
			}
			if err := Verify(cfg, testCounter{}, proof, pv); err != nil {
				t.Errorf("valid proof rejected: %v", err)
			}
		})
	}
}

func TestProveVerifyWithAux(t *testing.T) {
	cfg := DefaultConfig()
	for _, height := range []int{2, 4, 8, 16} {
		t.Run(fmt.Sprintf("Height%d", height), func(t *testing.T) {
			trace, pv := fibTrace(t, height)
			proof, err := Prove(cfg, testFib{}, trace, pv)
			if err != nil {
				t.Fatalf("proof generation failed: %v", err)
			}
			if proof.AuxCommit == nil {
				t.Fatal("proof is missing the auxiliary commitment")
			}
			if err := Verify(cfg, testFib{}, proof, pv); err != nil {
				t.Errorf("valid proof rejected: %v", err)
			}
		})
	}
}

func TestFibonacciScenario(t *testing.T) {
	cfg := DefaultConfig()

	trace, pv := fibTrace(t, 8)
	if pv[2].Value() != 13 || pv[3].Value() != 21 {
		t.Fatalf("unexpected final row (%d, %d), want (13, 21)", pv[2].Value(), pv[3].Value())
	}

	proof, err := Prove(cfg, testFib{}, trace, pv)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}
	if err := Verify(cfg, testFib{}, proof, pv); err != nil {
		t.Fatalf("valid proof rejected: %v", err)
	}

	t.Run("CorruptedCellRejected", func(t *testing.T) {
		bad, badPV := fibTrace(t, 8)
		bad.Set(3, 0, field.New(99))

		proof, err := Prove(cfg, testFib{}, bad, badPV)
		if err != nil {
			t.Fatalf("proof generation failed: %v", err)
		}
		err = Verify(cfg, testFib{}, proof, badPV)
		if err == nil {
			t.Fatal("proof over a corrupted trace accepted")
		}
		if !errors.Is(err, ErrConstraintVerificationFailed) {
			t.Errorf("expected constraint failure, got: %v", err)
		}
	})
}

func TestWrongPublicValuesRejected(t *testing.T) {
	cfg := DefaultConfig()
	trace, pv := counterTrace(t, 5, 8)

	proof, err := Prove(cfg, testCounter{}, trace, pv)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}

	wrong := []field.Element{pv[0], pv[1].Add(field.One)}
	if err := Verify(cfg, testCounter{}, proof, wrong); err == nil {
		t.Error("proof accepted under different public values")
	}
}

func TestTamperedProofRejected(t *testing.T) {
	cfg := DefaultConfig()
	trace, pv := fibTrace(t, 8)

	prove := func(t *testing.T) *Proof {
		t.Helper()
		proof, err := Prove(cfg, testFib{}, trace, pv)
		if err != nil {
			t.Fatalf("proof generation failed: %v", err)
		}
		return proof
	}

	tampered := map[string]func(*Proof){
		"MainLocal":     func(p *Proof) { p.MainLocal[0] = p.MainLocal[0].Add(xfield.One) },
		"MainNext":      func(p *Proof) { p.MainNext[1] = p.MainNext[1].Add(xfield.One) },
		"AuxLocal":      func(p *Proof) { p.AuxLocal[0] = p.AuxLocal[0].Add(xfield.One) },
		"AuxNext":       func(p *Proof) { p.AuxNext[0] = p.AuxNext[0].Add(xfield.One) },
		"QuotientChunk": func(p *Proof) { p.QuotientChunks[2][0] = p.QuotientChunks[2][0].Add(xfield.One) },
		"MainCommit":    func(p *Proof) { p.MainCommit[0] = p.MainCommit[0].Add(field.One) },
	}

	for name, tamper := range tampered {
		t.Run(name, func(t *testing.T) {
			proof := prove(t)
			tamper(proof)
			if err := Verify(cfg, testFib{}, proof, pv); err == nil {
				t.Error("tampered proof accepted")
			}
		})
	}
}

func TestAuxPresenceConsistency(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("UnexpectedAuxRejected", func(t *testing.T) {
		trace, pv := counterTrace(t, 0, 4)
		proof, err := Prove(cfg, testCounter{}, trace, pv)
		if err != nil {
			t.Fatalf("proof generation failed: %v", err)
		}

		forged := Commitment{}
		proof.AuxCommit = &forged
		err = Verify(cfg, testCounter{}, proof, pv)
		if !errors.Is(err, ErrInvalidProof) {
			t.Errorf("expected invalid-proof error, got: %v", err)
		}
	})

	t.Run("MissingAuxRejected", func(t *testing.T) {
		trace, pv := fibTrace(t, 4)
		proof, err := Prove(cfg, testFib{}, trace, pv)
		if err != nil {
			t.Fatalf("proof generation failed: %v", err)
		}

		proof.AuxCommit = nil
		err = Verify(cfg, testFib{}, proof, pv)
		if !errors.Is(err, ErrInvalidProof) {
			t.Errorf("expected invalid-proof error, got: %v", err)
		}
	})
}

func TestChunkCount(t *testing.T) {
	cfg := DefaultConfig()
	trace, pv := counterTrace(t, 1, 8)

	proof, err := Prove(cfg, testCounter{}, trace, pv)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}
	if len(proof.QuotientCommits) != cfg.QuotientDegree() {
		t.Errorf("expected %d quotient commitments, got %d",
			cfg.QuotientDegree(), len(proof.QuotientCommits))
	}
	if len(proof.QuotientChunks) != cfg.QuotientDegree() {
		t.Errorf("expected %d quotient chunks, got %d",
			cfg.QuotientDegree(), len(proof.QuotientChunks))
	}
}

func TestTranscriptDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	trace, pv := fibTrace(t, 8)

	first, err := Prove(cfg, testFib{}, trace, pv)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}
	second, err := Prove(cfg, testFib{}, trace, pv)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}

	fa, err := first.Fingerprint()
	if err != nil {
		t.Fatalf("failed to fingerprint: %v", err)
	}
	fb, err := second.Fingerprint()
	if err != nil {
		t.Fatalf("failed to fingerprint: %v", err)
	}
	if fa != fb {
		t.Error("identical inputs produced different proofs")
	}
}

func TestProofJSONRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	trace, pv := fibTrace(t, 8)

	proof, err := Prove(cfg, testFib{}, trace, pv)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}

	raw, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("failed to serialize: %v", err)
	}
	var decoded Proof
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if err := Verify(cfg, testFib{}, &decoded, pv); err != nil {
		t.Errorf("decoded proof rejected: %v", err)
	}
}

func TestWidthMismatchRejected(t *testing.T) {
	cfg := DefaultConfig()
	trace, pv := fibTrace(t, 4)

	if _, err := Prove(cfg, testCounter{}, trace, pv); err == nil {
		t.Error("expected error for trace width mismatch")
	}
}
