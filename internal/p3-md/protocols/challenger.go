package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// Challenger is the Fiat-Shamir transcript. Prover and verifier each run
// one and feed it the exact same observations in the exact same order;
// any divergence makes every subsequent challenge differ.
//
// Backed by the Tip5 sponge in duplex mode, like the proof streams in
// triton-vm.
type Challenger struct {
	sponge *hash.Tip5
}

// NewChallenger creates a fresh transcript.
func NewChallenger() *Challenger {
	return &Challenger{sponge: hash.Init()}
}

// Observe absorbs a single base-field element.
func (c *Challenger) Observe(e field.Element) {
	c.sponge.PadAndAbsorbAll([]field.Element{e})
}

// ObserveSlice absorbs a slice of base-field elements.
func (c *Challenger) ObserveSlice(elements []field.Element) {
	c.sponge.PadAndAbsorbAll(elements)
}

// ObserveExt absorbs an extension-field element coefficient by
// coefficient.
func (c *Challenger) ObserveExt(x xfield.XFieldElement) {
	coeffs := x.Coefficients
	c.sponge.PadAndAbsorbAll(coeffs[:])
}

// ObserveExtSlice absorbs a slice of extension-field elements.
func (c *Challenger) ObserveExtSlice(elements []xfield.XFieldElement) {
	flat := make([]field.Element, 0, 3*len(elements))
	for _, x := range elements {
		coeffs := x.Coefficients
		flat = append(flat, coeffs[:]...)
	}
	c.sponge.PadAndAbsorbAll(flat)
}

// ObserveCommitment absorbs a Merkle root.
func (c *Challenger) ObserveCommitment(d hash.Digest) {
	c.sponge.PadAndAbsorbAll(d[:])
}

// Sample squeezes one extension-field challenge out of the transcript.
func (c *Challenger) Sample() (xfield.XFieldElement, error) {
	scalars, err := c.sponge.SampleScalars(1)
	if err != nil {
		return xfield.Zero, fmt.Errorf("failed to sample challenge: %w", err)
	}
	return scalars[0], nil
}

// SampleMany squeezes n extension-field challenges.
func (c *Challenger) SampleMany(n int) ([]xfield.XFieldElement, error) {
	scalars, err := c.sponge.SampleScalars(n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample challenges: %w", err)
	}
	return scalars, nil
}

// SampleIndices squeezes n indices below the given bound.
func (c *Challenger) SampleIndices(bound uint32, n int) []uint32 {
	return c.sponge.SampleIndices(bound, n)
}
