package protocols

import (
	"fmt"

	"github.com/huitseeker/p3-md/internal/p3-md/utils"
)

// Config bundles the commitment scheme and the quotient-splitting factor
// shared by prover and verifier. The two sides must use identical
// configs or the transcript diverges.
type Config struct {
	pcs *MerklePCS

	// quotientDegree is the blowup factor of the quotient domain and
	// the number of chunks the quotient polynomial splits into
	quotientDegree int
}

// NewConfig creates a configuration. The quotient degree must be a
// power of two; it bounds the degree of the constraint polynomials the
// engine can handle.
func NewConfig(pcs *MerklePCS, quotientDegree int) (*Config, error) {
	if pcs == nil {
		return nil, fmt.Errorf("config requires a commitment scheme")
	}
	if !utils.IsPowerOfTwo(quotientDegree) {
		return nil, fmt.Errorf("quotient degree must be a power of 2, got %d", quotientDegree)
	}
	return &Config{pcs: pcs, quotientDegree: quotientDegree}, nil
}

// DefaultConfig returns a configuration suitable for constraints of
// degree at most 3: quotient degree 4 with the default query count.
func DefaultConfig() *Config {
	pcs, err := NewMerklePCS(DefaultNumQueries)
	if err != nil {
		panic(err) // unreachable: DefaultNumQueries is positive
	}
	cfg, err := NewConfig(pcs, 4)
	if err != nil {
		panic(err) // unreachable: 4 is a power of 2
	}
	return cfg
}

// PCS returns the commitment scheme.
func (c *Config) PCS() *MerklePCS {
	return c.pcs
}

// QuotientDegree returns the quotient-splitting factor.
func (c *Config) QuotientDegree() int {
	return c.quotientDegree
}

// Challenger starts a fresh Fiat-Shamir transcript.
func (c *Config) Challenger() *Challenger {
	return NewChallenger()
}
