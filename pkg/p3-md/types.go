package p3md

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/huitseeker/p3-md/internal/p3-md/protocols"
)

// Matrix represents a row-major base-field trace table
type Matrix = protocols.Matrix

// ExtMatrix represents a row-major extension-field trace table
type ExtMatrix = protocols.ExtMatrix

// Config bundles the commitment scheme and quotient parameters shared
// by prover and verifier
type Config = protocols.Config

// MerklePCS is the Merkle-tree polynomial commitment scheme
type MerklePCS = protocols.MerklePCS

// Proof represents a STARK proof
type Proof = protocols.Proof

// Computation describes a provable computation: its trace shape and
// constraints
type Computation = protocols.Computation

// ConstraintBuilder is the surface a Computation writes constraints
// against
type ConstraintBuilder = protocols.ConstraintBuilder

// Window is a two-row view into a trace
type Window = protocols.Window

// NewTraceMatrix creates a trace table from row-major values; the row
// count must be a power of two
func NewTraceMatrix(values []field.Element, width int) (*Matrix, error) {
	return protocols.NewTraceMatrix(values, width)
}

// DefaultConfig returns a configuration suitable for constraints of
// degree at most 3
func DefaultConfig() *Config {
	return protocols.DefaultConfig()
}

// NewConfig creates a configuration from a commitment scheme and a
// quotient degree (a power of two)
func NewConfig(pcs *MerklePCS, quotientDegree int) (*Config, error) {
	cfg, err := protocols.NewConfig(pcs, quotientDegree)
	if err != nil {
		return nil, &PMDError{
			Code:    ErrInvalidConfig,
			Message: "invalid proving configuration",
			Cause:   err,
		}
	}
	return cfg, nil
}

// NewMerklePCS creates a Merkle commitment scheme with the given query
// count
func NewMerklePCS(numQueries int) (*MerklePCS, error) {
	pcs, err := protocols.NewMerklePCS(numQueries)
	if err != nil {
		return nil, &PMDError{
			Code:    ErrInvalidConfig,
			Message: "invalid commitment scheme parameters",
			Cause:   err,
		}
	}
	return pcs, nil
}
