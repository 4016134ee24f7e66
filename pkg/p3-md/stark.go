package p3md

import (
	"errors"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/huitseeker/p3-md/internal/p3-md/protocols"
)

// Prove generates a proof that the trace satisfies the computation's
// constraints under the given public values.
func Prove(cfg *Config, comp Computation, trace *Matrix, publicValues []field.Element) (*Proof, error) {
	if cfg == nil {
		return nil, &PMDError{Code: ErrInvalidConfig, Message: "config must not be nil"}
	}
	if comp == nil {
		return nil, &PMDError{Code: ErrInvalidInput, Message: "computation must not be nil"}
	}
	if trace == nil {
		return nil, &PMDError{Code: ErrInvalidInput, Message: "trace must not be nil"}
	}

	proof, err := protocols.Prove(cfg, comp, trace, publicValues)
	if err != nil {
		return nil, &PMDError{
			Code:    ErrProofGeneration,
			Message: "failed to generate proof",
			Cause:   err,
		}
	}
	return proof, nil
}

// Verify checks a proof against the computation and public values. A
// nil return means the proof is valid.
func Verify(cfg *Config, comp Computation, proof *Proof, publicValues []field.Element) error {
	if cfg == nil {
		return &PMDError{Code: ErrInvalidConfig, Message: "config must not be nil"}
	}
	if comp == nil {
		return &PMDError{Code: ErrInvalidInput, Message: "computation must not be nil"}
	}
	if proof == nil {
		return &PMDError{Code: ErrInvalidInput, Message: "proof must not be nil"}
	}

	if err := protocols.Verify(cfg, comp, proof, publicValues); err != nil {
		code := ErrProofVerification
		if errors.Is(err, protocols.ErrInvalidProof) {
			code = ErrInvalidProof
		}
		return &PMDError{
			Code:    code,
			Message: "proof verification failed",
			Cause:   err,
		}
	}
	return nil
}
