package p3md

import "fmt"

// ErrorCode represents a proving engine error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidInput represents an invalid input error
	ErrInvalidInput

	// ErrProofGeneration represents a proof generation error
	ErrProofGeneration

	// ErrProofVerification represents a proof verification error
	ErrProofVerification

	// ErrInvalidProof represents a structurally invalid proof
	ErrInvalidProof
)

// PMDError represents a proving engine error
type PMDError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *PMDError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("p3-md error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("p3-md error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *PMDError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *PMDError) Is(target error) bool {
	t, ok := target.(*PMDError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
