// Package p3md provides a generalized STARK proving engine with
// auxiliary-trace support.
//
// The engine proves that an execution trace satisfies the constraints of
// a Computation. Beyond the classic single-trace STARK flow it supports
// a second, auxiliary trace whose columns live in a degree-3 field
// extension and are built from verifier challenges sampled after the
// main trace is committed. This enables LogUp-style lookup and
// permutation arguments.
//
// # Quick Start
//
// Proving and verifying a computation:
//
//	cfg := p3md.DefaultConfig()
//
//	proof, err := p3md.Prove(cfg, computation, trace, publicValues)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := p3md.Verify(cfg, computation, proof, publicValues); err != nil {
//		log.Fatal(err)
//	}
//
// A Computation declares its trace shape and expresses its constraints
// against a ConstraintBuilder; the same constraint code runs inside the
// prover (over full evaluation domains) and the verifier (over opened
// scalars).
//
// # Architecture
//
// - pkg/p3-md/: Public API (this package)
// - internal/p3-md/: Private implementation (not importable)
//
// The public API provides stable interfaces for proving, verification,
// configuration and the Computation contract. Implementation details in
// internal/ can be refactored without breaking the public API.
//
// # References
//
// - STARK Paper: https://eprint.iacr.org/2018/046
// - LogUp Paper: https://eprint.iacr.org/2022/1530
//
// # License
//
// See LICENSE file in the repository root.
package p3md
