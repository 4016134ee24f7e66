package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/huitseeker/p3-md/internal/p3-md/demo"
	p3md "github.com/huitseeker/p3-md/pkg/p3-md"
)

var (
	verifyIn    string
	verifySteps int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a previously generated proof",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyIn, "in", "proof.json", "proof file to verify")
	verifyCmd.Flags().IntVar(&verifySteps, "steps", 8, "claimed trace height (power of two)")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(verifyIn)
	if err != nil {
		return fmt.Errorf("failed to read proof file: %w", err)
	}

	var proof p3md.Proof
	if err := json.Unmarshal(raw, &proof); err != nil {
		return fmt.Errorf("failed to decode proof: %w", err)
	}

	fingerprint, err := proof.Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint proof: %w", err)
	}
	log.Info().Str("file", verifyIn).Str("sha3_256", fingerprint).Msg("proof loaded")

	// The verifier recomputes the claimed public values from the step
	// count; it never sees the trace.
	expected, err := demo.FibonacciTrace(verifySteps)
	if err != nil {
		return fmt.Errorf("failed to derive public values: %w", err)
	}
	publicValues := demo.FibonacciPublicValues(expected)

	start := time.Now()
	cfg := p3md.DefaultConfig()
	if err := p3md.Verify(cfg, demo.FibonacciLogUp{}, &proof, publicValues); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("proof verified")
	return nil
}
