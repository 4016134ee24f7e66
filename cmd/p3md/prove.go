package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/huitseeker/p3-md/internal/p3-md/demo"
	p3md "github.com/huitseeker/p3-md/pkg/p3-md"
)

var (
	proveSteps     int
	proveOut       string
	proveTamperRow int
	proveTamperCol int
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Generate a proof for the Fibonacci-LogUp computation",
	RunE:  runProve,
}

func init() {
	proveCmd.Flags().IntVar(&proveSteps, "steps", 8, "trace height (power of two)")
	proveCmd.Flags().StringVar(&proveOut, "out", "proof.json", "output proof file")
	proveCmd.Flags().IntVar(&proveTamperRow, "tamper-row", -1, "row of a trace cell to corrupt before proving")
	proveCmd.Flags().IntVar(&proveTamperCol, "tamper-col", 0, "column of the trace cell to corrupt")
	rootCmd.AddCommand(proveCmd)
}

func runProve(cmd *cobra.Command, args []string) error {
	trace, err := demo.FibonacciTrace(proveSteps)
	if err != nil {
		return fmt.Errorf("failed to build trace: %w", err)
	}
	publicValues := demo.FibonacciPublicValues(trace)

	if proveTamperRow >= 0 {
		log.Warn().Int("row", proveTamperRow).Int("col", proveTamperCol).
			Msg("corrupting trace cell; the resulting proof should fail verification")
		trace.Set(proveTamperRow, proveTamperCol, field.New(99))
	}

	log.Info().Int("steps", proveSteps).Msg("generating proof")
	start := time.Now()

	cfg := p3md.DefaultConfig()
	proof, err := p3md.Prove(cfg, demo.FibonacciLogUp{}, trace, publicValues)
	if err != nil {
		return fmt.Errorf("proof generation failed: %w", err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("proof generated")

	raw, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize proof: %w", err)
	}
	if err := os.WriteFile(proveOut, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write proof file: %w", err)
	}

	fingerprint, err := proof.Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint proof: %w", err)
	}
	log.Info().Str("file", proveOut).Str("sha3_256", fingerprint).Msg("proof written")

	return nil
}
