package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "p3md",
	Short: "STARK prover and verifier for the Fibonacci-LogUp demo computation",
	Long: `p3md proves and verifies executions of the built-in Fibonacci
computation with a LogUp-style auxiliary column. Proofs are written as
JSON files together with a sha3-256 fingerprint.`,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
