// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spendsight/spendsight/internal/logging"
	"github.com/spendsight/spendsight/internal/propensity"
	"github.com/spf13/cobra"
)

var (
	flagData     string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "spendsight",
	Short: "Member spend propensity recommendations",
	Long: `Spendsight ranks spending categories for members of a loyalty program
from a precomputed (N, 10) propensity matrix.

The matrix file may be NumPy .npy (float dtypes) or raw little-endian
float64 values.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Console logging on stderr keeps stdout clean for JSON/CSV output.
		logging.Init(logging.Config{
			Level:  flagLogLevel,
			Format: "console",
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagData, "data", propensity.DefaultDataPath,
		"propensity matrix file (.npy or raw float64)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn",
		"log level (trace, debug, info, warn, error)")
}

// loadMatrix loads the matrix from --data with timing for the log.
func loadMatrix() (*propensity.Matrix, error) {
	start := time.Now()
	mat, err := propensity.Load(flagData)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("path", flagData).
		Int("rows", mat.Rows()).
		Dur("elapsed", time.Since(start)).
		Msg("matrix loaded")
	return mat, nil
}

// printJSON writes v to stdout with indentation.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
