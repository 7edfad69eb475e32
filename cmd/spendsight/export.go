// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package main

import (
	"fmt"
	"os"

	"github.com/spendsight/spendsight/internal/export"
	"github.com/spendsight/spendsight/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagInput     string
	flagOutput    string
	flagFormat    string
	flagDelimiter string
	flagPrecision int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the propensity matrix as delimited text or .npy",
	Long: `Convert the matrix to another format. --format csv (default) writes
delimited text, one member per line, scores in canonical category column
order; --format npy writes a self-describing .npy container, which also
normalizes a raw float64 dump. Without --output the result goes to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagInput != "" {
			flagData = flagInput
		}
		mat, err := loadMatrix()
		if err != nil {
			return err
		}

		switch flagFormat {
		case "csv":
			delim := []rune(flagDelimiter)
			if len(delim) != 1 {
				return fmt.Errorf("delimiter must be a single character, got %q", flagDelimiter)
			}
			opts := export.CSVOptions{Delimiter: delim[0], Precision: flagPrecision}
			if flagOutput == "" {
				return export.WriteCSV(os.Stdout, mat, opts)
			}
			err = export.WriteCSVFile(flagOutput, mat, opts)
		case "npy":
			if flagOutput == "" {
				return export.WriteNPY(os.Stdout, mat)
			}
			err = export.WriteNPYFile(flagOutput, mat)
		default:
			return fmt.Errorf("unknown format %q (want csv or npy)", flagFormat)
		}
		if err != nil {
			return err
		}

		logging.Info().
			Str("output", flagOutput).
			Str("format", flagFormat).
			Int("rows", mat.Rows()).
			Msg("matrix exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagInput, "input", "", "matrix file, overrides --data")
	exportCmd.Flags().StringVar(&flagOutput, "output", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&flagFormat, "format", "csv", "output format (csv or npy)")
	exportCmd.Flags().StringVar(&flagDelimiter, "delimiter", ",", "field delimiter (csv only)")
	exportCmd.Flags().IntVar(&flagPrecision, "precision", export.DefaultPrecision, "decimal places per score (csv only)")

	rootCmd.AddCommand(exportCmd)
}
