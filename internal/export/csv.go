// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package export writes a propensity matrix to delimited text for
// spreadsheets and frontend consumption.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spendsight/spendsight/internal/propensity"
)

// CSVOptions controls delimited output.
type CSVOptions struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune

	// Precision is the number of decimal places. Negative values are
	// clamped to zero; the conventional default is 6.
	Precision int
}

// DefaultPrecision is the decimal precision used when none is given.
const DefaultPrecision = 6

// WriteCSV writes the matrix row by row with fixed decimal precision and no
// header row.
func WriteCSV(w io.Writer, mat *propensity.Matrix, opts CSVOptions) error {
	precision := opts.Precision
	if precision < 0 {
		precision = 0
	}

	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	record := make([]string, propensity.NumCategories)
	for r := 0; r < mat.Rows(); r++ {
		row := mat.Row(r)
		for c, v := range row {
			record[c] = strconv.FormatFloat(v, 'f', precision, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the matrix to path, creating parent directories as
// needed.
func WriteCSVFile(path string, mat *propensity.Matrix, opts CSVOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := WriteCSV(f, mat, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
