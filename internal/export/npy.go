// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spendsight/spendsight/internal/npy"
	"github.com/spendsight/spendsight/internal/propensity"
)

// WriteNPY writes the matrix as a version 1.0 .npy file with dtype <f8.
// Useful for normalizing a raw float64 dump into the self-describing format.
func WriteNPY(w io.Writer, mat *propensity.Matrix) error {
	return npy.Encode(w, []int{mat.Rows(), mat.Cols()}, mat.Flat())
}

// WriteNPYFile writes the matrix to path, creating parent directories as
// needed.
func WriteNPYFile(path string, mat *propensity.Matrix) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := WriteNPY(f, mat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
