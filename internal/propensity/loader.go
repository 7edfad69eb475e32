// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/spendsight/spendsight/internal/npy"
)

// Load reads an (N, 10) propensity matrix from disk.
//
// Two encodings are accepted. The file is first parsed as a self-describing
// NumPy .npy container; if that parse fails for any reason, the whole file is
// reinterpreted as a raw little-endian float64 sequence and reshaped to
// (total/10, 10). A trailing partial element in the raw encoding is ignored,
// matching the tolerance of the producing tools.
//
// The result is always validated to be exactly two-dimensional with exactly
// 10 columns. Load performs a single read and keeps no cache.
func Load(path string) (*Matrix, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}

	if arr, err := npy.Decode(raw); err == nil {
		return matrixFromArray(arr)
	}

	return matrixFromRaw(raw)
}

// matrixFromArray validates a decoded .npy array as an (N, 10) matrix.
func matrixFromArray(arr *npy.Array) (*Matrix, error) {
	if len(arr.Shape) != 2 || arr.Shape[1] != NumCategories {
		return nil, fmt.Errorf("%w: expected (N, %d), got %v",
			ErrShape, NumCategories, arr.Shape)
	}
	if arr.Shape[0] < 1 {
		return nil, fmt.Errorf("%w: matrix has no rows", ErrShape)
	}
	if len(arr.Data)%NumCategories != 0 || arr.Shape[0] != len(arr.Data)/NumCategories {
		return nil, fmt.Errorf("%w: header shape %v does not match %d elements",
			ErrShape, arr.Shape, len(arr.Data))
	}
	return &Matrix{rows: arr.Shape[0], data: arr.Data}, nil
}

// matrixFromRaw reinterprets a file as a flat float64 sequence.
func matrixFromRaw(raw []byte) (*Matrix, error) {
	total := len(raw) / 8
	if total == 0 || total%NumCategories != 0 {
		return nil, fmt.Errorf("%w: file holds %d floats, not a positive multiple of %d",
			ErrFormat, total, NumCategories)
	}

	data := make([]float64, total)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return &Matrix{rows: total / NumCategories, data: data}, nil
}
