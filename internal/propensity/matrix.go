// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import "fmt"

// Matrix is an (N, 10) propensity table. Row order corresponds to member
// order, column order to CategoryNames. Data is row-major and is never
// mutated after construction.
type Matrix struct {
	rows int
	data []float64
}

// NewMatrix builds a Matrix from row-major data. The element count must be a
// positive multiple of NumCategories.
func NewMatrix(data []float64) (*Matrix, error) {
	if len(data) == 0 || len(data)%NumCategories != 0 {
		return nil, fmt.Errorf("%w: %d elements is not a positive multiple of %d",
			ErrShape, len(data), NumCategories)
	}
	return &Matrix{rows: len(data) / NumCategories, data: data}, nil
}

// MatrixFromRows builds a Matrix from explicit rows, validating that every
// row has exactly NumCategories columns.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: zero rows", ErrShape)
	}
	data := make([]float64, 0, len(rows)*NumCategories)
	for i, row := range rows {
		if len(row) != NumCategories {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrShape, i, len(row), NumCategories)
		}
		data = append(data, row...)
	}
	return &Matrix{rows: len(rows), data: data}, nil
}

// Rows returns the number of member rows N.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the column count, always NumCategories.
func (m *Matrix) Cols() int {
	return NumCategories
}

// Row returns the score vector for one member. The returned slice aliases
// the matrix storage; callers must not modify it.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*NumCategories : (i+1)*NumCategories]
}

// At returns the score at (row, col).
func (m *Matrix) At(row, col int) float64 {
	return m.data[row*NumCategories+col]
}

// Flat returns the underlying row-major data. Read-only by convention.
func (m *Matrix) Flat() []float64 {
	return m.data
}
