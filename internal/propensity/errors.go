// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import "errors"

// Sentinel errors for the propensity core. Callers distinguish failure kinds
// with errors.Is; every error raised by this package wraps exactly one of
// these.
var (
	// ErrNotFound indicates the matrix file does not exist.
	ErrNotFound = errors.New("propensity data file not found")

	// ErrFormat indicates the file could not be interpreted as a matrix,
	// including a raw float count that is not a positive multiple of 10.
	ErrFormat = errors.New("propensity data format invalid")

	// ErrShape indicates the parsed data is not a two-dimensional matrix
	// with exactly 10 columns.
	ErrShape = errors.New("propensity matrix has wrong shape")

	// ErrMemberNotFound indicates the member identifier is absent from an
	// explicitly supplied id-to-index mapping.
	ErrMemberNotFound = errors.New("member id not found in mapping")

	// ErrIndexOutOfRange indicates a resolved or overridden row index falls
	// outside [0, N).
	ErrIndexOutOfRange = errors.New("member index out of range")
)
