// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ResolveIndex maps a member identifier to a matrix row index in [0, rows).
//
// Resolution priority, first applicable wins:
//
//  1. An explicit index override (memberIndex non-nil), used verbatim.
//  2. An explicit id-to-index mapping; a miss is ErrMemberNotFound and never
//     falls through to hashing.
//  3. A stable hash of the identifier reduced modulo rows.
//
// Whatever the path, the resolved index is range-checked, so an out-of-range
// override fails with ErrIndexOutOfRange rather than panicking downstream.
func ResolveIndex(memberID string, rows int, idToIndex map[string]int, memberIndex *int) (int, error) {
	var idx int
	switch {
	case memberIndex != nil:
		idx = *memberIndex
	case idToIndex != nil:
		mapped, ok := idToIndex[memberID]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMemberNotFound, memberID)
		}
		idx = mapped
	default:
		idx = stableIndex(memberID, rows)
	}

	if idx < 0 || idx >= rows {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, rows)
	}
	return idx, nil
}

// stableIndex derives a deterministic pseudo-index for an identifier.
// xxhash is fixed and seed-independent, so the same (id, rows) pair resolves
// to the same row across processes and hosts. Runtime string hashes are
// randomized per process and must not be used here.
func stableIndex(memberID string, rows int) int {
	return int(xxhash.Sum64String(memberID) % uint64(rows))
}
