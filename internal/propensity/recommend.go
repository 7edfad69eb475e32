// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package propensity ranks spend categories for individual members from a
// precomputed (N, 10) propensity matrix.
//
// The package is a small synchronous pipeline: Load (or accept) a matrix,
// resolve the member identifier to a row, rank that row's scores against the
// canonical category list, and apply threshold filtering with a documented
// fallback. There is no shared mutable state; every call works on its own
// inputs and the package is safe for concurrent use.
package propensity

import "fmt"

// DefaultDataPath is the conventional matrix filename used when no source is
// configured.
const DefaultDataPath = "spend_propensity.ndarray"

// DefaultTopK is the number of categories returned when TopK is unset.
const DefaultTopK = 3

// Source identifies where the propensity matrix comes from: either an
// in-memory matrix or a file path resolved at recommendation time.
type Source struct {
	matrix *Matrix
	path   string
}

// InMemory wraps an already-loaded matrix as a Source.
func InMemory(m *Matrix) Source {
	return Source{matrix: m}
}

// FromPath defers loading to recommendation time.
func FromPath(path string) Source {
	return Source{path: path}
}

// resolve produces the matrix for this source, loading from disk if needed.
// An empty Source falls back to DefaultDataPath.
func (s Source) resolve() (*Matrix, error) {
	if s.matrix != nil {
		if s.matrix.rows < 1 {
			return nil, fmt.Errorf("%w: matrix has no rows", ErrShape)
		}
		return s.matrix, nil
	}
	path := s.path
	if path == "" {
		path = DefaultDataPath
	}
	return Load(path)
}

// Options enumerates the recognized recommendation settings. The zero value
// is usable: default data path, top 3, no threshold, hash-based selection.
type Options struct {
	// Data is the matrix source. Empty means FromPath(DefaultDataPath).
	Data Source

	// TopK is the number of categories to return. Zero means DefaultTopK;
	// negative is rejected.
	TopK int

	// MinThreshold excludes categories scoring below it. Subject to the
	// all-or-nothing fallback documented on ApplyThreshold.
	MinThreshold float64

	// IDToIndex optionally maps member identifiers to row indices. When set,
	// a missing identifier is an error; hashing is never used as a fallback.
	IDToIndex map[string]int

	// MemberIndex optionally overrides row selection entirely. It takes
	// priority over IDToIndex and the identifier hash.
	MemberIndex *int
}

// Recommendation is the result of a single recommendation call.
type Recommendation struct {
	// MemberID echoes the requested identifier verbatim.
	MemberID string `json:"member_id"`

	// MemberIndex is the resolved matrix row.
	MemberIndex int `json:"member_index"`

	// Recommendations is the final ordered (category, score) list,
	// descending by score.
	Recommendations []CategoryScore `json:"recommendations"`
}

// Recommend ranks spend categories for one member.
//
// Failure kinds surfaced to the caller: ErrNotFound, ErrFormat, ErrShape,
// ErrMemberNotFound, ErrIndexOutOfRange.
func Recommend(memberID string, opts Options) (*Recommendation, error) {
	topK := opts.TopK
	switch {
	case topK < 0:
		return nil, fmt.Errorf("top_k must be >= 0, got %d", topK)
	case topK == 0:
		topK = DefaultTopK
	}

	mat, err := opts.Data.resolve()
	if err != nil {
		return nil, err
	}

	idx, err := ResolveIndex(memberID, mat.Rows(), opts.IDToIndex, opts.MemberIndex)
	if err != nil {
		return nil, err
	}

	ranked := RankCategories(mat.Row(idx), CategoryNames[:])
	recs := ApplyThreshold(ranked, opts.MinThreshold, topK)

	return &Recommendation{
		MemberID:        memberID,
		MemberIndex:     idx,
		Recommendations: recs,
	}, nil
}
