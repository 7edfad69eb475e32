// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import (
	"errors"
	"path/filepath"
	"testing"
)

// twoMemberMatrix is the reference fixture: a flat row and a row with a
// known ranking (Health 0.5, Food&Beverage 0.4, ...).
func twoMemberMatrix(t *testing.T) *Matrix {
	t.Helper()
	mat, err := MatrixFromRows([][]float64{
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		{0.0, 0.5, 0.2, 0.1, 0.0, 0.3, 0.0, 0.4, 0.2, 0.1},
	})
	if err != nil {
		t.Fatalf("MatrixFromRows() error = %v", err)
	}
	return mat
}

func TestRecommendExplicitIndex(t *testing.T) {
	mat := twoMemberMatrix(t)

	res, err := Recommend("member-x", Options{
		Data:        InMemory(mat),
		MemberIndex: intPtr(1),
		TopK:        2,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if res.MemberID != "member-x" {
		t.Errorf("MemberID = %q, want member-x", res.MemberID)
	}
	if res.MemberIndex != 1 {
		t.Errorf("MemberIndex = %d, want 1", res.MemberIndex)
	}
	want := []CategoryScore{
		{Category: "Health", Score: 0.5},
		{Category: "Food&Beverage", Score: 0.4},
	}
	if len(res.Recommendations) != len(want) {
		t.Fatalf("len(Recommendations) = %d, want %d", len(res.Recommendations), len(want))
	}
	for i, w := range want {
		got := res.Recommendations[i]
		if got.Category != w.Category || got.Score != w.Score {
			t.Errorf("Recommendations[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestRecommendExplicitIndexIgnoresIdentifier(t *testing.T) {
	mat := twoMemberMatrix(t)

	a, err := Recommend("alice", Options{Data: InMemory(mat), MemberIndex: intPtr(0)})
	if err != nil {
		t.Fatalf("Recommend(alice) error = %v", err)
	}
	b, err := Recommend("completely-different-id", Options{Data: InMemory(mat), MemberIndex: intPtr(0)})
	if err != nil {
		t.Fatalf("Recommend(other) error = %v", err)
	}
	if a.MemberIndex != b.MemberIndex {
		t.Errorf("override resolved %d vs %d, identifier must not matter", a.MemberIndex, b.MemberIndex)
	}
}

func TestRecommendIndexOutOfRange(t *testing.T) {
	mat := twoMemberMatrix(t)

	for _, idx := range []int{-1, 2, 99} {
		_, err := Recommend("m", Options{Data: InMemory(mat), MemberIndex: intPtr(idx)})
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestRecommendMappingMissFails(t *testing.T) {
	mat := twoMemberMatrix(t)

	_, err := Recommend("ghost", Options{
		Data:      InMemory(mat),
		IDToIndex: map[string]int{"alice": 0},
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestRecommendHashDeterminism(t *testing.T) {
	mat := twoMemberMatrix(t)

	first, err := Recommend("stable-member", Options{Data: InMemory(mat)})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		got, err := Recommend("stable-member", Options{Data: InMemory(mat)})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if got.MemberIndex != first.MemberIndex {
			t.Fatalf("call %d resolved row %d, first resolved %d", i, got.MemberIndex, first.MemberIndex)
		}
	}
}

func TestRecommendThresholdFallback(t *testing.T) {
	mat, err := MatrixFromRows([][]float64{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	})
	if err != nil {
		t.Fatalf("MatrixFromRows() error = %v", err)
	}

	res, err := Recommend("m", Options{
		Data:         InMemory(mat),
		MemberIndex:  intPtr(0),
		TopK:         3,
		MinThreshold: 0.2,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	// Threshold excludes everything; the fallback returns the unfiltered
	// top 3, never an empty list.
	if len(res.Recommendations) != 3 {
		t.Fatalf("len(Recommendations) = %d, want 3", len(res.Recommendations))
	}
}

func TestRecommendDefaultTopK(t *testing.T) {
	mat := twoMemberMatrix(t)

	res, err := Recommend("m", Options{Data: InMemory(mat), MemberIndex: intPtr(1)})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != DefaultTopK {
		t.Errorf("len(Recommendations) = %d, want %d", len(res.Recommendations), DefaultTopK)
	}
}

func TestRecommendNegativeTopK(t *testing.T) {
	mat := twoMemberMatrix(t)
	if _, err := Recommend("m", Options{Data: InMemory(mat), TopK: -1}); err == nil {
		t.Error("Recommend() with negative top_k should fail")
	}
}

func TestRecommendFromPath(t *testing.T) {
	path := writeNpy(t, []int{2, 10}, []float64{
		0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1,
		0.0, 0.5, 0.2, 0.1, 0.0, 0.3, 0.0, 0.4, 0.2, 0.1,
	})

	res, err := Recommend("member-x", Options{
		Data:        FromPath(path),
		MemberIndex: intPtr(1),
		TopK:        2,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Recommendations[0].Category != "Health" {
		t.Errorf("top category = %q, want Health", res.Recommendations[0].Category)
	}
}

func TestRecommendMissingPath(t *testing.T) {
	_, err := Recommend("m", Options{
		Data: FromPath(filepath.Join(t.TempDir(), "absent.npy")),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
