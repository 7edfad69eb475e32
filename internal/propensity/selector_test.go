// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import (
	"errors"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestResolveIndexPriority(t *testing.T) {
	mapping := map[string]int{"alice": 2, "bob": 5}

	tests := []struct {
		name        string
		memberID    string
		rows        int
		mapping     map[string]int
		override    *int
		want        int
		wantErr     error
		wantAnyRows bool
	}{
		{
			name:     "explicit override wins over mapping",
			memberID: "alice",
			rows:     10,
			mapping:  mapping,
			override: intPtr(7),
			want:     7,
		},
		{
			name:     "mapping lookup",
			memberID: "bob",
			rows:     10,
			mapping:  mapping,
			want:     5,
		},
		{
			name:     "mapping miss never hashes",
			memberID: "charlie",
			rows:     10,
			mapping:  mapping,
			wantErr:  ErrMemberNotFound,
		},
		{
			name:     "override out of range high",
			memberID: "alice",
			rows:     10,
			override: intPtr(10),
			wantErr:  ErrIndexOutOfRange,
		},
		{
			name:     "override negative",
			memberID: "alice",
			rows:     10,
			override: intPtr(-1),
			wantErr:  ErrIndexOutOfRange,
		},
		{
			name:     "mapped index out of range",
			memberID: "bob",
			rows:     3,
			mapping:  mapping,
			wantErr:  ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveIndex(tt.memberID, tt.rows, tt.mapping, tt.override)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveIndex() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("index = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveIndexHashDeterminism(t *testing.T) {
	const rows = 10000

	first, err := ResolveIndex("member-42", rows, nil, nil)
	if err != nil {
		t.Fatalf("ResolveIndex() error = %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := ResolveIndex("member-42", rows, nil, nil)
		if err != nil {
			t.Fatalf("ResolveIndex() error = %v", err)
		}
		if got != first {
			t.Fatalf("call %d resolved %d, first call resolved %d", i, got, first)
		}
	}
	if first < 0 || first >= rows {
		t.Errorf("resolved index %d outside [0, %d)", first, rows)
	}
}

func TestResolveIndexHashSpread(t *testing.T) {
	// Different identifiers should not all collapse onto one row.
	const rows = 100
	seen := make(map[int]struct{})
	ids := []string{"a", "b", "c", "member-1", "member-2", "member-3", "x@y.z", "0001", "0002", "0003"}
	for _, id := range ids {
		idx, err := ResolveIndex(id, rows, nil, nil)
		if err != nil {
			t.Fatalf("ResolveIndex(%q) error = %v", id, err)
		}
		seen[idx] = struct{}{}
	}
	if len(seen) < 2 {
		t.Errorf("all %d identifiers hashed to the same row", len(ids))
	}
}
