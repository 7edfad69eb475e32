// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// LoadIDToIndex reads a JSON object mapping member identifiers to row
// indices, e.g. {"alice": 0, "bob": 1}. Negative indices are rejected;
// indices beyond the matrix are caught later by ResolveIndex.
func LoadIDToIndex(path string) (map[string]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("id mapping %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read id mapping %s: %w", path, err)
	}

	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse id mapping %s: %w", path, err)
	}
	for id, idx := range m {
		if idx < 0 {
			return nil, fmt.Errorf("id mapping %s: member %q has negative index %d", path, id, idx)
		}
	}
	return m, nil
}
