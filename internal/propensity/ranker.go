// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

import "sort"

// CategoryScore pairs a category name with a member's propensity score.
type CategoryScore struct {
	// Category is the canonical category name.
	Category string `json:"category"`

	// Score is the precomputed propensity, conventionally in [0, 1].
	Score float64 `json:"score"`
}

// RankCategories pairs a length-10 score vector with the aligned category
// names and sorts descending by score. Ties keep ascending column order, so
// the result is fully deterministic. Pure: inputs are not modified.
func RankCategories(scores []float64, categories []string) []CategoryScore {
	n := len(scores)
	if len(categories) < n {
		n = len(categories)
	}

	ranked := make([]CategoryScore, n)
	for i := 0; i < n; i++ {
		ranked[i] = CategoryScore{Category: categories[i], Score: scores[i]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// ApplyThreshold filters a ranked list to scores >= minThreshold and returns
// the first topK survivors in order.
//
// If the threshold excludes everything, the threshold is ignored entirely and
// the first topK of the unfiltered list are returned instead. This
// all-or-nothing fallback is a deliberate policy: a too-strict threshold
// degrades to the plain ranking rather than an empty result.
func ApplyThreshold(ranked []CategoryScore, minThreshold float64, topK int) []CategoryScore {
	if topK < 0 {
		topK = 0
	}

	filtered := make([]CategoryScore, 0, len(ranked))
	for _, cs := range ranked {
		if cs.Score >= minThreshold {
			filtered = append(filtered, cs)
		}
	}
	if len(filtered) == 0 {
		filtered = ranked
	}

	if topK > len(filtered) {
		topK = len(filtered)
	}
	out := make([]CategoryScore, topK)
	copy(out, filtered[:topK])
	return out
}
