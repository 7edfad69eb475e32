// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package stats computes descriptive statistics over a propensity matrix:
// per-category mean, standard deviation, and percentiles, plus Pearson
// correlations between categories. All functions are pure.
package stats

import (
	"math"
	"sort"

	"github.com/spendsight/spendsight/internal/propensity"
)

// CategorySummary holds descriptive statistics for one category column.
type CategorySummary struct {
	// Category is the canonical category name.
	Category string `json:"category"`

	// Mean is the column mean.
	Mean float64 `json:"mean"`

	// Std is the population standard deviation.
	Std float64 `json:"std"`

	// P50 is the median (linear-interpolated).
	P50 float64 `json:"p50"`

	// P90 is the 90th percentile (linear-interpolated).
	P90 float64 `json:"p90"`
}

// CorrelationPair is the Pearson correlation between two categories.
type CorrelationPair struct {
	// CategoryA and CategoryB name the pair in canonical order.
	CategoryA string `json:"category_a"`
	CategoryB string `json:"category_b"`

	// R is the Pearson correlation coefficient.
	R float64 `json:"r"`
}

// Summarize computes per-category statistics, returned sorted by descending
// mean to match the reporting order of the analysis tooling.
func Summarize(mat *propensity.Matrix) []CategorySummary {
	out := make([]CategorySummary, propensity.NumCategories)
	for c := 0; c < propensity.NumCategories; c++ {
		col := column(mat, c)
		out[c] = CategorySummary{
			Category: propensity.CategoryNames[c],
			Mean:     mean(col),
			Std:      std(col),
			P50:      percentile(col, 50),
			P90:      percentile(col, 90),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mean > out[j].Mean
	})
	return out
}

// TopCorrelations returns the n most positively correlated category pairs,
// excluding the diagonal, sorted by descending r.
func TopCorrelations(mat *propensity.Matrix, n int) []CorrelationPair {
	cols := make([][]float64, propensity.NumCategories)
	for c := range cols {
		cols[c] = column(mat, c)
	}

	pairs := make([]CorrelationPair, 0, propensity.NumCategories*(propensity.NumCategories-1)/2)
	for i := 0; i < propensity.NumCategories; i++ {
		for j := i + 1; j < propensity.NumCategories; j++ {
			r := pearson(cols[i], cols[j])
			if math.IsNaN(r) {
				// Zero-variance column; the pair carries no signal.
				continue
			}
			pairs = append(pairs, CorrelationPair{
				CategoryA: propensity.CategoryNames[i],
				CategoryB: propensity.CategoryNames[j],
				R:         r,
			})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].R > pairs[b].R
	})
	if n < 0 {
		n = 0
	}
	if n > len(pairs) {
		n = len(pairs)
	}
	return pairs[:n]
}

// column copies one category column out of the matrix.
func column(mat *propensity.Matrix, c int) []float64 {
	col := make([]float64, mat.Rows())
	for r := range col {
		col[r] = mat.At(r, c)
	}
	return col
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// std is the population standard deviation, matching np.std's default ddof=0.
func std(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	acc := 0.0
	for _, x := range xs {
		d := x - m
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(xs)))
}

// percentile uses linear interpolation between closest ranks, matching
// np.percentile's default method.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// pearson computes the correlation coefficient of two equal-length series.
// Returns NaN when either series has zero variance, matching np.corrcoef.
func pearson(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}
