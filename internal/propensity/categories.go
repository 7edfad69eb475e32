// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package propensity

// NumCategories is the fixed column count of every propensity matrix.
const NumCategories = 10

// CategoryNames is the canonical ordering of the ten spend categories.
// Matrix columns are aligned positionally to this list; the order is part of
// the data contract and must never change.
var CategoryNames = [NumCategories]string{
	"Transportation",
	"Health",
	"LuxuryGoods",
	"Service",
	"Telecommunications",
	"Groceries",
	"Clothing",
	"Food&Beverage",
	"PublicUtilities",
	"Others",
}

// Categories returns the canonical category names as a fresh slice, so
// callers cannot mutate the shared ordering.
func Categories() []string {
	out := make([]string, NumCategories)
	copy(out, CategoryNames[:])
	return out
}
