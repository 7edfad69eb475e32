// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package main is the Spendsight command line tool: one-off recommendations,
// matrix analysis, and CSV export without running the API server.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
