// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package main

import (
	"math"

	"github.com/spendsight/spendsight/internal/propensity"
	"github.com/spendsight/spendsight/internal/stats"
	"github.com/spf13/cobra"
)

var (
	flagTopPairs      int
	flagAnalyzeMember string
	flagAnalyzeIndex  int
)

// analysisReport is the JSON shape printed by the analyze command.
type analysisReport struct {
	Rows            int                     `json:"rows"`
	Categories      []stats.CategorySummary `json:"categories"`
	TopCorrelations []stats.CorrelationPair `json:"top_correlations"`

	Member *propensity.Recommendation `json:"member,omitempty"`
}

// buildAnalysisReport assembles the dataset summary, optionally including one
// member's unfiltered top five categories.
func buildAnalysisReport(mat *propensity.Matrix, topPairs int, memberID string, memberIndex *int) (*analysisReport, error) {
	report := &analysisReport{
		Rows:            mat.Rows(),
		Categories:      stats.Summarize(mat),
		TopCorrelations: stats.TopCorrelations(mat, topPairs),
	}

	if memberID != "" || memberIndex != nil {
		rec, err := propensity.Recommend(memberID, propensity.Options{
			Data: propensity.InMemory(mat),
			TopK: 5,
			// The member view reports the plain ranking, so even negative
			// scores must survive the threshold filter.
			MinThreshold: math.Inf(-1),
			MemberIndex:  memberIndex,
		})
		if err != nil {
			return nil, err
		}
		report.Member = rec
	}

	return report, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize a propensity matrix",
	Long: `Print per-category statistics (mean, std, p50, p90, sorted by
descending mean) and the most correlated category pairs.

With --member-id or --member-index, the report also includes that
member's top five categories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mat, err := loadMatrix()
		if err != nil {
			return err
		}

		var memberIndex *int
		if cmd.Flags().Changed("member-index") {
			memberIndex = &flagAnalyzeIndex
		}

		report, err := buildAnalysisReport(mat, flagTopPairs, flagAnalyzeMember, memberIndex)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&flagTopPairs, "top-pairs", 5, "number of correlated pairs to report")
	analyzeCmd.Flags().StringVar(&flagAnalyzeMember, "member-id", "", "also report this member's top categories")
	analyzeCmd.Flags().IntVar(&flagAnalyzeIndex, "member-index", 0, "explicit matrix row for the member report")

	rootCmd.AddCommand(analyzeCmd)
}
