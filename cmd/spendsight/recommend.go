// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package main

import (
	"github.com/spendsight/spendsight/internal/propensity"
	"github.com/spf13/cobra"
)

var (
	flagMemberID     string
	flagTopK         int
	flagMinThreshold float64
	flagMemberIndex  int
	flagIDToIndex    string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank spending categories for one member",
	Long: `Rank spending categories for one member and print them as JSON.

The member's row is selected by, in priority order: --member-index,
an --id-to-index mapping file, or a stable hash of the identifier.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mat, err := loadMatrix()
		if err != nil {
			return err
		}

		var idToIndex map[string]int
		if flagIDToIndex != "" {
			idToIndex, err = propensity.LoadIDToIndex(flagIDToIndex)
			if err != nil {
				return err
			}
		}

		var memberIndex *int
		if cmd.Flags().Changed("member-index") {
			memberIndex = &flagMemberIndex
		}

		rec, err := propensity.Recommend(flagMemberID, propensity.Options{
			Data:         propensity.InMemory(mat),
			TopK:         flagTopK,
			MinThreshold: flagMinThreshold,
			IDToIndex:    idToIndex,
			MemberIndex:  memberIndex,
		})
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&flagMemberID, "member-id", "", "member identifier (required)")
	recommendCmd.Flags().IntVar(&flagTopK, "top-k", 0, "number of categories to return (0 means default)")
	recommendCmd.Flags().Float64Var(&flagMinThreshold, "min-threshold", 0, "minimum propensity score")
	recommendCmd.Flags().IntVar(&flagMemberIndex, "member-index", 0, "explicit matrix row, overrides the identifier")
	recommendCmd.Flags().StringVar(&flagIDToIndex, "id-to-index", "", "JSON file mapping member identifiers to rows")

	if err := recommendCmd.MarkFlagRequired("member-id"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(recommendCmd)
}
