// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var journalsCmd = &cobra.Command{
	Use:   "journals [query]",
	Short: "Rank journals for a free-text query",
	Long: `Journals runs the ranking directly on a free-text query without refining
a research input. The query is sent to OpenAlex as given.`,
	RunE: runJournals,
}

func runJournals(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	output, _ := cmd.Flags().GetString("output")

	cfg := loadConfig(cmd)
	return runRanking(cmd.Context(), cfg, query, nil, rankOutput{JSON: jsonOutput, Path: output}, os.Stdout)
}

func init() {
	journalsCmd.Flags().String("query", "", "free-text search query")
	journalsCmd.Flags().Bool("json", false, "output results as JSON")
	journalsCmd.Flags().String("output", "", "write a result file (.json, or YAML otherwise)")
	addRankingFlags(journalsCmd)

	rootCmd.AddCommand(journalsCmd)
}
