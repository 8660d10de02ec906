// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/internal/report"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend journals for a research input file",
	Long: `Recommend reads a research input (JSON or YAML with subjectArea, title,
abstract, keywords, accPercentFrom, accPercentTo, and openAccess), expands
common abbreviations, extracts keywords when none are given, and ranks the
journals that best match the subject area and keywords.

Use --output to save the refined input and the ranking to a result file.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("input")
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("input file required: provide --input")
	}

	in, err := report.LoadInput(path)
	if err != nil {
		return err
	}
	refined, err := refine.Local{}.Refine(cmd.Context(), in)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	output, _ := cmd.Flags().GetString("output")

	cfg := loadConfig(cmd)
	return runRanking(cmd.Context(), cfg, refine.QueryText(refined), &refined,
		rankOutput{JSON: jsonOutput, Path: output}, os.Stdout)
}

func init() {
	recommendCmd.Flags().String("input", "", "research input file (JSON or YAML)")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")
	recommendCmd.Flags().String("output", "", "write a result file (.json, or YAML otherwise)")
	addRankingFlags(recommendCmd)

	rootCmd.AddCommand(recommendCmd)
}
