// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/internal/report"
	"github.com/pdiddy/venue-engine/internal/venue"
	"github.com/pdiddy/venue-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved recommendation runs",
	Long: `History reads the SQLite run log written when history.enabled is set
(or --history is passed). Use subcommands to list, show, export, or delete
runs.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	runs, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if runs == nil {
			runs = []history.RunSummary{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	formatRunList(runs, os.Stdout)
	return nil
}

func formatRunList(runs []history.RunSummary, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No saved runs.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-16s  %-40s  %4s  %s\n", "ID", "Created", "Query", "Hits", "Top journal")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		query := r.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%-8s  %-16s  %-40s  %4d  %s\n",
			id, r.CreatedAt.Local().Format("2006-01-02 15:04"), query, r.ResultCount, r.TopJournal)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved run by ID or ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Printf("Run:   %s\nDate:  %s\nQuery: %s\n\n", run.ID, run.CreatedAt.Local().Format(time.RFC1123), run.Query)
	report.FormatTable(venue.Result{
		Query:        types.SearchQuery{Text: run.Query},
		Publications: run.Publications,
		Missing:      run.Missing,
		Journals:     run.Journals,
	}, os.Stdout)
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved runs to YAML or JSON",
	Long: `Export writes saved runs (or a filtered subset) to stdout, or to the
file named by --output. Supports the same filters as list.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), w, opts)
	case "json":
		err = store.ExportJSON(cmd.Context(), w, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}

// --- delete subcommand ---

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if err := store.Delete(cmd.Context(), run.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", run.ID)
		return nil
	},
}

// --- shared helpers ---

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	cfg := loadConfig(cmd)
	if path, _ := cmd.Flags().GetString("path"); path != "" {
		cfg.History.Path = path
	}
	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no history database at %s: enable history.enabled or pass --history when ranking", cfg.History.Path)
	}
	return history.NewStore(cfg.History, logger)
}

func listOptsFromFlags(cmd *cobra.Command) (history.ListOptions, error) {
	query, _ := cmd.Flags().GetString("query")
	journal, _ := cmd.Flags().GetString("journal")
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetString("since")

	opts := history.ListOptions{Query: query, Journal: journal, Limit: limit}
	if since != "" {
		t, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return opts, fmt.Errorf("invalid --since %q: use YYYY-MM-DD", since)
		}
		opts.Since = t
	}
	return opts, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("path", "", "history database file (default: history.path)")

	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("query", "", "only runs whose query contains this text")
		c.Flags().String("journal", "", "only runs that recommended this journal")
		c.Flags().String("since", "", "only runs on or after this date (YYYY-MM-DD)")
	}
	historyListCmd.Flags().Int("limit", 0, "maximum runs (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output runs as JSON")

	historyShowCmd.Flags().Bool("json", false, "output the run as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "write to this file instead of stdout")
	historyExportCmd.Flags().Int("limit", 0, "maximum runs to export (0 = all)")

	// Wire subcommands.
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	rootCmd.AddCommand(historyCmd)
}
