// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentences/internal/ledger"
)

var errNoLedger = errors.New("no ledger configured: pass --ledger or set ledger in the config file")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List export runs recorded in the ledger",
	Long: `History lists the export runs recorded in the SQLite ledger, newest
first, with their status and counts. Use --failures with a run id (or a
prefix of one) to list the input files that run could not read, and
--outputs to list the CSV files it wrote.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("ledger")
	if path == "" {
		return errNoLedger
	}
	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if runID, _ := cmd.Flags().GetString("failures"); runID != "" {
		rec, err := store.Lookup(ctx, runID)
		if err != nil {
			return err
		}
		failures, err := store.Failures(ctx, rec.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, failures)
		}
		if len(failures) == 0 {
			fmt.Fprintf(out, "Run %s had no failed files.\n", rec.ID)
			return nil
		}
		for _, f := range failures {
			fmt.Fprintf(out, "%s: %s\n", f.Path, f.Error)
		}
		fmt.Fprintf(out, "\n%d failed files\n", len(failures))
		return nil
	}

	if runID, _ := cmd.Flags().GetString("outputs"); runID != "" {
		rec, err := store.Lookup(ctx, runID)
		if err != nil {
			return err
		}
		outputs, err := store.Outputs(ctx, rec.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, outputs)
		}
		for _, f := range outputs {
			fmt.Fprintf(out, "%3d  %8d  %s\n", f.Index, f.Rows, f.Path)
		}
		fmt.Fprintf(out, "\n%d output files\n", len(outputs))
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, runs)
	}
	printRuns(out, runs)
	return nil
}

func printRuns(w io.Writer, runs []ledger.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-20s  %-9s  %7s  %6s  %10s  %7s  %s\n",
		"Run", "Started", "Status", "Files", "Failed", "Sentences", "Outputs", "Folder")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-8s  %-20s  %-9s  %7d  %6d  %10d  %7d  %s\n",
			r.ID[:8], r.StartedAt.Local().Format(time.DateTime), r.Status,
			r.Files, r.Failed, r.Sentences, r.Outputs, r.FolderPath)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("failures", "", "list failed input files of the given run id")
	historyCmd.Flags().String("outputs", "", "list CSV files written by the given run id")
	historyCmd.MarkFlagsMutuallyExclusive("failures", "outputs")

	rootCmd.AddCommand(historyCmd)
}
