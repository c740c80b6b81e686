// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentences/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats [folder]",
	Short: "Show JSON file count and sizes for an input folder",
	Long: `Stats counts the *.json files under a folder (recursively, hidden entries
skipped) and prints their total size and the largest and smallest file.
The folder defaults to folder_path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	folder := viper.GetString("folder_path")
	if len(args) > 0 {
		folder = args[0]
	}
	st, err := stats.Collect(folder)
	if err != nil {
		printNotFoundHints(cmd.OutOrStdout(), err)
		return err
	}
	st.Print(cmd.OutOrStdout())
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
