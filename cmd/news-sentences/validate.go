// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentences/internal/pipeline"
	"github.com/pdiddy/news-sentences/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [pattern]",
	Short: "Show row counts and sample rows of exported CSV files",
	Long: `Validate reads exported CSV files back, checks their header, and prints
the row count and the first rows of each file. It also counts sentences
that end in a known abbreviation such as "Dr." or "PT.".

Without a pattern, the files listed in {base_output_path}_manifest.yaml are
used, or {base_output_path}_*.csv when there is no manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	sample, _ := cmd.Flags().GetInt("sample")

	var (
		reports []validate.FileReport
		err     error
	)
	switch {
	case len(args) > 0:
		reports, err = validate.Glob(args[0], sample)
	default:
		reports, err = validateDefault(sample)
	}
	validate.Print(cmd.OutOrStdout(), reports)
	return err
}

func validateDefault(sample int) ([]validate.FileReport, error) {
	base := viper.GetString("base_output_path")
	m, err := pipeline.ReadManifest(pipeline.ManifestPath(base))
	switch {
	case err == nil:
		return validate.Files(outputPaths(m.Outputs), sample)
	case errors.Is(err, fs.ErrNotExist):
		return validate.Glob(base+"_*.csv", sample)
	default:
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
}

func init() {
	validateCmd.Flags().Int("sample", 5, "rows shown per file")

	rootCmd.AddCommand(validateCmd)
}
