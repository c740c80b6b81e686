// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentences/internal/ledger"
	"github.com/pdiddy/news-sentences/internal/pipeline"
	"github.com/pdiddy/news-sentences/pkg/types"
)

// --- test helpers ---

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeJSONFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func resetFlag(t *testing.T, cmd *cobra.Command, name string) {
	t.Helper()
	flag := cmd.Flags().Lookup(name)
	require.NotNil(t, flag)
	require.NoError(t, flag.Value.Set(flag.DefValue))
	flag.Changed = false
}

func historyJSON(t *testing.T, ledgerPath string) []ledger.RunRecord {
	t.Helper()
	out, err := execute(t, "history", "--ledger", ledgerPath, "--json")
	require.NoError(t, err)
	resetFlag(t, historyCmd, "json")
	var runs []ledger.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	return runs
}

// --- confirm ---

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"  y  \n", true},
		{"y", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Continue? (y/n): ", out.String())
		})
	}
}

func TestPrintNotFoundHints(t *testing.T) {
	var out bytes.Buffer
	printNotFoundHints(&out, fmt.Errorf("%w: folder json does not exist", pipeline.ErrNotFound))
	assert.Contains(t, out.String(), "Make sure that:")
	assert.Contains(t, out.String(), "2. the folder contains .json files")

	out.Reset()
	printNotFoundHints(&out, errors.New("other"))
	assert.Empty(t, out.String())
}

// --- commands ---

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "news-sentences dev\n", out)
}

func TestExportEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "json")
	writeJSONFile(t, filepath.Join(in, "a.json"),
		`[{"isi": "Ini kalimat satu. Ini kalimat dua.", "judul": "Judul A"}]`)
	writeJSONFile(t, filepath.Join(in, "b.json"), `[{"isi": "rusak"`)
	base := filepath.Join(dir, "out", "hasil")
	ledgerPath := filepath.Join(dir, "ledger.db")
	metricsPath := filepath.Join(dir, "metrics.prom")

	out, err := execute(t, "export",
		"--folder", in,
		"--output", base,
		"--max-rows", "1",
		"--yes",
		"--log-file", filepath.Join(dir, "run.log"),
		"--ledger", ledgerPath,
		"--metrics-file", metricsPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "- JSON files: 2")
	assert.Contains(t, out, "DONE! 2 sentences exported from 1 files.")
	assert.Contains(t, out, "1 file(s) could not be read")
	assert.Contains(t, out, "Validating file: "+base+"_1.csv")

	for _, p := range []string{base + "_1.csv", base + "_2.csv", base + "_3.csv", pipeline.ManifestPath(base), metricsPath} {
		assert.FileExists(t, p)
	}

	logData, err := os.ReadFile(filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "error processing file")

	metricsData, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "news_sentences_sentences_total 2")

	out, err = execute(t, "history", "--ledger", ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "1 runs")

	runs := historyJSON(t, ledgerPath)
	require.Len(t, runs, 1)
	out, err = execute(t, "history", "--ledger", ledgerPath, "--outputs", runs[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, base+"_3.csv")
	assert.Contains(t, out, "3 output files")
	resetFlag(t, historyCmd, "outputs")

	out, err = execute(t, "validate", base+"_*.csv", "--sample", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Title: Judul A")
	assert.Equal(t, 3, strings.Count(out, "Validating file:"))
}

func TestExportRejectsNonPositiveSizes(t *testing.T) {
	tests := []struct {
		flag  string
		value string
		want  error
	}{
		{"max-rows", "0", types.ErrInvalidMaxRows},
		{"max-rows", "-5", types.ErrInvalidMaxRows},
		{"batch-size", "0", types.ErrInvalidBatchSize},
		{"batch-size", "-1", types.ErrInvalidBatchSize},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"="+tt.value, func(t *testing.T) {
			t.Cleanup(func() { resetFlag(t, exportCmd, tt.flag) })

			dir := t.TempDir()
			writeJSONFile(t, filepath.Join(dir, "json", "a.json"), "[]")
			_, err := execute(t, "export",
				"--folder", filepath.Join(dir, "json"),
				"--output", filepath.Join(dir, "out", "hasil"),
				"--"+tt.flag, tt.value,
				"--yes",
				"--log-file", "",
				"--ledger", "",
				"--metrics-file", "",
			)
			assert.ErrorIs(t, err, tt.want)
			assert.NoDirExists(t, filepath.Join(dir, "out"))
		})
	}
}

func TestExportMissingFolder(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "export",
		"--folder", filepath.Join(dir, "missing"),
		"--output", filepath.Join(dir, "hasil"),
		"--yes",
		"--log-file", "",
		"--ledger", "",
		"--metrics-file", "",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrNotFound)
	assert.Contains(t, out, "Make sure that:")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	writeJSONFile(t, filepath.Join(dir, "a.json"), "[]")
	out, err := execute(t, "stats", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- JSON files: 1")
}

func TestHistoryWithoutLedger(t *testing.T) {
	_, err := execute(t, "history", "--ledger", "")
	assert.ErrorIs(t, err, errNoLedger)
}
