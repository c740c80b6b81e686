// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate reads exported CSV files back and reports their row
// counts with a short sample of rows.
package validate

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/news-sentences/internal/segment"
	"github.com/pdiddy/news-sentences/pkg/types"
)

// Display widths for sampled rows, in terminal columns.
const (
	TitleWidth    = 50
	SentenceWidth = 80
)

var (
	// ErrNoFiles is returned when a pattern matches no file.
	ErrNoFiles = errors.New("no CSV files match")

	// ErrBadHeader is returned for a CSV whose first record is not the
	// export header.
	ErrBadHeader = errors.New("unexpected CSV header")
)

// FileReport summarizes one exported CSV file.
type FileReport struct {
	Path string
	// Rows counts data records, header excluded.
	Rows   int
	Sample []types.Row
	// Suspect counts sentences that end in a known abbreviation, a sign the
	// split fell inside a sentence.
	Suspect int
}

// File reads the CSV at path and keeps its first sampleSize rows.
func File(path string, sampleSize int) (FileReport, error) {
	report := FileReport{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return report, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(types.Header)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return report, fmt.Errorf("%w in %s: file is empty", ErrBadHeader, path)
		}
		return report, fmt.Errorf("reading header of %s: %w", path, err)
	}
	if !slices.Equal(header, types.Header) {
		return report, fmt.Errorf("%w in %s: %q", ErrBadHeader, path, header)
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("reading %s: %w", path, err)
		}
		report.Rows++
		row := types.Row{Sentence: rec[0], Title: rec[1]}
		if len(report.Sample) < sampleSize {
			report.Sample = append(report.Sample, row)
		}
		if segment.EndsWithAbbreviation(row.Sentence) {
			report.Suspect++
		}
	}
	return report, nil
}

// Glob validates every file matching pattern, ordered by file number so
// that _2.csv comes before _10.csv.
func Glob(pattern string, sampleSize int) ([]FileReport, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, pattern)
	}
	SortNumbered(paths)
	return Files(paths, sampleSize)
}

// Files validates paths in the given order.
func Files(paths []string, sampleSize int) ([]FileReport, error) {
	reports := make([]FileReport, 0, len(paths))
	for _, p := range paths {
		report, err := File(p, sampleSize)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// SortNumbered sorts output paths by prefix, then by the number before
// the .csv extension.
func SortNumbered(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		pa, na := splitNumber(a)
		pb, nb := splitNumber(b)
		if c := strings.Compare(pa, pb); c != 0 {
			return c
		}
		return cmp.Compare(na, nb)
	})
}

// splitNumber splits "out_12.csv" into ("out_", 12). Paths without a
// trailing number sort first within their prefix.
func splitNumber(path string) (string, int) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(stem[i:])
	if err != nil {
		return stem, -1
	}
	return stem[:i], n
}

// Print writes a report in the form shown after an export.
func (r FileReport) Print(w io.Writer) {
	fmt.Fprintf(w, "\nValidating file: %s\n", r.Path)
	fmt.Fprintf(w, "Total rows in CSV: %d\n", r.Rows)
	if r.Suspect > 0 {
		fmt.Fprintf(w, "Sentences ending in an abbreviation: %d\n", r.Suspect)
	}
	fmt.Fprintf(w, "First %d rows:\n", len(r.Sample))
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, row := range r.Sample {
		fmt.Fprintf(w, "%d. Title: %s\n", i+1, runewidth.Truncate(row.Title, TitleWidth, "..."))
		fmt.Fprintf(w, "   Sentence: %s\n", runewidth.Truncate(row.Sentence, SentenceWidth, "..."))
		fmt.Fprintln(w)
	}
}

// Print writes every report in order.
func Print(w io.Writer, reports []FileReport) {
	for _, r := range reports {
		r.Print(w)
	}
}
