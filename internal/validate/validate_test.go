// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentences/internal/sink"
	"github.com/pdiddy/news-sentences/pkg/types"
)

// --- test helpers ---

// export writes rows through the real sink and returns the output base.
func export(t *testing.T, maxRows int, rows []types.Row) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "hasil")
	s := sink.New(types.SinkConfig{BaseOutputPath: base, MaxRowsPerFile: maxRows, BatchSize: 2})
	require.NoError(t, s.Open())
	for _, r := range rows {
		require.NoError(t, s.Write(r))
	}
	require.NoError(t, s.Close())
	return base
}

func rows(n int) []types.Row {
	out := make([]types.Row, n)
	for i := range out {
		out[i] = types.Row{
			Sentence: fmt.Sprintf("Kalimat ke-%d dari berita.", i),
			Title:    fmt.Sprintf("Judul %d", i),
		}
	}
	return out
}

// --- File ---

func TestFile(t *testing.T) {
	data := rows(5)
	data[3].Sentence = "Acara dibuka oleh Prof."
	base := export(t, 100, data)

	report, err := File(base+"_1.csv", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, data[:3], report.Sample)
	assert.Equal(t, 1, report.Suspect)
}

func TestFileSampleLargerThanFile(t *testing.T) {
	base := export(t, 100, rows(2))
	report, err := File(base+"_1.csv", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.Len(t, report.Sample, 2)
}

func TestFileHeaderOnly(t *testing.T) {
	base := export(t, 100, nil)
	report, err := File(base+"_1.csv", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Rows)
	assert.Empty(t, report.Sample)
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty file", "", ErrBadHeader},
		{"wrong header", "sentence,title\r\na,b\r\n", ErrBadHeader},
		{"wrong field count", "kalimat,judul_berita\r\na,b,c\r\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := File(path, 3)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	_, err := File(filepath.Join(dir, "missing.csv"), 3)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// --- Glob ---

func TestGlobOrdersByFileNumber(t *testing.T) {
	base := export(t, 1, rows(11))

	reports, err := Glob(base+"_*.csv", 1)
	require.NoError(t, err)
	// Eleven full files plus the header-only file opened after the last row.
	require.Len(t, reports, 12)
	for i, r := range reports {
		assert.Equal(t, sink.Path(base, i+1), r.Path)
	}
	assert.Equal(t, 1, reports[9].Rows)
	assert.Equal(t, 0, reports[11].Rows)
}

func TestGlobNoMatch(t *testing.T) {
	_, err := Glob(filepath.Join(t.TempDir(), "none_*.csv"), 3)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestSortNumbered(t *testing.T) {
	paths := []string{"b_1.csv", "a_10.csv", "a_2.csv", "a_1.csv", "a.csv"}
	SortNumbered(paths)
	assert.Equal(t, []string{"a.csv", "a_1.csv", "a_2.csv", "a_10.csv", "b_1.csv"}, paths)
}

// --- Print ---

func TestPrintTruncatesByWidth(t *testing.T) {
	report := FileReport{
		Path: "hasil_1.csv",
		Rows: 1,
		Sample: []types.Row{{
			Title:    strings.Repeat("judul ", 20),
			Sentence: strings.Repeat("漢", 50),
		}},
	}
	var buf bytes.Buffer
	Print(&buf, []FileReport{report})
	out := buf.String()

	assert.Contains(t, out, "Validating file: hasil_1.csv")
	assert.Contains(t, out, "Total rows in CSV: 1")
	assert.Contains(t, out, "First 1 rows:")
	assert.NotContains(t, out, "abbreviation")

	lines := strings.Split(out, "\n")
	var title, sentence string
	for _, l := range lines {
		if v, ok := strings.CutPrefix(l, "1. Title: "); ok {
			title = v
		}
		if v, ok := strings.CutPrefix(l, "   Sentence: "); ok {
			sentence = v
		}
	}
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, len([]rune(title)), TitleWidth)
	// Wide runes take two columns each.
	assert.Equal(t, strings.Repeat("漢", 38)+"...", sentence)
}

func TestPrintShortValuesUnchanged(t *testing.T) {
	report := FileReport{Path: "x.csv", Sample: []types.Row{{Title: "Judul A", Sentence: "Ini kalimat satu."}}, Suspect: 2}
	var buf bytes.Buffer
	report.Print(&buf)
	assert.Contains(t, buf.String(), "1. Title: Judul A\n")
	assert.Contains(t, buf.String(), "   Sentence: Ini kalimat satu.\n")
	assert.Contains(t, buf.String(), "Sentences ending in an abbreviation: 2")
}
