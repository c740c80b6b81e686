// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentences/pkg/types"
)

func TestFileDone(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.FileDone(ctx, types.FileResult{Path: "a.json", Rows: 4}))
	require.NoError(t, c.FileDone(ctx, types.FileResult{Path: "b.json", Rows: 0}))
	require.NoError(t, c.FileDone(ctx, types.FileResult{Path: "c.json", Err: errors.New("bad")}))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.filesTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filesTotal.WithLabelValues(StatusFailed)))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.sentencesTotal))
}

func TestSinkEvents(t *testing.T) {
	c := New()
	c.FileOpened(types.OutputFile{Index: 1})
	c.BatchFlushed(10)
	c.BatchFlushed(3)
	c.FileClosed(types.OutputFile{Index: 1, Rows: 13})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.outputFiles))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.batchesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(c.batchRows))
}

func TestFinish(t *testing.T) {
	c := New()
	start := time.Now().Add(-2 * time.Second)
	c.Finish(start)

	assert.GreaterOrEqual(t, testutil.ToFloat64(c.runDuration), 2.0)
	assert.InDelta(t, float64(time.Now().Unix()), testutil.ToFloat64(c.lastRun), 5)
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	require.NoError(t, c.FileDone(context.Background(), types.FileResult{Rows: 7}))

	path := filepath.Join(t.TempDir(), "news_sentences.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "news_sentences_sentences_total 7")
	assert.Contains(t, text, `news_sentences_input_files_total{status="ok"} 1`)
	assert.Contains(t, text, `news_sentences_input_files_total{status="failed"} 0`)

	expected := `
# HELP news_sentences_output_files_total CSV output files completed
# TYPE news_sentences_output_files_total counter
news_sentences_output_files_total 0
`
	require.NoError(t, testutil.GatherAndCompare(c.registry, strings.NewReader(expected),
		"news_sentences_output_files_total"))
}

func TestWriteTextfileBadPath(t *testing.T) {
	c := New()
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	assert.Error(t, err)
}
