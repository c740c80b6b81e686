// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/news-sentences/pkg/types"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var console bytes.Buffer

	logger, closeFn, err := New(types.LogConfig{File: path}, &console)
	require.NoError(t, err)
	logger.Info("found JSON files", zap.Int("count", 3))
	logger.Debug("hidden at info level")
	require.NoError(t, closeFn())

	assert.Contains(t, console.String(), "INFO")
	assert.Contains(t, console.String(), "found JSON files")
	assert.NotContains(t, console.String(), "hidden at info level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `found JSON files	{"count": 3}`)
}

func TestNewAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier line\n"), 0o644))

	logger, closeFn, err := New(types.LogConfig{File: path}, &bytes.Buffer{})
	require.NoError(t, err)
	logger.Warn("second run")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "earlier line", lines[0])
	assert.Contains(t, lines[1], "WARN")
}

func TestNewConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closeFn, err := New(types.LogConfig{Level: "debug"}, &console)
	require.NoError(t, err)
	logger.Debug("processing file")
	require.NoError(t, closeFn())
	assert.Contains(t, console.String(), "processing file")
}

func TestNewBadFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, _, err := New(types.LogConfig{File: filepath.Join(blocker, "run.log")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{" error ", zapcore.ErrorLevel, false},
		{"Info", zapcore.InfoLevel, false},
		{"verbose", zapcore.InfoLevel, true},
		{"dpanic", zapcore.InfoLevel, true},
		{"panic", zapcore.InfoLevel, true},
		{"fatal", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
