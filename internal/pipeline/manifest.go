// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/news-sentences/pkg/types"
)

// Manifest records what an export run read and wrote.
type Manifest struct {
	GeneratedAt    time.Time          `yaml:"generated_at"`
	FolderPath     string             `yaml:"folder_path"`
	BaseOutputPath string             `yaml:"base_output_path"`
	MaxRowsPerFile int                `yaml:"max_rows_per_file"`
	BatchSize      int                `yaml:"batch_size"`
	Files          int                `yaml:"files"`
	Processed      int                `yaml:"processed"`
	Failed         int                `yaml:"failed"`
	Sentences      int                `yaml:"sentences"`
	Outputs        []types.OutputFile `yaml:"outputs"`
	Failures       []ManifestFailure  `yaml:"failures,omitempty"`
}

// ManifestFailure is one input file that contributed no rows.
type ManifestFailure struct {
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

// ManifestPath returns the manifest location for an output base path.
func ManifestPath(base string) string {
	return base + "_manifest.yaml"
}

// NewManifest builds the manifest for a finished run.
func NewManifest(cfg types.ExportConfig, summary types.Summary) Manifest {
	cfg = cfg.WithDefaults()
	m := Manifest{
		GeneratedAt:    time.Now().UTC().Truncate(time.Second),
		FolderPath:     cfg.FolderPath,
		BaseOutputPath: cfg.BaseOutputPath,
		MaxRowsPerFile: cfg.MaxRowsPerFile,
		BatchSize:      cfg.BatchSize,
		Files:          summary.Files,
		Processed:      summary.Processed,
		Failed:         summary.Failed,
		Sentences:      summary.Rows,
		Outputs:        summary.Outputs,
	}
	for _, f := range summary.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		m.Failures = append(m.Failures, ManifestFailure{Path: f.Path, Error: msg})
	}
	return m
}

// WriteManifest marshals the manifest for a run to ManifestPath(cfg.BaseOutputPath)
// and returns the path written.
func WriteManifest(cfg types.ExportConfig, summary types.Summary) (string, error) {
	path := ManifestPath(cfg.BaseOutputPath)
	data, err := yaml.Marshal(NewManifest(cfg, summary))
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
