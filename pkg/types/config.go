// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Defaults for an export run.
const (
	// DefaultMaxRowsPerFile is the row cap used when a caller leaves it unset.
	// The CLI overrides it with CLIMaxRowsPerFile.
	DefaultMaxRowsPerFile = 75000

	// CLIMaxRowsPerFile is the row cap the export command starts from.
	CLIMaxRowsPerFile = 300000

	// DefaultBatchSize bounds the number of rows buffered before a flush.
	DefaultBatchSize = 10000

	// DefaultProgressEvery is the file interval between progress log lines.
	DefaultProgressEvery = 50
)

// Configuration validation errors.
var (
	ErrMissingFolder      = errors.New("folder_path is required")
	ErrMissingOutputBase  = errors.New("base_output_path is required")
	ErrInvalidMaxRows     = errors.New("max_rows_per_file must be at least 1")
	ErrInvalidBatchSize   = errors.New("batch_size must be at least 1")
	ErrInvalidProgressGap = errors.New("progress_every must be non-negative")
)

// SinkConfig holds the output settings of the CSV sink.
type SinkConfig struct {
	// BaseOutputPath is the output file prefix; files are named
	// {base}_{index}.csv.
	BaseOutputPath string `json:"base_output_path" yaml:"base_output_path" mapstructure:"base_output_path"`

	// MaxRowsPerFile caps the data rows in one output file (default 75000).
	MaxRowsPerFile int `json:"max_rows_per_file" yaml:"max_rows_per_file" mapstructure:"max_rows_per_file"`

	// BatchSize is the number of rows buffered before they are written
	// (default 10000).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// WithDefaults returns a copy with unset (zero) sizes replaced by the library
// defaults. Negative sizes are kept so that Validate can reject them.
func (c SinkConfig) WithDefaults() SinkConfig {
	if c.MaxRowsPerFile == 0 {
		c.MaxRowsPerFile = DefaultMaxRowsPerFile
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

// ExportConfig holds the settings for one export run.
type ExportConfig struct {
	SinkConfig `yaml:",inline" mapstructure:",squash"`

	// FolderPath is the input directory searched recursively for *.json.
	FolderPath string `json:"folder_path" yaml:"folder_path" mapstructure:"folder_path"`

	// ProgressEvery is the file interval between progress reports (default 50).
	ProgressEvery int `json:"progress_every" yaml:"progress_every" mapstructure:"progress_every"`
}

// WithDefaults returns a copy with unset numeric fields replaced by defaults.
func (c ExportConfig) WithDefaults() ExportConfig {
	c.SinkConfig = c.SinkConfig.WithDefaults()
	if c.ProgressEvery == 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	return c
}

// Validate checks the configuration before a run starts.
func (c ExportConfig) Validate() error {
	if c.FolderPath == "" {
		return ErrMissingFolder
	}
	if c.BaseOutputPath == "" {
		return ErrMissingOutputBase
	}
	if c.MaxRowsPerFile < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxRows, c.MaxRowsPerFile)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, c.BatchSize)
	}
	if c.ProgressEvery < 0 {
		return ErrInvalidProgressGap
	}
	return nil
}

// LogConfig holds settings for the run log.
type LogConfig struct {
	// File is the persistent log file; empty logs to the console only.
	File string `json:"log_file" yaml:"log_file" mapstructure:"log_file"`

	// Level is one of debug, info, warn, error (default info).
	Level string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}
