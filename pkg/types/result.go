// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputFile describes one CSV file written by the sink.
type OutputFile struct {
	// Index is the 1-based sequence number in the file name.
	Index int `json:"index" yaml:"index"`

	// Path is the file location, {base}_{index}.csv.
	Path string `json:"path" yaml:"path"`

	// Rows is the number of data rows, excluding the header.
	Rows int `json:"rows" yaml:"rows"`
}

// FileResult is the outcome of processing one input file. Err is nil when
// the file was read and parsed; Rows counts the sentences it contributed.
type FileResult struct {
	Path string `json:"path" yaml:"path"`
	Rows int    `json:"rows" yaml:"rows"`
	Err  error  `json:"-" yaml:"-"`
}

// OK reports whether the file was processed without a read or parse error.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Summary holds the counts and outputs of one export run.
type Summary struct {
	// Files is the number of input files discovered.
	Files int `json:"files" yaml:"files"`

	// Processed counts files read and parsed successfully.
	Processed int `json:"processed" yaml:"processed"`

	// Failed counts files that could not be read or parsed.
	Failed int `json:"failed" yaml:"failed"`

	// Rows is the total number of sentences written across all outputs.
	Rows int `json:"rows" yaml:"rows"`

	Outputs  []OutputFile `json:"outputs" yaml:"outputs"`
	Failures []FileResult `json:"-" yaml:"-"`
}

// HasFailures reports whether any input file failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
