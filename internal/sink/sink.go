// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink writes sentence rows to a numbered series of CSV files.
//
// Rows are buffered in memory and flushed in batches. When the current file
// reaches its row cap, the buffer is flushed into it, the file is closed, and
// the next file is opened with a fresh header. Files are named
// {base}_{index}.csv with index starting at 1.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/news-sentences/pkg/types"
)

// ErrClosed is returned when writing to a sink that is closed or not open.
var ErrClosed = errors.New("sink is not open")

// Observer receives sink events. Metrics collectors implement it.
type Observer interface {
	FileOpened(file types.OutputFile)
	FileClosed(file types.OutputFile)
	BatchFlushed(rows int)
}

// Sink is a stateful multi-file CSV writer. It is not safe for concurrent use.
type Sink struct {
	base      string
	maxRows   int
	batchSize int
	logger    *zap.Logger
	observer  Observer

	file    *os.File
	writer  *csv.Writer
	current types.OutputFile
	pending []types.Row
	index   int
	total   int
	flushes int
	files   []types.OutputFile
}

// Option configures a Sink.
type Option func(*Sink)

// WithLogger sets the logger for file and batch events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer for file and batch events.
func WithObserver(o Observer) Option {
	return func(s *Sink) {
		s.observer = o
	}
}

// New returns a sink for cfg. Zero sizes fall back to the library defaults
// and negative ones are raised to 1; callers validate cfg first.
// No file is created until Open.
func New(cfg types.SinkConfig, opts ...Option) *Sink {
	cfg = cfg.WithDefaults()
	s := &Sink{
		base:      cfg.BaseOutputPath,
		maxRows:   max(cfg.MaxRowsPerFile, 1),
		batchSize: max(cfg.BatchSize, 1),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pending = make([]types.Row, 0, min(s.batchSize, 4096))
	return s
}

// Path returns the file name for the given 1-based index.
func Path(base string, index int) string {
	return fmt.Sprintf("%s_%d.csv", base, index)
}

// Open creates the first output file and writes its header.
func (s *Sink) Open() error {
	if s.file != nil {
		return nil
	}
	if dir := filepath.Dir(s.base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return s.openNext()
}

// Write buffers one row. If the current file has reached its cap, the
// buffer is flushed and the next file opened before the batch-size check.
func (s *Sink) Write(row types.Row) error {
	if s.file == nil {
		return ErrClosed
	}
	s.pending = append(s.pending, row)
	s.current.Rows++
	s.total++

	if err := s.RollIfFull(); err != nil {
		return err
	}
	if len(s.pending) >= s.batchSize {
		return s.FlushBatch()
	}
	return nil
}

// RollIfFull moves to the next file when the current one holds maxRows rows.
func (s *Sink) RollIfFull() error {
	if s.file == nil || s.current.Rows < s.maxRows {
		return nil
	}
	if err := s.FlushBatch(); err != nil {
		return err
	}
	if err := s.closeCurrent(); err != nil {
		return err
	}
	return s.openNext()
}

// FlushBatch writes every buffered row to the current file and clears the
// buffer. Rows are written whole; the CSV writer is flushed to the file.
func (s *Sink) FlushBatch() error {
	if len(s.pending) == 0 {
		return nil
	}
	if s.writer == nil {
		return ErrClosed
	}
	n := len(s.pending)
	for _, row := range s.pending {
		if err := s.writer.Write(row.Record()); err != nil {
			return fmt.Errorf("writing row to %s: %w", s.current.Path, err)
		}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.current.Path, err)
	}
	clear(s.pending)
	s.pending = s.pending[:0]
	s.flushes++

	s.logger.Info("wrote batch",
		zap.Int("rows", n),
		zap.Int("total", s.total),
		zap.String("file", s.current.Path))
	if s.observer != nil {
		s.observer.BatchFlushed(n)
	}
	return nil
}

// Close flushes the remaining rows and closes the current file. Calling
// Close more than once is safe.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.FlushBatch()
	closeErr := s.closeCurrent()
	return errors.Join(flushErr, closeErr)
}

// Pending returns the number of buffered rows not yet written.
func (s *Sink) Pending() int {
	return len(s.pending)
}

// FileRows returns the row count of the current file, buffered rows included.
func (s *Sink) FileRows() int {
	return s.current.Rows
}

// Total returns the number of rows accepted since Open.
func (s *Sink) Total() int {
	return s.total
}

// Flushes returns the number of non-empty batch flushes performed.
func (s *Sink) Flushes() int {
	return s.flushes
}

// Files returns the output files in creation order. The current file is
// included with its row count so far.
func (s *Sink) Files() []types.OutputFile {
	files := make([]types.OutputFile, 0, len(s.files)+1)
	files = append(files, s.files...)
	if s.file != nil {
		files = append(files, s.current)
	}
	return files
}

func (s *Sink) openNext() error {
	s.index++
	path := Path(s.base, s.index)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(types.Header); err != nil {
		f.Close()
		return fmt.Errorf("writing header to %s: %w", path, err)
	}

	s.file = f
	s.writer = w
	s.current = types.OutputFile{Index: s.index, Path: path}

	s.logger.Info("opened output file", zap.String("file", path))
	if s.observer != nil {
		s.observer.FileOpened(s.current)
	}
	return nil
}

func (s *Sink) closeCurrent() error {
	s.writer.Flush()
	werr := s.writer.Error()
	cerr := s.file.Close()

	done := s.current
	s.files = append(s.files, done)
	s.file = nil
	s.writer = nil

	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("closing %s: %w", done.Path, err)
	}
	s.logger.Info("closed output file", zap.String("file", done.Path), zap.Int("rows", done.Rows))
	if s.observer != nil {
		s.observer.FileClosed(done)
	}
	return nil
}
