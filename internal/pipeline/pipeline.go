// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives an export run: it discovers JSON input files,
// feeds every extracted sentence to the CSV sink, and keeps per-file
// outcomes and counters.
//
// A file that cannot be read or parsed is logged and counted, and the run
// continues. A missing input folder, an empty one, a sink write failure, or
// cancellation aborts the run; output files already flushed stay on disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/news-sentences/internal/extract"
	"github.com/pdiddy/news-sentences/internal/sink"
	"github.com/pdiddy/news-sentences/pkg/types"
)

const inputExt = ".json"

// ErrNotFound is returned when the input folder does not exist or holds no
// JSON files. Match it with errors.Is.
var ErrNotFound = errors.New("not found")

// Recorder receives the outcome of every input file in discovery order.
// The run ledger and metrics collector implement it. A Recorder error is
// logged as a warning and does not stop the run.
type Recorder interface {
	FileDone(ctx context.Context, result types.FileResult) error
}

type options struct {
	logger    *zap.Logger
	recorders []Recorder
	observers []sink.Observer
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the run logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder adds a per-file outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorders = append(o.recorders, r)
	}
}

// WithSinkObserver forwards sink file and batch events to obs.
func WithSinkObserver(obs sink.Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}

// Discover returns every *.json file under folder, recursively, in lexical
// order. Hidden files and directories are skipped. It fails with
// ErrNotFound when folder does not exist or is not a directory; an empty
// result is not an error here.
func Discover(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: folder %s does not exist", ErrNotFound, folder)
		}
		return nil, fmt.Errorf("reading folder %s: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a folder", ErrNotFound, folder)
	}

	var files []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped.
			if d != nil && path != folder {
				return nil
			}
			return err
		}
		if path != folder && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), inputExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", folder, err)
	}
	return files, nil
}

// Run exports every sentence found under cfg.FolderPath into CSV files named
// {cfg.BaseOutputPath}_{n}.csv. Summary.Rows is the total sentence count.
// On a fatal error the returned Summary holds the counts reached so far.
func Run(ctx context.Context, cfg types.ExportConfig, opts ...Option) (types.Summary, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Summary{}, fmt.Errorf("invalid configuration: %w", err)
	}

	files, err := Discover(cfg.FolderPath)
	if err != nil {
		return types.Summary{}, err
	}
	if len(files) == 0 {
		return types.Summary{}, fmt.Errorf("%w: no JSON files in %s", ErrNotFound, cfg.FolderPath)
	}
	log.Info("found JSON files", zap.Int("count", len(files)), zap.String("folder", cfg.FolderPath))

	out := sink.New(cfg.SinkConfig,
		sink.WithLogger(log),
		sink.WithObserver(fanout(o.observers)))
	if err := out.Open(); err != nil {
		return types.Summary{}, fmt.Errorf("opening output: %w", err)
	}

	summary := types.Summary{Files: len(files)}
	abort := func(err error) (types.Summary, error) {
		closeErr := out.Close()
		summary.Rows = out.Total()
		summary.Outputs = out.Files()
		log.Error("export aborted",
			zap.Int("processed", summary.Processed+summary.Failed),
			zap.Int("total", summary.Files),
			zap.Error(err))
		return summary, errors.Join(err, closeErr)
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return abort(fmt.Errorf("export cancelled: %w", err))
		}

		result, err := processFile(out, path, log)
		if err != nil {
			return abort(err)
		}
		if result.OK() {
			summary.Processed++
		} else {
			summary.Failed++
			summary.Failures = append(summary.Failures, result)
		}

		for _, r := range o.recorders {
			if err := r.FileDone(ctx, result); err != nil {
				log.Warn("recording file result failed", zap.String("file", path), zap.Error(err))
			}
		}

		if done := i + 1; done%cfg.ProgressEvery == 0 {
			log.Info("progress", zap.Int("processed", done), zap.Int("total", len(files)))
		}
	}

	if err := out.Close(); err != nil {
		summary.Rows = out.Total()
		summary.Outputs = out.Files()
		return summary, fmt.Errorf("closing output: %w", err)
	}
	summary.Rows = out.Total()
	summary.Outputs = out.Files()

	log.Info("export complete",
		zap.Int("files", summary.Files),
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed),
		zap.Int("sentences", summary.Rows),
		zap.Int("output_files", len(summary.Outputs)))
	return summary, nil
}

// processFile streams one input file into the sink. A read or parse failure
// is returned in the FileResult; only sink errors are returned as err.
func processFile(out *sink.Sink, path string, log *zap.Logger) (types.FileResult, error) {
	result := types.FileResult{Path: path}
	log.Info("processing file", zap.String("file", filepath.Base(path)))

	doc, err := extract.Open(path)
	if err != nil {
		log.Error("error processing file", zap.String("file", path), zap.Error(err))
		result.Err = err
		return result, nil
	}
	for row := range doc.Rows() {
		if err := out.Write(row); err != nil {
			return result, fmt.Errorf("writing sentences from %s: %w", doc.Path(), err)
		}
		result.Rows++
	}
	log.Debug("file done",
		zap.String("file", doc.Path()),
		zap.Int("articles", doc.Len()),
		zap.Int("sentences", result.Rows))
	return result, nil
}

// fanout combines sink observers into one; nil when there are none.
func fanout(observers []sink.Observer) sink.Observer {
	switch len(observers) {
	case 0:
		return nil
	case 1:
		return observers[0]
	}
	return multiObserver(observers)
}

type multiObserver []sink.Observer

func (m multiObserver) FileOpened(f types.OutputFile) {
	for _, o := range m {
		o.FileOpened(f)
	}
}

func (m multiObserver) FileClosed(f types.OutputFile) {
	for _, o := range m {
		o.FileClosed(f)
	}
}

func (m multiObserver) BatchFlushed(rows int) {
	for _, o := range m {
		o.BatchFlushed(rows)
	}
}
