// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts export activity on a private Prometheus registry
// and writes it in the text exposition format for a node_exporter textfile
// collector.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/news-sentences/pkg/types"
)

const namespace = "news_sentences"

// File status label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Collector implements pipeline.Recorder and sink.Observer.
type Collector struct {
	registry *prometheus.Registry

	filesTotal     *prometheus.CounterVec
	sentencesTotal prometheus.Counter
	outputFiles    prometheus.Counter
	batchesTotal   prometheus.Counter
	batchRows      prometheus.Histogram
	runDuration    prometheus.Gauge
	lastRun        prometheus.Gauge
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "input_files_total",
				Help:      "Input JSON files handled, by outcome",
			},
			[]string{"status"},
		),
		sentencesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_total",
			Help:      "Sentence rows extracted from input files",
		}),
		outputFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_files_total",
			Help:      "CSV output files completed",
		}),
		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_flushed_total",
			Help:      "Row batches written to CSV output",
		}),
		batchRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_rows",
			Help:      "Rows per flushed batch",
			Buckets:   []float64{1, 10, 100, 1000, 5000, 10000, 50000},
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last export run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last export run finished",
		}),
	}

	c.registry.MustRegister(
		c.filesTotal,
		c.sentencesTotal,
		c.outputFiles,
		c.batchesTotal,
		c.batchRows,
		c.runDuration,
		c.lastRun,
	)
	// Both label values are exported from the first scrape.
	c.filesTotal.WithLabelValues(StatusOK)
	c.filesTotal.WithLabelValues(StatusFailed)
	return c
}

// FileDone counts one input file and the sentences it produced.
func (c *Collector) FileDone(_ context.Context, result types.FileResult) error {
	status := StatusOK
	if !result.OK() {
		status = StatusFailed
	}
	c.filesTotal.WithLabelValues(status).Inc()
	c.sentencesTotal.Add(float64(result.Rows))
	return nil
}

func (c *Collector) FileOpened(types.OutputFile) {}

func (c *Collector) FileClosed(types.OutputFile) {
	c.outputFiles.Inc()
}

func (c *Collector) BatchFlushed(rows int) {
	c.batchesTotal.Inc()
	c.batchRows.Observe(float64(rows))
}

// Finish records the run duration measured from start.
func (c *Collector) Finish(start time.Time) {
	now := time.Now()
	c.runDuration.Set(now.Sub(start).Seconds())
	c.lastRun.Set(float64(now.Unix()))
}

// WriteTextfile writes every metric to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
