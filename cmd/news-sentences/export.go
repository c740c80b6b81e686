// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/pdiddy/news-sentences/internal/ledger"
	"github.com/pdiddy/news-sentences/internal/logging"
	"github.com/pdiddy/news-sentences/internal/metrics"
	"github.com/pdiddy/news-sentences/internal/pipeline"
	"github.com/pdiddy/news-sentences/internal/stats"
	"github.com/pdiddy/news-sentences/internal/validate"
	"github.com/pdiddy/news-sentences/pkg/types"
)

// errNotConfirmed is returned when export needs a confirmation it cannot ask for.
var errNotConfirmed = errors.New("stdin is not a terminal: pass --yes to run without confirmation")

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every sentence under a JSON folder to numbered CSV files",
	Long: `Export walks the input folder for *.json files, splits each article body
into sentences, and writes (kalimat, judul_berita) rows to
{output}_1.csv, {output}_2.csv, and so on.

Folder statistics are shown first and the run starts after a "y" answer;
use --yes to skip the question. Files that cannot be read or parsed are
logged and skipped. After the run a manifest is written next to the
output and the first rows of each file are shown.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := exportConfig()
	if err != nil {
		return err
	}

	printBanner(out, cfg)

	fmt.Fprintln(out, "Analyzing folder...")
	st, err := stats.Collect(cfg.FolderPath)
	if err == nil && st.Files == 0 {
		err = fmt.Errorf("%w: no JSON files in %s", pipeline.ErrNotFound, cfg.FolderPath)
	}
	if err != nil {
		printNotFoundHints(out, err)
		return err
	}
	st.Print(out)
	fmt.Fprintln(out)

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errNotConfirmed
		}
		ok, err := confirm(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Export cancelled.")
			return nil
		}
	}

	logger, closeLog, err := logging.New(logConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	var run *ledger.Run
	if path := viper.GetString("ledger"); path != "" {
		store, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		if run, err = store.Begin(ctx, cfg); err != nil {
			return fmt.Errorf("starting ledger run: %w", err)
		}
		logger.Info("recording run", zap.String("run_id", run.ID()), zap.String("ledger", path))
		opts = append(opts, pipeline.WithRecorder(run))
	}

	var collector *metrics.Collector
	metricsFile := viper.GetString("metrics_file")
	if metricsFile != "" {
		collector = metrics.New()
		opts = append(opts, pipeline.WithRecorder(collector), pipeline.WithSinkObserver(collector))
	}

	fmt.Fprintln(out, "Starting export...")
	start := time.Now()
	summary, runErr := pipeline.Run(ctx, cfg, opts...)

	if run != nil {
		if err := run.Finish(ctx, summary, runErr); err != nil {
			logger.Warn("finishing ledger run failed", zap.Error(err))
		}
	}
	if collector != nil {
		collector.Finish(start)
		if err := collector.WriteTextfile(metricsFile); err != nil {
			logger.Warn("writing metrics failed", zap.Error(err))
		}
	}

	if runErr != nil {
		if errors.Is(runErr, pipeline.ErrNotFound) {
			printNotFoundHints(out, runErr)
		} else {
			fmt.Fprintf(out, "\nExport failed. Check the log file %q for details.\n", viper.GetString("log_file"))
		}
		return runErr
	}

	if noManifest, _ := cmd.Flags().GetBool("no-manifest"); !noManifest {
		path, err := pipeline.WriteManifest(cfg, summary)
		if err != nil {
			logger.Warn("writing manifest failed", zap.Error(err))
		} else {
			logger.Info("wrote manifest", zap.String("file", path))
		}
	}

	if sample, _ := cmd.Flags().GetInt("sample"); sample > 0 {
		fmt.Fprintln(out, "\nValidating output...")
		reports, err := validate.Files(outputPaths(summary.Outputs), sample)
		validate.Print(out, reports)
		if err != nil {
			logger.Warn("validating output failed", zap.Error(err))
		}
	}

	fmt.Fprintf(out, "\nDONE! %d sentences exported from %d files.\n", summary.Rows, summary.Processed)
	fmt.Fprintf(out, "CSV files saved as: %s_1.csv, %s_2.csv, ...\n", cfg.BaseOutputPath, cfg.BaseOutputPath)
	if summary.HasFailures() {
		fmt.Fprintf(out, "%d file(s) could not be read; see %q.\n", summary.Failed, viper.GetString("log_file"))
	}
	return nil
}

// exportConfig assembles the run configuration from viper. Flags always
// carry a value, so sizes are validated as given.
func exportConfig() (types.ExportConfig, error) {
	var cfg types.ExportConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func printBanner(w io.Writer, cfg types.ExportConfig) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "NEWS JSON TO SENTENCE CSV EXPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "JSON folder:       %s\n", cfg.FolderPath)
	fmt.Fprintf(w, "CSV output base:   %s\n", cfg.BaseOutputPath)
	fmt.Fprintf(w, "Max rows per file: %d\n", cfg.MaxRowsPerFile)
	fmt.Fprintf(w, "Batch size:        %d\n", cfg.BatchSize)
	fmt.Fprintln(w, rule)
}

func printNotFoundHints(w io.Writer, err error) {
	if !errors.Is(err, pipeline.ErrNotFound) {
		return
	}
	fmt.Fprintln(w, "\nMake sure that:")
	fmt.Fprintln(w, "1. the JSON folder path is correct")
	fmt.Fprintln(w, "2. the folder contains .json files")
	fmt.Fprintln(w, "3. the path uses your operating system's format")
}

// confirm asks whether to continue and reports true only for "y".
func confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Continue? (y/n): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}

func outputPaths(files []types.OutputFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func init() {
	exportCmd.Flags().String("folder", "json", "input folder searched recursively for *.json files")
	exportCmd.Flags().String("output", "dataset_kalimat_150k", "output base path; files are named {output}_N.csv")
	exportCmd.Flags().Int("max-rows", types.CLIMaxRowsPerFile, "maximum data rows per CSV file")
	exportCmd.Flags().Int("batch-size", types.DefaultBatchSize, "rows buffered before each write")
	exportCmd.Flags().Int("progress-every", types.DefaultProgressEvery, "log progress every N input files")
	exportCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile (empty disables)")
	exportCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	exportCmd.Flags().Int("sample", 3, "rows shown per output file after the run (0 skips validation)")
	exportCmd.Flags().Bool("no-manifest", false, "do not write {output}_manifest.yaml")

	_ = viper.BindPFlag("folder_path", exportCmd.Flags().Lookup("folder"))
	_ = viper.BindPFlag("base_output_path", exportCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("max_rows_per_file", exportCmd.Flags().Lookup("max-rows"))
	_ = viper.BindPFlag("batch_size", exportCmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("progress_every", exportCmd.Flags().Lookup("progress-every"))
	_ = viper.BindPFlag("metrics_file", exportCmd.Flags().Lookup("metrics-file"))

	rootCmd.AddCommand(exportCmd)
}
