// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records export runs and their per-file outcomes in a SQLite
// database. The ledger is an audit trail: runs never read it to decide what
// to process.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/news-sentences/pkg/types"
)

// ErrRunNotFound is returned by Lookup when no run matches the given id.
var ErrRunNotFound = errors.New("run not found")

// Status is the state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Status         Status     `json:"status"`
	FolderPath     string     `json:"folder_path"`
	BaseOutputPath string     `json:"base_output_path"`
	MaxRowsPerFile int        `json:"max_rows_per_file"`
	BatchSize      int        `json:"batch_size"`
	Files          int        `json:"files"`
	Processed      int        `json:"processed"`
	Failed         int        `json:"failed"`
	Sentences      int        `json:"sentences"`
	Outputs        int        `json:"outputs"`
	Error          string     `json:"error,omitempty"`
}

// FileRecord is one row of the file_results table.
type FileRecord struct {
	RunID string `json:"run_id"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			status TEXT NOT NULL,
			folder_path TEXT NOT NULL,
			base_output_path TEXT NOT NULL,
			max_rows_per_file INTEGER NOT NULL,
			batch_size INTEGER NOT NULL,
			files INTEGER NOT NULL DEFAULT 0,
			processed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			sentences INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS file_results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			error TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS output_files (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			file_index INTEGER NOT NULL,
			path TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			PRIMARY KEY (run_id, file_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_file_results_failed ON file_results(run_id) WHERE error IS NOT NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is an export run in progress. It implements pipeline.Recorder.
type Run struct {
	store *Store
	id    string
	seq   int
}

// Begin inserts a new run with status running.
func (s *Store) Begin(ctx context.Context, cfg types.ExportConfig) (*Run, error) {
	cfg = cfg.WithDefaults()
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, folder_path, base_output_path, max_rows_per_file, batch_size)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, formatTime(time.Now()), string(StatusRunning),
		cfg.FolderPath, cfg.BaseOutputPath, cfg.MaxRowsPerFile, cfg.BatchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &Run{store: s, id: id}, nil
}

// ID returns the run id.
func (r *Run) ID() string {
	return r.id
}

// FileDone records the outcome of one input file. The write is not
// cancelled with ctx so an interrupted run still records the files it
// finished.
func (r *Run) FileDone(ctx context.Context, result types.FileResult) error {
	r.seq++
	var errText sql.NullString
	if result.Err != nil {
		errText = sql.NullString{String: result.Err.Error(), Valid: true}
	}
	_, err := r.store.db.ExecContext(context.WithoutCancel(ctx),
		`INSERT INTO file_results (run_id, seq, path, row_count, error) VALUES (?, ?, ?, ?, ?)`,
		r.id, r.seq, result.Path, result.Rows, errText,
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", result.Path, err)
	}
	return nil
}

// Finish stores the run summary and output files and sets the final status:
// completed when runErr is nil, failed otherwise.
func (r *Run) Finish(ctx context.Context, summary types.Summary, runErr error) error {
	ctx = context.WithoutCancel(ctx)
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	status := StatusCompleted
	var errText sql.NullString
	if runErr != nil {
		status = StatusFailed
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, files = ?, processed = ?, failed = ?, sentences = ?, error = ?
		 WHERE id = ?`,
		formatTime(time.Now()), string(status),
		summary.Files, summary.Processed, summary.Failed, summary.Rows, errText, r.id,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO output_files (run_id, file_index, path, row_count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range summary.Outputs {
		if _, err := stmt.ExecContext(ctx, r.id, f.Index, f.Path, f.Rows); err != nil {
			return fmt.Errorf("inserting output file %s: %w", f.Path, err)
		}
	}
	return tx.Commit()
}

const runColumns = `r.id, r.started_at, r.finished_at, r.status, r.folder_path, r.base_output_path,
	r.max_rows_per_file, r.batch_size, r.files, r.processed, r.failed, r.sentences,
	(SELECT count(*) FROM output_files o WHERE o.run_id = r.id), r.error`

// Runs returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r ORDER BY r.seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// Lookup returns the run whose id starts with prefix. The newest match wins.
func (s *Store) Lookup(ctx context.Context, prefix string) (RunRecord, error) {
	if prefix == "" {
		return RunRecord{}, ErrRunNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs r WHERE r.id LIKE ? || '%' ORDER BY r.seq DESC LIMIT 1`, prefix)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	}
	return rec, err
}

// Failures returns the files of a run that failed to read or parse, in
// processing order.
func (s *Store) Failures(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, row_count, error FROM file_results
		 WHERE run_id = ? AND error IS NOT NULL ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var rec FileRecord
		var errText sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.Path, &rec.Rows, &errText); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		rec.Error = errText.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Outputs returns the CSV files written by a run, in index order.
func (s *Store) Outputs(ctx context.Context, runID string) ([]types.OutputFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_index, path, row_count FROM output_files WHERE run_id = ? ORDER BY file_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying output files: %w", err)
	}
	defer rows.Close()

	var out []types.OutputFile
	for rows.Next() {
		var f types.OutputFile
		if err := rows.Scan(&f.Index, &f.Path, &f.Rows); err != nil {
			return nil, fmt.Errorf("scanning output file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var rec RunRecord
	var started, status string
	var finished, errText sql.NullString
	err := row.Scan(&rec.ID, &started, &finished, &status, &rec.FolderPath, &rec.BaseOutputPath,
		&rec.MaxRowsPerFile, &rec.BatchSize, &rec.Files, &rec.Processed, &rec.Failed, &rec.Sentences,
		&rec.Outputs, &errText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning run: %w", err)
	}
	rec.Status = Status(status)
	rec.Error = errText.String
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return rec, fmt.Errorf("parsing start time of run %s: %w", rec.ID, err)
	}
	if finished.Valid {
		t, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return rec, fmt.Errorf("parsing finish time of run %s: %w", rec.ID, err)
		}
		rec.FinishedAt = &t
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
