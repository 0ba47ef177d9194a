// Package store keeps history of scenario runs in SQLite.
// Each run has a row in runs and one row per executed scenario in results.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

// Status of a scenario result
type Status string

// result statuses
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Run is a single execution of selected scenarios
type Run struct {
	ID         string
	Trigger    string // "once", "schedule", "manual"
	StartedAt  time.Time
	FinishedAt time.Time
	Passed     int
	Failed     int
	Skipped    int
}

// Result is outcome of one scenario in a run
type Result struct {
	RunID      string
	ScenarioID string
	Case       string
	Name       string
	Status     Status
	Error      string
	Screenshot string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration of the scenario
func (r Result) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// SQLite implements run history store
type SQLite struct {
	db *sqlx.DB
}

// db rows keep timestamps as unix milliseconds
type runRow struct {
	ID         string `db:"id"`
	Trigger    string `db:"trigger_kind"`
	StartedAt  int64  `db:"started_at"`
	FinishedAt int64  `db:"finished_at"`
	Passed     int    `db:"passed"`
	Failed     int    `db:"failed"`
	Skipped    int    `db:"skipped"`
}

type resultRow struct {
	ID         int64  `db:"id"`
	RunID      string `db:"run_id"`
	ScenarioID string `db:"scenario_id"`
	Case       string `db:"case_id"`
	Name       string `db:"name"`
	Status     string `db:"status"`
	Error      string `db:"error"`
	Screenshot string `db:"screenshot"`
	StartedAt  int64  `db:"started_at"`
	FinishedAt int64  `db:"finished_at"`
}

// New opens sqlite database at path in WAL mode and makes the schema
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to make %s: %w", dir, err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite allows a single writer

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to set %q: %w (also failed to close db: %v)", pragma, err, closeErr)
			}
			return nil, fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			trigger_kind TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL DEFAULT 0,
			passed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			scenario_id TEXT NOT NULL,
			case_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			screenshot TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_scenario_id ON results(scenario_id)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// RecordRun inserts or updates run
func (s *SQLite) RecordRun(ctx context.Context, r Run) error {
	row := runRow{ID: r.ID, Trigger: r.Trigger, StartedAt: toMillis(r.StartedAt), FinishedAt: toMillis(r.FinishedAt),
		Passed: r.Passed, Failed: r.Failed, Skipped: r.Skipped}
	_, err := s.db.NamedExecContext(ctx, `INSERT OR REPLACE INTO runs
		(id, trigger_kind, started_at, finished_at, passed, failed, skipped)
		VALUES (:id, :trigger_kind, :started_at, :finished_at, :passed, :failed, :skipped)`, row)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.ID, err)
	}
	return nil
}

// RecordResult appends scenario result
func (s *SQLite) RecordResult(ctx context.Context, r Result) error {
	row := resultRow{RunID: r.RunID, ScenarioID: r.ScenarioID, Case: r.Case, Name: r.Name, Status: string(r.Status),
		Error: r.Error, Screenshot: r.Screenshot, StartedAt: toMillis(r.StartedAt), FinishedAt: toMillis(r.FinishedAt)}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO results
		(run_id, scenario_id, case_id, name, status, error, screenshot, started_at, finished_at)
		VALUES (:run_id, :scenario_id, :case_id, :name, :status, :error, :screenshot, :started_at, :finished_at)`, row)
	if err != nil {
		return fmt.Errorf("failed to record result of %s: %w", r.ScenarioID, err)
	}
	return nil
}

// LastResults returns the latest result of every scenario ever recorded, ordered by scenario id
func (s *SQLite) LastResults(ctx context.Context) ([]Result, error) {
	rows := []resultRow{}
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM results
		WHERE id IN (SELECT MAX(id) FROM results GROUP BY scenario_id) ORDER BY scenario_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query last results: %w", err)
	}
	return toResults(rows), nil
}

// History returns up to limit latest results of scenario, newest first
func (s *SQLite) History(ctx context.Context, scenarioID string, limit int) ([]Result, error) {
	rows := []resultRow{}
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM results WHERE scenario_id = ? ORDER BY id DESC LIMIT ?`,
		scenarioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history of %s: %w", scenarioID, err)
	}
	return toResults(rows), nil
}

// Runs returns up to limit latest runs, newest first
func (s *SQLite) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows := []runRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM runs ORDER BY started_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	res := make([]Run, 0, len(rows))
	for _, r := range rows {
		res = append(res, Run{ID: r.ID, Trigger: r.Trigger, StartedAt: fromMillis(r.StartedAt),
			FinishedAt: fromMillis(r.FinishedAt), Passed: r.Passed, Failed: r.Failed, Skipped: r.Skipped})
	}
	return res, nil
}

// Cleanup keeps the latest keep runs with their results and deletes the rest.
// Returns number of deleted runs.
func (s *SQLite) Cleanup(ctx context.Context, keep int) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const stale = `SELECT id FROM runs ORDER BY started_at DESC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id IN (`+stale+`)`, keep); err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

func toResults(rows []resultRow) []Result {
	res := make([]Result, 0, len(rows))
	for _, r := range rows {
		res = append(res, Result{RunID: r.RunID, ScenarioID: r.ScenarioID, Case: r.Case, Name: r.Name,
			Status: Status(r.Status), Error: r.Error, Screenshot: r.Screenshot,
			StartedAt: fromMillis(r.StartedAt), FinishedAt: fromMillis(r.FinishedAt)})
	}
	return res
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
