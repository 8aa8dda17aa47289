package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"FinSight/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the pipeline writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			tickers     TEXT,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON pipeline_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS stage_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL,
			stage       TEXT NOT NULL,
			tickers_ok  INTEGER,
			skipped     INTEGER,
			failed      INTEGER,
			error       TEXT,
			duration_ms INTEGER,
			FOREIGN KEY (run_id) REFERENCES pipeline_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_run ON stage_events(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(report *model.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	failed := 0
	if report.Failed() {
		failed = 1
	}
	tickers := ""
	for i, t := range report.Tickers {
		if i > 0 {
			tickers += ","
		}
		tickers += t
	}

	result, err := r.db.Exec(`INSERT INTO pipeline_runs
		(started_at, finished_at, tickers, failed)
		VALUES (?,?,?,?)`,
		report.StartedAt.Unix(), report.FinishedAt.Unix(), tickers, failed,
	)
	if err != nil {
		return err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, s := range report.Stages {
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		if _, err := r.db.Exec(`INSERT INTO stage_events
			(run_id, stage, tickers_ok, skipped, failed, error, duration_ms)
			VALUES (?,?,?,?,?,?,?)`,
			runID, s.Stage, s.Tickers, s.Skipped, s.Failed, errText,
			int64(s.Duration/time.Millisecond),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
