package timeseries

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	model      TEXT NOT NULL,
	tmax       REAL NOT NULL,
	ntot       INTEGER NOT NULL,
	s          REAL NOT NULL,
	d          REAL NOT NULL,
	l          REAL NOT NULL,
	p          REAL NOT NULL,
	seed       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id                TEXT NOT NULL REFERENCES runs(run_id),
	step                  INTEGER NOT NULL,
	time                  REAL NOT NULL,
	active_clones         INTEGER NOT NULL,
	cumulative_drivers    INTEGER NOT NULL,
	cumulative_passengers INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);`

// SQLiteRecorder stores rows in a SQLite database. Several runs may share one
// database file; each is keyed by the header's RunID.
// All rows of a run are written inside one transaction committed by Close.
type SQLiteRecorder struct {
	db    *sql.DB
	tx    *sql.Tx
	stmt  *sql.Stmt
	runID string
	step  int
}

// NewSQLiteRecorder opens (or creates) the database at path, ensures the schema,
// registers the run and starts the sample transaction.
func NewSQLiteRecorder(path string, header RunHeader) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO runs (run_id, created_at, model, tmax, ntot, s, d, l, p, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		header.RunID, header.CreatedAt, header.Model, header.TMax, header.NTot,
		header.S, header.D, header.L, header.P, header.Seed); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("insert run: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("begin samples: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO samples
		(run_id, step, time, active_clones, cumulative_drivers, cumulative_passengers)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("prepare samples: %w", err)
	}
	return &SQLiteRecorder{db: db, tx: tx, stmt: stmt, runID: header.RunID}, nil
}

// Record inserts one sample row.
func (r *SQLiteRecorder) Record(row Row) error {
	if _, err := r.stmt.Exec(r.runID, r.step, row.Time, row.ActiveClones,
		row.CumulativeDrivers, row.CumulativePassengers); err != nil {
		return fmt.Errorf("insert sample %d: %w", r.step, err)
	}
	r.step++
	return nil
}

// Close commits the sample transaction and closes the database.
func (r *SQLiteRecorder) Close() (retErr error) {
	defer func() {
		if err := r.db.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("close sqlite: %w", err)
		}
	}()
	if err := r.stmt.Close(); err != nil {
		_ = r.tx.Rollback()
		return fmt.Errorf("close statement: %w", err)
	}
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("commit samples: %w", err)
	}
	return nil
}
