// Package journal provides a SQLite-backed log of generation runs, so a
// prior run's seed and noise bases can be looked up and reproduced.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Run is one recorded generation run.
type Run struct {
	ID              string        `db:"id"`
	StartedAt       time.Time     `db:"started_at"`
	Duration        time.Duration `db:"duration_ns"`
	Seed            int64         `db:"seed"`
	PopulationBase  int           `db:"population_base"`
	IndustryBase    int           `db:"industry_base"`
	StreetsWeighted int           `db:"streets_weighted"`
	GatesAdded      int           `db:"gates_added"`
	SchoolsAdded    int           `db:"schools_added"`
	NetFile         string        `db:"net_file"`
	StatFile        string        `db:"stat_file"`
	OutputFile      string        `db:"output_file"`
}

// DB wraps a SQLite connection for the run journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the journal database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		duration_ns INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		population_base INTEGER NOT NULL,
		industry_base INTEGER NOT NULL,
		streets_weighted INTEGER NOT NULL,
		gates_added INTEGER NOT NULL,
		schools_added INTEGER NOT NULL,
		net_file TEXT NOT NULL,
		stat_file TEXT NOT NULL,
		output_file TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Record inserts a run. A missing ID is filled with a fresh UUID; the
// (possibly generated) ID is returned.
func (db *DB) Record(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := db.conn.NamedExec(`INSERT INTO runs
		(id, started_at, duration_ns, seed, population_base, industry_base,
		 streets_weighted, gates_added, schools_added, net_file, stat_file, output_file)
		VALUES (:id, :started_at, :duration_ns, :seed, :population_base, :industry_base,
		 :streets_weighted, :gates_added, :schools_added, :net_file, :stat_file, :output_file)`,
		run)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent runs, newest first.
func (db *DB) Recent(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY started_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return runs, nil
}
