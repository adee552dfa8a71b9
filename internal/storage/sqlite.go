// Package storage keeps a SQLite journal of create/delete attempts made
// through svcboard. It never stores service records.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS actions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    action      TEXT    NOT NULL CHECK(action IN ('create', 'delete')),
    target      TEXT    NOT NULL,
    outcome     TEXT    NOT NULL CHECK(outcome IN ('ok', 'failed')),
    error       TEXT    NOT NULL DEFAULT '',
    recorded_at TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_recorded_at ON actions(recorded_at DESC);
`

const (
	ActionCreate = "create"
	ActionDelete = "delete"

	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// timeLayout is fixed width so recorded_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one journaled mutation attempt.
type Entry struct {
	ID         int64
	Action     string
	Target     string
	Outcome    string
	Error      string
	RecordedAt time.Time
}

// DB wraps a SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite at %q: %w", path, err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record persists one journal entry.
func (d *DB) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO actions (action, target, outcome, error, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		e.Action,
		e.Target,
		e.Outcome,
		e.Error,
		e.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording %s of %q: %w", e.Action, e.Target, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, action, target, outcome, error, recorded_at FROM actions ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent actions: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// FailureCount returns how many attempts failed since the given time.
func (d *DB) FailureCount(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM actions WHERE outcome = 'failed' AND recorded_at >= ?`,
		since.UTC().Format(timeLayout),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting failed actions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var recordedAt string
	err := row.Scan(&e.ID, &e.Action, &e.Target, &e.Outcome, &e.Error, &recordedAt)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}
	e.RecordedAt = t
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning action row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating action rows: %w", err)
	}
	return entries, nil
}
