// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - A single-instance campus app (one server, one database file)
// - Development and testing (use ":memory:" for an in-memory DB)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Go's standard library provides "database/sql" — a generic interface for SQL databases.
// It works with any database through "drivers" (SQLite, Postgres, MySQL, etc.).
// Key types:
//   - sql.DB      — a connection pool (NOT a single connection!)
//   - sql.Row     — a single result row
//   - sql.Rows    — multiple result rows (must be closed!)
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// BLANK IMPORT:
	// The underscore import `_ "modernc.org/sqlite"` is a "side-effect only" import.
	// The sqlite package's init() function registers itself with database/sql as a
	// driver named "sqlite". After this import, sql.Open("sqlite", ...) knows how
	// to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
//
// One struct implements all three repository interfaces (users, event
// requests, applications) — they share the connection pool and the schema
// lives in one migrate() function.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/campus.db"  → file-based database (persistent)
//   - ":memory:"        → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping verifies the connection actually works.
	// Without this, a bad path or permissions issue would only surface
	// on the first query — which is much harder to debug.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the entire database during writes.
	// WAL mode allows concurrent reads WHILE a write is happening —
	// important for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
// The server defers this so pending WAL writes are flushed on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every start.
// For a single-file app this beats pulling in a migration framework; if the
// schema ever needs versioned, destructive changes, golang-migrate is the
// upgrade path.
func (db *DB) migrate() error {
	// users — the credential store. name is the unique business key.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			email         TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// event_requests — club proposals, authority reviewed.
	// club_name is denormalized from the submitting session on purpose.
	// References between tables are soft: every record denormalizes what
	// its list views need, and readers treat a missing referent as absent
	// data rather than an error. So no FOREIGN KEY clauses here.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS event_requests (
			id                TEXT PRIMARY KEY,
			club_id           TEXT NOT NULL,
			club_name         TEXT NOT NULL,
			event_title       TEXT NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			date              DATETIME NOT NULL,
			status            TEXT NOT NULL DEFAULT 'pending',
			authority_remarks TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_event_requests_club_id ON event_requests(club_id);
		CREATE INDEX IF NOT EXISTS idx_event_requests_status  ON event_requests(status);
	`)
	if err != nil {
		return fmt.Errorf("creating event_requests table: %w", err)
	}

	// student_applications — student applications, club reviewed.
	// attachments is a JSON array column: attachments have no identity of
	// their own and are always read with their application, so a child
	// table would only add joins. processed_at is NULL until the owning
	// club approves or rejects.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS student_applications (
			id                  TEXT PRIMARY KEY,
			student_id          TEXT NOT NULL,
			student_name        TEXT NOT NULL,
			event_id            TEXT NOT NULL,
			event_title         TEXT NOT NULL,
			application_details TEXT NOT NULL,
			status              TEXT NOT NULL DEFAULT 'pending',
			club_remarks        TEXT NOT NULL DEFAULT '',
			applied_at          DATETIME NOT NULL,
			processed_at        DATETIME,
			attachments         TEXT NOT NULL DEFAULT '[]',
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_student_applications_student_id ON student_applications(student_id);
		CREATE INDEX IF NOT EXISTS idx_student_applications_event_id   ON student_applications(event_id);
		CREATE INDEX IF NOT EXISTS idx_student_applications_status     ON student_applications(status);
	`)
	if err != nil {
		return fmt.Errorf("creating student_applications table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
//
// modernc.org/sqlite does not export a typed error for constraint
// violations the way pq/pgx do, so we match the driver's stable message
// text. SQLITE_CONSTRAINT_UNIQUE always renders as
// "UNIQUE constraint failed: <table>.<column>".
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
