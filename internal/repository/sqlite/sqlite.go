// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// modernc.org/sqlite is a pure Go translation of SQLite: no CGo, no C
// compiler, and the same binary runs everywhere Go runs.
//
// ONE CONNECTION:
// The pool is capped at a single open connection. Every statement and
// transaction is therefore serialized (one writer at a time), and ":memory:"
// databases behave as one database instead of one-per-connection.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-collection stores.
type DB struct {
	conn     *sql.DB
	accounts *AccountDB
	feedback *FeedbackDB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "server_data/sehyaatri.db" → file-based database (persistent)
//   - ":memory:"                 → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	// sql.Open doesn't connect; Ping surfaces a bad path or permissions now.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	db.accounts = &AccountDB{conn: conn}
	db.feedback = &FeedbackDB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Accounts returns the accounts table store.
func (db *DB) Accounts() *AccountDB { return db.accounts }

// Feedback returns the feedback table store.
func (db *DB) Feedback() *FeedbackDB { return db.feedback }

// SQL exposes the underlying pool for stats collection.
func (db *DB) SQL() *sql.DB { return db.conn }

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the tables. CREATE TABLE IF NOT EXISTS makes it safe to
// run on every start.
//
// AUTOINCREMENT guarantees a new id is always greater than every id ever
// issued, which for append-only tables is exactly "max existing id + 1".
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	// user_email is nullable: feedback may be anonymous.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_email TEXT,
			payload    TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating feedback table: %w", err)
	}

	return nil
}
