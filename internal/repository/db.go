package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS staff (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			staff_id TEXT NOT NULL,
			surname TEXT NOT NULL DEFAULT '',
			firstname TEXT NOT NULL DEFAULT '',
			middlename TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			rank TEXT NOT NULL DEFAULT '',
			contiss TEXT NOT NULL DEFAULT '',
			bank_name TEXT NOT NULL DEFAULT '',
			bank_code TEXT NOT NULL DEFAULT '',
			sortcode TEXT NOT NULL DEFAULT '',
			account_no TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_staff_staff_id ON staff(staff_id)`,

		`CREATE TABLE IF NOT EXISTS distances (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pcode TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			tcode TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL,
			distance REAL NOT NULL,
			tstate TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_distances_source_target ON distances(source, target)`,

		`CREATE TABLE IF NOT EXISTS parameters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contiss TEXT NOT NULL,
			pernight REAL NOT NULL DEFAULT 0,
			local REAL NOT NULL DEFAULT 0,
			kilometer REAL NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS states (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL,
			capital TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_states_state ON states(state)`,

		`CREATE TABLE IF NOT EXISTS postings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			state TEXT NOT NULL DEFAULT '',
			file_no TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			conraiss TEXT NOT NULL DEFAULT '',
			station TEXT NOT NULL DEFAULT '',
			posting TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			rank TEXT NOT NULL DEFAULT '',
			mandate TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_postings_file_no ON postings(file_no)`,

		`CREATE TABLE IF NOT EXISTS posting_uploads (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			file_hash TEXT UNIQUE NOT NULL,
			header_row INTEGER NOT NULL,
			original_rows INTEGER NOT NULL,
			cleaned_rows INTEGER NOT NULL,
			uploaded_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL DEFAULT '',
			file_no TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			conraiss TEXT NOT NULL DEFAULT '',
			station TEXT NOT NULL DEFAULT '',
			posting TEXT NOT NULL DEFAULT '',
			bank TEXT NOT NULL DEFAULT '',
			account_no TEXT NOT NULL DEFAULT '',
			transport REAL NOT NULL DEFAULT 0,
			local_runs REAL NOT NULL DEFAULT 0,
			numb_of_nights INTEGER NOT NULL DEFAULT 0,
			amount_per_night REAL NOT NULL DEFAULT 0,
			dta REAL NOT NULL DEFAULT 0,
			netpay REAL NOT NULL DEFAULT 0,
			payment_title TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_run ON payments(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_title ON payments(payment_title)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
