// Package sqlstore implements the storage contract on database/sql. It serves
// MySQL and SQLite from the same DML; only the schema and duplicate-key
// detection are dialect-aware.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// SQLStore is a database/sql-backed implementation of store.Store.
type SQLStore struct {
	db *sql.DB
}

var schemas = map[string][]string{
	"mysql": {
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS todos (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			owner_id BIGINT NULL,
			title VARCHAR(500) NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL,
			INDEX idx_todos_owner (owner_id, created_at)
		)`,
	},
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT NOT NULL PRIMARY KEY,
			owner_id INTEGER,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner_id, created_at)`,
	},
}

// Open connects to the database named by driver ("mysql" or "sqlite") and dsn,
// verifies the connection, and applies the schema.
func Open(driver, dsn string) (*SQLStore, error) {
	stmts, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// A single connection sidesteps SQLITE_BUSY and keeps :memory:
		// databases coherent across the pool.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return &SQLStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isDuplicateEntryError reports whether err is a unique-constraint violation.
// MySQL reports error 1062 ("Duplicate entry"), SQLite a "UNIQUE constraint
// failed" message.
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
