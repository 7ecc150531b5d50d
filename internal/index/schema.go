// Package index stores catalog snapshots in SQLite, with optional FTS5
// full-text search over the metadata.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS manuscripts (
	slug        TEXT PRIMARY KEY,
	position    INTEGER NOT NULL,
	filename    TEXT NOT NULL,
	checksum    TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	subtitle    TEXT NOT NULL DEFAULT '',
	author      TEXT NOT NULL DEFAULT '',
	manuscript  TEXT NOT NULL DEFAULT '',
	repository  TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL DEFAULT '',
	extent      TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	exported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_manuscripts_position ON manuscripts(position);
`

// DB wraps a sql.DB with snapshot-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
