package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/models"
)

// ManuscriptRow represents a row in the manuscripts table.
type ManuscriptRow struct {
	Slug     string
	Filename string
	Checksum string
	Metadata models.Metadata
}

// SearchResult represents one search hit.
type SearchResult struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

const selectColumns = `slug, filename, checksum, title, subtitle, author, manuscript, repository, date, extent, description`

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (ManuscriptRow, error) {
	var r ManuscriptRow
	m := &r.Metadata
	err := s.Scan(&r.Slug, &r.Filename, &r.Checksum,
		&m.Title, &m.Subtitle, &m.Author, &m.Manuscript, &m.Repository, &m.Date, &m.Extent, &m.Description)
	return r, err
}

// ReplaceAll swaps the whole snapshot for rows inside one transaction.
// Row order is kept as the listing order.
func (db *DB) ReplaceAll(rows []ManuscriptRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM manuscripts`); err != nil {
		return fmt.Errorf("index: clear manuscripts: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO manuscripts (slug, position, filename, checksum,
			title, subtitle, author, manuscript, repository, date, extent, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		m := r.Metadata
		if _, err := stmt.Exec(r.Slug, i, r.Filename, r.Checksum,
			m.Title, m.Subtitle, m.Author, m.Manuscript, m.Repository, m.Date, m.Extent, m.Description); err != nil {
			return fmt.Errorf("index: insert %s: %w", r.Slug, err)
		}
		if err := ftsInsert(tx, r); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get returns one manuscript by slug, or apperr.ErrNotFound.
func (db *DB) Get(slug string) (*ManuscriptRow, error) {
	r, err := scanRow(db.conn.QueryRow(`SELECT `+selectColumns+` FROM manuscripts WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: %s: %w", slug, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get: %w", err)
	}
	return &r, nil
}

// List returns every manuscript in listing order.
func (db *DB) List() ([]ManuscriptRow, error) {
	rows, err := db.conn.Query(`SELECT ` + selectColumns + ` FROM manuscripts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	defer rows.Close()

	var out []ManuscriptRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of manuscripts in the snapshot.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM manuscripts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// AllChecksums returns slug to checksum for every stored manuscript.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT slug, checksum FROM manuscripts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var slug, cs string
		if err := rows.Scan(&slug, &cs); err != nil {
			return nil, err
		}
		out[slug] = cs
	}
	return out, rows.Err()
}
