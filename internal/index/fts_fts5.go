//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS manuscripts_fts USING fts5(
			slug UNINDEXED,
			title,
			subtitle,
			author,
			description,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, r ManuscriptRow) error {
	m := r.Metadata
	_, err := tx.Exec(`INSERT INTO manuscripts_fts (slug, title, subtitle, author, description) VALUES (?, ?, ?, ?, ?)`,
		r.Slug, m.Title, m.Subtitle, m.Author, m.Description)
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

func ftsClear(tx *sql.Tx) error {
	_, err := tx.Exec(`DELETE FROM manuscripts_fts`)
	return err
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT slug,
		       title,
		       snippet(manuscripts_fts, 4, '<b>', '</b>', '...', 32)
		FROM manuscripts_fts
		WHERE manuscripts_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
