package db

import (
	"context"
	"strings"
)

// Search finds ledger bookmarks matching query, best matches first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Bookmark, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, limit)
	}

	if s.fts {
		// FTS5 can fail on special characters (quotes, operators)
		// Gracefully fall back to a LIKE scan if it does
		results, err := s.ftsSearch(ctx, query, limit)
		if err == nil && len(results) > 0 {
			return results, nil
		}
	}

	return s.likeSearch(ctx, query, limit)
}

func (s *Store) ftsSearch(ctx context.Context, query string, limit int) ([]Bookmark, error) {
	sqlQuery := `
		SELECT b.id, b.url, b.description, b.extended, b.tags, b.path, b.posted_at, b.synced_at
		FROM bookmarks_fts
		JOIN bookmarks b ON bookmarks_fts.rowid = b.rowid
		WHERE bookmarks_fts MATCH ?
		ORDER BY bm25(bookmarks_fts)
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *b)
	}
	return results, rows.Err()
}

func (s *Store) likeSearch(ctx context.Context, query string, limit int) ([]Bookmark, error) {
	pattern := "%" + escapeLike(query) + "%"
	sqlQuery := `SELECT ` + bookmarkColumns + ` FROM bookmarks
		WHERE description LIKE ? ESCAPE '\' OR extended LIKE ? ESCAPE '\'
			OR tags LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\'
		ORDER BY synced_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, sqlQuery, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *b)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
