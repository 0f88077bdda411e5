package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/user/pinsync/internal/syncer"
)

type Store struct {
	db *sql.DB
	// fts is false when the sqlite3 driver was built without FTS5
	// (missing the sqlite_fts5 build tag); search then falls back to LIKE.
	fts bool
}

// NewStore opens or creates the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		description TEXT NOT NULL UNIQUE,
		extended TEXT,
		tags TEXT,
		path TEXT NOT NULL,
		posted_at TIMESTAMP,
		synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_synced_at ON bookmarks(synced_at);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	return s.createFTSTable()
}

func (s *Store) createFTSTable() error {
	var tableName string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='bookmarks_fts'
	`).Scan(&tableName)
	if err == nil {
		s.fts = true
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS bookmarks_fts USING fts5(
		description, extended, tags, url,
		content='bookmarks',
		content_rowid='rowid'
	);

	CREATE TRIGGER IF NOT EXISTS bookmarks_ai AFTER INSERT ON bookmarks BEGIN
		INSERT INTO bookmarks_fts(rowid, description, extended, tags, url)
		VALUES (new.rowid, new.description, new.extended, new.tags, new.url);
	END;

	CREATE TRIGGER IF NOT EXISTS bookmarks_ad AFTER DELETE ON bookmarks BEGIN
		INSERT INTO bookmarks_fts(bookmarks_fts, rowid, description, extended, tags, url)
		VALUES ('delete', old.rowid, old.description, old.extended, old.tags, old.url);
	END;

	CREATE TRIGGER IF NOT EXISTS bookmarks_au AFTER UPDATE ON bookmarks BEGIN
		INSERT INTO bookmarks_fts(bookmarks_fts, rowid, description, extended, tags, url)
		VALUES ('delete', old.rowid, old.description, old.extended, old.tags, old.url);
		INSERT INTO bookmarks_fts(rowid, description, extended, tags, url)
		VALUES (new.rowid, new.description, new.extended, new.tags, new.url);
	END;
	`

	if _, err := s.db.Exec(schema); err != nil {
		if strings.Contains(err.Error(), "no such module: fts5") {
			return nil
		}
		return err
	}
	s.fts = true

	// Populate FTS table with existing data
	_, err = s.db.Exec(`
		INSERT INTO bookmarks_fts(rowid, description, extended, tags, url)
		SELECT rowid, description, extended, tags, url FROM bookmarks
	`)
	return err
}

// generateID hashes the identity key, which is the description text.
func generateID(description string) string {
	hash := sha256.Sum256([]byte(description))
	return hex.EncodeToString(hash[:8])
}

// RecordArtifact upserts the ledger row for an artifact produced by a sync.
// isNew is false when an earlier run already recorded the same identity.
func (s *Store) RecordArtifact(ctx context.Context, a syncer.Artifact) (bool, error) {
	b := &Bookmark{
		URL:         a.Bookmark.URL,
		Description: a.Bookmark.Description,
		Extended:    a.Bookmark.Extended,
		Tags:        strings.Join(a.Bookmark.Tags, " "),
		Path:        a.Path,
		PostedAt:    a.Bookmark.Time,
		SyncedAt:    a.SyncedAt,
	}
	return s.UpsertReturningNew(ctx, b)
}

// UpsertReturningNew inserts or updates a bookmark and returns true if it was a new insert.
func (s *Store) UpsertReturningNew(ctx context.Context, b *Bookmark) (bool, error) {
	if b.ID == "" {
		b.ID = generateID(b.Description)
	}
	if b.SyncedAt.IsZero() {
		b.SyncedAt = time.Now()
	}

	var existingID string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM bookmarks WHERE description = ?`, b.Description).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	isNew := errors.Is(err, sql.ErrNoRows)

	query := `
	INSERT INTO bookmarks (id, url, description, extended, tags, path, posted_at, synced_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(description) DO UPDATE SET
		url = excluded.url,
		extended = excluded.extended,
		tags = excluded.tags,
		path = excluded.path,
		posted_at = COALESCE(excluded.posted_at, bookmarks.posted_at),
		synced_at = excluded.synced_at
	`

	var postedAt interface{}
	if !b.PostedAt.IsZero() {
		postedAt = b.PostedAt.UTC()
	}

	_, err = s.db.ExecContext(ctx, query,
		b.ID, b.URL, b.Description, b.Extended, b.Tags, b.Path, postedAt, b.SyncedAt.UTC(),
	)
	return isNew, err
}

const bookmarkColumns = `id, url, description, extended, tags, path, posted_at, synced_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (*Bookmark, error) {
	var b Bookmark
	var extended, tags sql.NullString
	var postedAt sql.NullTime
	if err := row.Scan(&b.ID, &b.URL, &b.Description, &extended, &tags, &b.Path, &postedAt, &b.SyncedAt); err != nil {
		return nil, err
	}
	b.Extended = extended.String
	b.Tags = tags.String
	if postedAt.Valid {
		b.PostedAt = postedAt.Time
	}
	return &b, nil
}

// List returns the most recently synced bookmarks first.
func (s *Store) List(ctx context.Context, limit int) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks ORDER BY synced_at DESC, description LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count, err
}

func (s *Store) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (s *Store) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`, key, value)
	return err
}
