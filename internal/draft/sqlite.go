// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/wa-formatter/pkg/types"
)

const defaultSQLitePath = "drafts/drafts.db"

// SQLiteStore keeps drafts in a local SQLite database. Each row holds the
// same JSON document the Drive backend uploads.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewSQLiteStore(cfg types.SQLiteConfig) (*SQLiteStore, error) {
	path := cfg.Path
	if path == "" {
		path = defaultSQLitePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL UNIQUE,
			document TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// List returns every stored draft sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]types.DraftEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, file_name, updated_at FROM drafts`)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var entries []types.DraftEntry
	for rows.Next() {
		var e types.DraftEntry
		var updated string
		if err := rows.Scan(&e.ID, &e.FileName, &updated); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		e.Name = DisplayName(e.FileName)
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			e.UpdatedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}

	sortEntries(entries)
	return entries, nil
}

// Save inserts the draft or replaces the document of the row with the same
// file name. The row keeps its original identifier on overwrite.
func (s *SQLiteStore) Save(ctx context.Context, name, html string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	doc, err := EncodeDocument(html)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO drafts (id, file_name, document, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(file_name) DO UPDATE SET
			document=excluded.document, updated_at=excluded.updated_at`,
		uuid.NewString(), FileName(name), string(doc), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving draft %s: %w", name, err)
	}
	return nil
}

// Load returns the rich text of the draft with the given identifier.
func (s *SQLiteStore) Load(ctx context.Context, id string) (string, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM drafts WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("loading draft %s: %w", id, err)
	}
	return DecodeDocument([]byte(doc))
}
