// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists parsed highlights in a local SQLite database
// with a full-text index, so a collection of clippings can be searched
// after conversion.
//
// The full-text index uses SQLite's FTS5 extension, which go-sqlite3 only
// compiles in under the sqlite_fts5 build tag. Build and test with
// -tags sqlite_fts5 (the mage targets pass it).
package library

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/highlights-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "highlights.db"
)

// Store manages the library SQLite database.
type Store struct {
	db         *sql.DB
	libraryDir string
	maxResults int
}

// NewStore opens or creates the library database at
// libraryDir/index/highlights.db, creating the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.LibraryDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		libraryDir: cfg.LibraryDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			UNIQUE(title, author)
		)`,
		`CREATE TABLE IF NOT EXISTS highlights (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			book_id INTEGER NOT NULL REFERENCES books(id),
			position INTEGER NOT NULL,
			attribution TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_highlights_book_id ON highlights(book_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='highlights_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE highlights_fts USING fts5(text, content=highlights, content_rowid=rowid)`,
			`CREATE TRIGGER highlights_ai AFTER INSERT ON highlights BEGIN
				INSERT INTO highlights_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER highlights_ad AFTER DELETE ON highlights BEGIN
				INSERT INTO highlights_fts(highlights_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER highlights_au AFTER UPDATE ON highlights BEGIN
				INSERT INTO highlights_fts(highlights_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO highlights_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a library ingest run.
type IngestSummary struct {
	Books      int
	Highlights int
	Failed     int
}

// Ingest stores parsed books in the library. A book already present (same
// title and author) has its highlights replaced, so re-ingesting a newer
// export is idempotent. Per-book progress goes to w; one book's failure
// does not abort the rest.
func (s *Store) Ingest(ctx context.Context, books []*types.Book, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, book := range books {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if err := s.ingestBook(ctx, book); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", book.Title, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed %s (%d highlights)\n", book.Title, len(book.Highlights))
		summary.Books++
		summary.Highlights += len(book.Highlights)
	}

	fmt.Fprintf(w, "\nindexed: %d books, %d highlights, failed: %d\n",
		summary.Books, summary.Highlights, summary.Failed)
	return summary, nil
}

func (s *Store) ingestBook(ctx context.Context, book *types.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO books (title, author) VALUES (?, ?)
		 ON CONFLICT(title, author) DO NOTHING`,
		book.Title, book.Author,
	); err != nil {
		return fmt.Errorf("upserting book: %w", err)
	}

	var bookID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM books WHERE title = ? AND author = ?`,
		book.Title, book.Author,
	).Scan(&bookID); err != nil {
		return fmt.Errorf("resolving book id: %w", err)
	}

	// Replace the book's highlights wholesale.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM highlights WHERE book_id = ?`, bookID,
	); err != nil {
		return fmt.Errorf("deleting old highlights: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO highlights (book_id, position, attribution, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range book.Highlights {
		if _, err := stmt.ExecContext(ctx, bookID, i, h.Attribution, h.Text); err != nil {
			return fmt.Errorf("inserting highlight %d: %w", i, err)
		}
	}

	return tx.Commit()
}
