// Package feed provides the SQLite-backed item list shown by the demo.
package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrInvalidCount indicates a negative item count.
var ErrInvalidCount = errors.New("invalid item count")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// Item is one row of the feed.
type Item struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// Title returns the display title of item id.
func Title(id int64) string {
	return fmt.Sprintf("Item %d", id)
}

// Store is a feed persisted in a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the feed database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("feed: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("feed: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("feed: open db: %w", err)
	}
	// Writes are serialised on a single connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("feed: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("feed: create schema: %w", err)
	}
	return nil
}

// Reset replaces the feed with items 1..n.
func (s *Store) Reset(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("feed: reset %d: %w", n, ErrInvalidCount)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
			return fmt.Errorf("feed: clear items: %w", err)
		}
		return s.insert(ctx, tx, 1, n)
	})
}

// Append adds n items after the current last one.
func (s *Store) Append(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("feed: append %d: %w", n, ErrInvalidCount)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var last int64
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM items").Scan(&last); err != nil {
			return fmt.Errorf("feed: read last id: %w", err)
		}
		return s.insert(ctx, tx, last+1, n)
	})
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, first int64, n int) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO items (id, title, created_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("feed: prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := s.now().UTC().Format(time.RFC3339Nano)
	for id := first; id < first+int64(n); id++ {
		if _, err := stmt.ExecContext(ctx, id, Title(id), createdAt); err != nil {
			return fmt.Errorf("feed: insert item %d: %w", id, err)
		}
	}
	return nil
}

// List returns every item in id order.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, created_at FROM items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("feed: list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item      Item
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("feed: scan item: %w", err)
		}
		item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("feed: parse created_at of item %d: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feed: list items: %w", err)
	}
	return items, nil
}

// Count returns the number of items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("feed: count items: %w", err)
	}
	return n, nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("feed: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("feed: commit: %w", err)
	}
	return nil
}
