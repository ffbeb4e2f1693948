// Package store persists the glyph collection and the recently
// inspected list in a SQLite database. Rows hold codepoints and their
// position only; names and attributes are re-resolved from the catalog
// on load so stale rows never surface wrong metadata.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

const (
	listCollection = "collection"
	listRecent     = "recent"
)

// Store wraps the database handle. Safe for concurrent use; SQLite
// serializes writers via the busy timeout.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	_ = os.Chmod(path, 0600)

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS glyph_lists (
		  list      TEXT    NOT NULL,
		  position  INTEGER NOT NULL,
		  codepoint INTEGER NOT NULL,
		  PRIMARY KEY (list, position)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_glyph_lists_member
		ON glyph_lists(list, codepoint);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// SaveCollection replaces the persisted collection with runes, keeping
// their order.
func (s *Store) SaveCollection(runes []rune) error {
	return s.saveList(listCollection, runes)
}

// LoadCollection returns the persisted collection in saved order.
func (s *Store) LoadCollection() ([]rune, error) {
	return s.loadList(listCollection)
}

// SaveRecent replaces the persisted recent list, most recent first.
func (s *Store) SaveRecent(runes []rune) error {
	return s.saveList(listRecent, runes)
}

// LoadRecent returns the persisted recent list, most recent first.
func (s *Store) LoadRecent() ([]rune, error) {
	return s.loadList(listRecent)
}

// saveList swaps a list's rows inside one transaction so readers never
// observe a half-written state.
func (s *Store) saveList(list string, runes []rune) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM glyph_lists WHERE list = ?", list); err != nil {
		return fmt.Errorf("failed to clear %s list: %w", list, err)
	}

	stmt, err := tx.Prepare("INSERT INTO glyph_lists (list, position, codepoint) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range runes {
		if _, err := stmt.Exec(list, i, int64(r)); err != nil {
			return fmt.Errorf("failed to insert row %d of %s list: %w", i, list, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s list: %w", list, err)
	}
	return nil
}

func (s *Store) loadList(list string) ([]rune, error) {
	rows, err := s.db.Query(
		"SELECT codepoint FROM glyph_lists WHERE list = ? ORDER BY position", list)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s list: %w", list, err)
	}
	defer rows.Close()

	var runes []rune
	for rows.Next() {
		var cp int64
		if err := rows.Scan(&cp); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", list, err)
		}
		runes = append(runes, rune(cp))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s list: %w", list, err)
	}
	return runes, nil
}
