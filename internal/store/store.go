// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/labconfig/internal/pathtree"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrPersistence indicates a storage I/O failure during a write
	// transaction. The transaction has been rolled back.
	ErrPersistence = errors.New("persistence error")

	// ErrSerialization indicates a value that could not be JSON-encoded
	// for storage.
	ErrSerialization = errors.New("serialization error")
)

// =============================================================================
// SCOPE STORE
// =============================================================================

// Store persists configuration scopes in a single SQLite database file.
// It holds one connection for its entire lifetime; callers must Close it.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the configuration database at path
// and initializes the schema. Safe to call on every startup.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON", // required for entries ON DELETE CASCADE
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates tables and indexes if absent and records the
// baseline migration row. Idempotent.
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO migrations (name, applied_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		baselineMigration, time.Now().Unix(),
	)
	return err
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// SCOPE ROWS
// =============================================================================

// ScopeMeta is the persisted metadata of one scope row.
type ScopeMeta struct {
	Name      string
	Level     int
	Path      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertScope inserts the scope row if it does not exist yet. Existing
// rows (including their active flag and path) are left untouched.
func (s *Store) UpsertScope(name string, level int) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(
		`INSERT INTO scopes (name, level, path, active, created_at, updated_at)
		 VALUES (?, ?, NULL, 1, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, level, now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert scope %q: %v", ErrPersistence, name, err)
	}
	return nil
}

// AllScopeMeta returns the metadata of every scope row.
func (s *Store) AllScopeMeta() ([]ScopeMeta, error) {
	rows, err := s.db.Query(
		`SELECT name, level, COALESCE(path, ''), active, created_at, updated_at
		 FROM scopes ORDER BY level`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: load scopes: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var metas []ScopeMeta
	for rows.Next() {
		var m ScopeMeta
		var active int
		var created, updated int64
		if err := rows.Scan(&m.Name, &m.Level, &m.Path, &active, &created, &updated); err != nil {
			return nil, fmt.Errorf("%w: scan scope row: %v", ErrPersistence, err)
		}
		m.Active = active != 0
		m.CreatedAt = time.Unix(created, 0)
		m.UpdatedAt = time.Unix(updated, 0)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// SetScopeActive updates the active flag of a scope row. Entries are
// untouched; deactivation is a soft disable.
func (s *Store) SetScopeActive(name string, active bool) error {
	flag := 0
	if active {
		flag = 1
	}
	_, err := s.db.Exec(
		`UPDATE scopes SET active = ?, updated_at = ? WHERE name = ?`,
		flag, time.Now().Unix(), name,
	)
	if err != nil {
		return fmt.Errorf("%w: set scope %q active=%v: %v", ErrPersistence, name, active, err)
	}
	return nil
}

// SetScopePath updates the filesystem path metadata of a scope row.
func (s *Store) SetScopePath(name, path string) error {
	_, err := s.db.Exec(
		`UPDATE scopes SET path = ?, updated_at = ? WHERE name = ?`,
		path, time.Now().Unix(), name,
	)
	if err != nil {
		return fmt.Errorf("%w: set scope %q path: %v", ErrPersistence, name, err)
	}
	return nil
}

// =============================================================================
// ENTRY ROWS
// =============================================================================

// LoadScopeData reads every entry of the named scope into a fresh tree,
// most recently updated first. Rows whose stored JSON fails to decode
// are logged and skipped so one corrupted value never blocks a scope
// from loading.
func (s *Store) LoadScopeData(name string) (map[string]any, error) {
	rows, err := s.db.Query(
		`SELECT key_path, value_json FROM entries
		 WHERE scope = ? ORDER BY updated_at DESC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: load scope %q: %v", ErrPersistence, name, err)
	}
	defer rows.Close()

	tree := make(map[string]any)
	for rows.Next() {
		var keyPath, valueJSON string
		if err := rows.Scan(&keyPath, &valueJSON); err != nil {
			return nil, fmt.Errorf("%w: scan entry row for scope %q: %v", ErrPersistence, name, err)
		}

		var value any
		if err := json.Unmarshal([]byte(valueJSON), &value); err != nil {
			log.Printf("warning: skipping corrupted entry scope=%s key=%s: %v", name, keyPath, err)
			continue
		}
		if err := pathtree.Set(tree, keyPath, value); err != nil {
			log.Printf("warning: skipping entry with bad key path scope=%s key=%s: %v", name, keyPath, err)
		}
	}
	return tree, rows.Err()
}

// PersistEntry stores value at (scope, keyPath) with a refreshed
// timestamp. Writes are structural: rows at the path itself, below it,
// and on its ancestor chain are removed first, so the table mirrors
// the in-memory rule that a write replaces whatever shape was there.
// Map values are stored as one row per leaf. Failures roll back and
// propagate.
func (s *Store) PersistEntry(scope, keyPath string, value any) error {
	rows := map[string]any{keyPath: value}
	if tree, ok := value.(map[string]any); ok {
		leaves := pathtree.Flatten(tree)
		if len(leaves) > 0 {
			rows = make(map[string]any, len(leaves))
			for leafPath, leafValue := range leaves {
				rows[keyPath+"."+leafPath] = leafValue
			}
		}
		// An empty subtree keeps its single row so it survives reload
	}

	encoded := make(map[string]string, len(rows))
	for rowPath, rowValue := range rows {
		data, err := json.Marshal(rowValue)
		if err != nil {
			return fmt.Errorf("%w: encode scope=%s key=%s: %v", ErrSerialization, scope, rowPath, err)
		}
		encoded[rowPath] = string(data)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin write scope=%s key=%s: %v", ErrPersistence, scope, keyPath, err)
	}
	defer tx.Rollback()

	// substr comparisons, not LIKE: key paths may contain _ or %,
	// which LIKE would treat as wildcards
	_, err = tx.Exec(
		`DELETE FROM entries WHERE scope = ?1
		   AND (key_path = ?2
		     OR substr(key_path, 1, length(?2) + 1) = ?2 || '.'
		     OR substr(?2, 1, length(key_path) + 1) = key_path || '.')`,
		scope, keyPath,
	)
	if err != nil {
		return fmt.Errorf("%w: clear conflicting rows scope=%s key=%s: %v", ErrPersistence, scope, keyPath, err)
	}

	now := time.Now().Unix()
	for rowPath, valueJSON := range encoded {
		_, err = tx.Exec(
			`INSERT INTO entries (scope, key_path, value_json, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			scope, rowPath, valueJSON, now, now,
		)
		if err != nil {
			return fmt.Errorf("%w: write scope=%s key=%s: %v", ErrPersistence, scope, rowPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit scope=%s key=%s: %v", ErrPersistence, scope, keyPath, err)
	}
	return nil
}

// DeleteEntry removes the (scope, keyPath) row and everything stored
// below it. Missing rows are a no-op.
func (s *Store) DeleteEntry(scope, keyPath string) error {
	_, err := s.db.Exec(
		`DELETE FROM entries WHERE scope = ?1
		   AND (key_path = ?2
		     OR substr(key_path, 1, length(?2) + 1) = ?2 || '.')`,
		scope, keyPath,
	)
	if err != nil {
		return fmt.Errorf("%w: delete scope=%s key=%s: %v", ErrPersistence, scope, keyPath, err)
	}
	return nil
}

// ClearScope removes every entry row of the named scope. The scope row
// itself stays.
func (s *Store) ClearScope(scope string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE scope = ?`, scope)
	if err != nil {
		return fmt.Errorf("%w: clear scope %q: %v", ErrPersistence, scope, err)
	}
	return nil
}
