// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1

	// baselineMigration is the name recorded in the migrations table on
	// first initialization. The table is a placeholder for future schema
	// evolution; nothing reads it today.
	baselineMigration = "0001_baseline"
)

// SQLite schema for the configuration database
const Schema = `
-- Scopes table: one row per configuration layer
CREATE TABLE IF NOT EXISTS scopes (
    name TEXT PRIMARY KEY,
    level INTEGER NOT NULL,      -- precedence, higher wins
    path TEXT,                   -- optional filesystem location (metadata only)
    active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL, -- Unix timestamp
    updated_at INTEGER NOT NULL  -- Unix timestamp
);

-- Entries table: one row per (scope, key path) leaf value
CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope TEXT NOT NULL,
    key_path TEXT NOT NULL,      -- dot-separated path, e.g. "ui.theme"
    value_json TEXT NOT NULL,    -- JSON-encoded leaf value
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE(scope, key_path),
    FOREIGN KEY(scope) REFERENCES scopes(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entries_scope_key ON entries(scope, key_path);

-- Migrations table: reserved for future schema evolution
CREATE TABLE IF NOT EXISTS migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`
