// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable SQLite persistence for configuration
// scopes and their key/value entries.
//
// One database file holds three tables: scopes (one row per scope name
// with precedence level, optional filesystem path, and active flag),
// entries (one row per scope/key-path pair carrying the JSON-encoded
// leaf value), and a migrations table reserved for future schema
// evolution.
//
// The store owns a single long-lived connection with foreign-key
// enforcement and WAL journaling enabled. Writes run inside a
// transaction and fail fast; reads are partial-failure tolerant, so a
// single corrupted entry is logged and skipped rather than preventing
// a scope from loading.
//
// # Database Location
//
// ResolvePath picks the database file from (in priority order) an
// explicit override, the LABCONFIG_DB environment variable, a
// bootstrap marker file in the user's home directory, or a
// platform-specific application data directory.
package store
