// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides hierarchical, persisted configuration
// resolution for multi-user lab applications.
//
// Five fixed scopes layer on top of each other, each with a fixed
// precedence level: install (10), user (20), lab (30), project (40)
// and runtime (50). Higher wins. Keys are dot-separated paths into
// nested trees ("ui.theme", "analysis.video.fps").
//
// # Key Types
//
//   - Scope: closed enum of the five configuration layers
//   - Resolver: precedence-ordered reads, persisted writes, scope
//     lifecycle (activate/deactivate, export/import, change hashing)
//   - ScopeInfo: read-only snapshot of one scope
//
// # Resolution
//
// A hierarchical Get scans active scopes from highest to lowest
// precedence and returns the first value found; absence is reported
// through the caller-supplied default, never an error. Scoped reads
// address a single layer and ignore precedence entirely.
//
// # Persistence
//
// Writes persist to the SQLite scope store before the in-memory tree
// is touched, so memory never runs ahead of disk. Reads resolve purely
// from memory; trees are hydrated once at Open and again on import or
// when the optional database watcher observes an external change.
//
// # Usage
//
// The composition root constructs a resolver and may install it as the
// process default for the convenience functions:
//
//	resolver, err := config.Open("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer resolver.Close()
//	config.SetDefault(resolver)
//
//	theme := config.GetConfig("ui.theme", "dark")
package config
