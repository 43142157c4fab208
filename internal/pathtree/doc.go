// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pathtree implements dot-path addressing into nested
// configuration trees.
//
// A tree is a map[string]any whose values are either nested maps or
// JSON-native leaf values (nil, bool, float64, string, []any,
// map[string]any). All operations are pure functions over such trees:
// they never panic on a missing path and report absence through a
// caller-supplied default value.
//
// # Key Paths
//
// A key path is a non-empty sequence of non-empty segments joined by
// dots, e.g. "ui.theme" or "analysis.video.fps". SplitPath validates
// the shape; Set, Get and Delete accept pre-validated paths.
//
// # Shadowing Policy
//
// Setting a deeper path under an existing scalar replaces the scalar
// with a map, and setting a shallower path over an existing subtree
// replaces the subtree. Last write wins, structurally.
package pathtree
