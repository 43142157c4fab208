// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pathtree

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned when a key path is empty or contains an
// empty segment (e.g. "a..b" or ".a").
// Use errors.Is(err, ErrInvalidPath) to check for this error.
var ErrInvalidPath = errors.New("invalid key path")

// =============================================================================
// PATH SPLITTING
// =============================================================================

// SplitPath splits a dot-separated key path into its segments.
// A valid path is a non-empty sequence of non-empty segments.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, ErrInvalidPath
		}
	}
	return segments, nil
}

// =============================================================================
// TREE OPERATIONS
// =============================================================================

// Set assigns value at the dot-separated path, creating intermediate
// map nodes as needed. An intermediate segment that currently holds a
// non-map leaf is replaced by a new map (last write wins, structurally).
func Set(tree map[string]any, path string, value any) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}

	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
	return nil
}

// Get walks the dot-separated path and returns the value found there.
// It returns def the moment any segment is missing or a non-map value
// would have to be indexed further. Get never mutates def.
func Get(tree map[string]any, path string, def any) any {
	segments, err := SplitPath(path)
	if err != nil {
		return def
	}

	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return def
		}
		node = child
	}

	value, ok := node[segments[len(segments)-1]]
	if !ok {
		return def
	}
	return value
}

// Has reports whether the path resolves to a value in the tree.
func Has(tree map[string]any, path string) bool {
	segments, err := SplitPath(path)
	if err != nil {
		return false
	}

	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return false
		}
		node = child
	}
	_, ok := node[segments[len(segments)-1]]
	return ok
}

// Delete removes the value at the dot-separated path. Missing paths
// are a no-op; empty intermediate maps are left in place.
func Delete(tree map[string]any, path string) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}

	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return nil
		}
		node = child
	}
	delete(node, segments[len(segments)-1])
	return nil
}
