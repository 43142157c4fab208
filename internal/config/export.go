// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/jeranaias/labconfig/internal/pathtree"
	"github.com/jeranaias/labconfig/internal/util"
)

// =============================================================================
// EXPORT
// =============================================================================

// ExportScope writes a snapshot of the scope's tree to filePath.
// Files ending in .toml are TOML-encoded, everything else is
// pretty-printed JSON. The export is a pure snapshot with no side
// effects on the resolver.
func (r *Resolver) ExportScope(scope Scope, filePath string) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	r.mu.RLock()
	snapshot := pathtree.Clone(r.scopes[scope].data)
	r.mu.RUnlock()

	data, err := encodeTree(snapshot, filePath)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(filePath, data, 0644)
}

func encodeTree(tree map[string]any, filePath string) ([]byte, error) {
	if strings.HasSuffix(filePath, ".toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tree); err != nil {
			return nil, fmt.Errorf("%w: encode TOML: %v", ErrSerialization, err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode JSON: %v", ErrSerialization, err)
	}
	return data, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportScope loads a tree from filePath into scope. With merge the
// imported leaves overlay the existing tree; without it the scope's
// memory and stored rows are cleared first (after a backup snapshot).
// Every leaf goes through the normal Set path, so imports persist and
// invalidate the cached hash like any other write.
func (r *Resolver) ImportScope(scope Scope, filePath string, merge bool) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	imported, err := decodeTreeFile(filePath)
	if err != nil {
		return err
	}

	if !merge {
		if err := r.resetScope(scope); err != nil {
			return err
		}
	}

	// Deterministic order keeps repeated imports byte-stable on disk
	leaves := pathtree.Flatten(imported)
	paths := make([]string, 0, len(leaves))
	for path := range leaves {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := r.Set(scope, path, leaves[path]); err != nil {
			return err
		}
	}
	return nil
}

// decodeTreeFile reads a JSON or TOML tree file.
func decodeTreeFile(filePath string) (map[string]any, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	tree := make(map[string]any)
	if strings.HasSuffix(filePath, ".toml") {
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: decode TOML: %v", ErrSerialization, err)
		}
		return tree, nil
	}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: decode JSON: %v", ErrSerialization, err)
	}
	return tree, nil
}

// resetScope snapshots the scope's current tree next to the database,
// then clears both memory and storage. The backup guards against a
// destructive import of the wrong file.
func (r *Resolver) resetScope(scope Scope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	state := r.scopes[scope]
	if len(state.data) > 0 {
		backup := filepath.Join(
			filepath.Dir(r.store.Path()), "backups",
			fmt.Sprintf("%s-%s.json", scope, uuid.NewString()),
		)
		data, err := json.MarshalIndent(state.data, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: encode backup: %v", ErrSerialization, err)
		}
		if err := util.AtomicWriteFile(backup, data, 0644); err != nil {
			return fmt.Errorf("failed to write pre-import backup: %w", err)
		}
	}

	if err := r.store.ClearScope(scope.String()); err != nil {
		return err
	}
	state.data = make(map[string]any)
	r.hash = ""
	return nil
}
