// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jeranaias/labconfig/internal/pathtree"
	"github.com/jeranaias/labconfig/internal/store"
)

// Errors surfaced from the persistence layer, re-exported so callers
// depend on this package alone.
var (
	ErrPersistence   = store.ErrPersistence
	ErrSerialization = store.ErrSerialization
	ErrInvalidPath   = pathtree.ErrInvalidPath
)

// =============================================================================
// RESOLVER
// =============================================================================

// scopeState is one scope's in-memory layer.
type scopeState struct {
	data   map[string]any
	active bool
	path   string // optional filesystem location, metadata only
}

// Resolver merges the five configuration scopes by precedence and
// keeps them durable through the scope store. All methods are
// synchronized internally; cross-process coordination is delegated to
// SQLite's own locking.
type Resolver struct {
	mu     sync.RWMutex
	store  *store.Store
	scopes map[Scope]*scopeState

	// cached effective-config hash, "" when stale
	hash string

	watcher *dbWatcher
	closed  bool
}

// Open constructs a resolver against the database file at dbPath. An
// empty dbPath falls back to the standard location (env var, marker
// file, platform app-data directory). All five scopes are created
// idempotently and hydrated from the entries table.
func Open(dbPath string) (*Resolver, error) {
	resolved, err := store.ResolvePath(dbPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(resolved)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		store:  st,
		scopes: make(map[Scope]*scopeState, len(Scopes())),
	}

	for _, scope := range Scopes() {
		if err := st.UpsertScope(scope.String(), scope.Level()); err != nil {
			st.Close()
			return nil, err
		}
	}

	if err := r.hydrate(); err != nil {
		st.Close()
		return nil, err
	}

	return r, nil
}

// hydrate reloads every scope's metadata and tree from the store.
// Caller must hold the write lock (or be the constructor).
func (r *Resolver) hydrate() error {
	metas, err := r.store.AllScopeMeta()
	if err != nil {
		return err
	}

	scopes := make(map[Scope]*scopeState, len(metas))
	for _, meta := range metas {
		scope := Scope(meta.Name)
		if !scope.Valid() {
			continue // stray row from another tool version
		}
		data, err := r.store.LoadScopeData(meta.Name)
		if err != nil {
			return err
		}
		scopes[scope] = &scopeState{
			data:   data,
			active: meta.Active,
			path:   meta.Path,
		}
	}

	// Guarantee a state for every known scope even on a fresh database
	for _, scope := range Scopes() {
		if _, ok := scopes[scope]; !ok {
			scopes[scope] = &scopeState{data: make(map[string]any), active: true}
		}
	}

	r.scopes = scopes
	r.hash = ""
	return nil
}

// Close stops the change watcher and releases the database handle.
// Safe to call once; the resolver is unusable afterwards.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.watcher != nil {
		r.watcher.stop()
		r.watcher = nil
	}
	return r.store.Close()
}

// DatabasePath returns the backing database file path.
func (r *Resolver) DatabasePath() string {
	return r.store.Path()
}

// =============================================================================
// READS
// =============================================================================

// Get resolves key across all active scopes from highest to lowest
// precedence and returns the first non-nil hit, or def when no active
// scope defines the key. Absence is never an error.
func (r *Resolver) Get(key string, def any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, scope := range r.activeByPrecedence() {
		tree := r.scopes[scope].data
		if !pathtree.Has(tree, key) {
			continue
		}
		if value := pathtree.Get(tree, key, nil); value != nil {
			return cloneIfTree(value)
		}
	}
	return def
}

// GetIn looks up key inside a single scope, ignoring precedence.
// Deactivated scopes still answer: deactivation excludes a scope from
// hierarchical reads only, its data stays intact. Unknown scopes and
// missing keys yield def.
func (r *Resolver) GetIn(scope Scope, key string, def any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.scopes[scope]
	if !ok {
		return def
	}
	if !pathtree.Has(state.data, key) {
		return def
	}
	return cloneIfTree(pathtree.Get(state.data, key, nil))
}

// activeByPrecedence returns active scopes sorted by level descending.
// Caller must hold at least the read lock.
func (r *Resolver) activeByPrecedence() []Scope {
	var out []Scope
	for scope, state := range r.scopes {
		if state.active {
			out = append(out, scope)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Level() > out[j].Level()
	})
	return out
}

// cloneIfTree deep-copies map and slice results so callers cannot
// reach into resolver-internal state.
func cloneIfTree(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return pathtree.Clone(v)
	case []any:
		cloned := make([]any, len(v))
		for i, elem := range v {
			cloned[i] = cloneIfTree(elem)
		}
		return cloned
	default:
		return value
	}
}

// =============================================================================
// WRITES
// =============================================================================

// Set stores value at key inside scope and persists it. The in-memory
// tree is only mutated after the store write succeeds, so memory never
// runs ahead of disk.
func (r *Resolver) Set(scope Scope, key string, value any) error {
	return r.set(scope, key, value, true)
}

// SetTransient stores value at key inside scope in memory only. A
// fresh resolver against the same database will not see it.
func (r *Resolver) SetTransient(scope Scope, key string, value any) error {
	return r.set(scope, key, value, false)
}

func (r *Resolver) set(scope Scope, key string, value any, persist bool) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	if _, err := pathtree.SplitPath(key); err != nil {
		return err
	}

	normalized, err := normalizeValue(value)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if persist {
		if err := r.store.PersistEntry(scope.String(), key, normalized); err != nil {
			return err
		}
	}

	if err := pathtree.Set(r.scopes[scope].data, key, normalized); err != nil {
		return err
	}
	r.hash = ""
	return nil
}

// Delete removes key from scope, both in memory and in storage. A
// missing key is a no-op in either place.
func (r *Resolver) Delete(scope Scope, key string) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	if _, err := pathtree.SplitPath(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if err := r.store.DeleteEntry(scope.String(), key); err != nil {
		return err
	}
	if err := pathtree.Delete(r.scopes[scope].data, key); err != nil {
		return err
	}
	r.hash = ""
	return nil
}

// normalizeValue round-trips value through JSON so trees hold only
// JSON-native types (nil, bool, float64, string, []any,
// map[string]any). Non-encodable values fail here, before any
// mutation, even for transient writes.
func normalizeValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return normalized, nil
}

// =============================================================================
// SCOPE LIFECYCLE
// =============================================================================

// ActivateScope re-enables a scope for hierarchical reads and the
// aggregate hash.
func (r *Resolver) ActivateScope(scope Scope) error {
	return r.setActive(scope, true)
}

// DeactivateScope excludes a scope from hierarchical reads and the
// aggregate hash. Its in-memory data and stored entries are untouched.
func (r *Resolver) DeactivateScope(scope Scope) error {
	return r.setActive(scope, false)
}

func (r *Resolver) setActive(scope Scope, active bool) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if err := r.store.SetScopeActive(scope.String(), active); err != nil {
		return err
	}
	r.scopes[scope].active = active
	r.hash = ""
	return nil
}

// SetScopePath records a filesystem location on the scope row. This is
// metadata only and has no effect on the scope's key/value data.
func (r *Resolver) SetScopePath(scope Scope, path string) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if err := r.store.SetScopePath(scope.String(), path); err != nil {
		return err
	}
	r.scopes[scope].path = path
	return nil
}

// ScopePath returns the filesystem location recorded on the scope row.
func (r *Resolver) ScopePath(scope Scope) (string, error) {
	if !scope.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scopes[scope].path, nil
}

// =============================================================================
// INTROSPECTION
// =============================================================================

// ScopeInfo is a read-only snapshot of one scope.
type ScopeInfo struct {
	Name   Scope          `json:"name"`
	Level  int            `json:"level"`
	Path   string         `json:"path,omitempty"`
	Active bool           `json:"active"`
	Data   map[string]any `json:"data"`
}

// ScopeData returns a deep copy of the scope's tree.
func (r *Resolver) ScopeData(scope Scope) (map[string]any, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return pathtree.Clone(r.scopes[scope].data), nil
}

// AllScopes returns snapshots of every scope, keyed by name, ordered
// access left to the caller. Data trees are deep copies.
func (r *Resolver) AllScopes() map[Scope]ScopeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Scope]ScopeInfo, len(r.scopes))
	for scope, state := range r.scopes {
		out[scope] = ScopeInfo{
			Name:   scope,
			Level:  scope.Level(),
			Path:   state.path,
			Active: state.active,
			Data:   pathtree.Clone(state.data),
		}
	}
	return out
}
