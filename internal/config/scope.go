// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidScope indicates an unknown scope name. Raised before any
	// mutation takes place.
	ErrInvalidScope = errors.New("invalid configuration scope")

	// ErrClosed indicates a resolver whose Close has already run.
	ErrClosed = errors.New("resolver is closed")
)

// =============================================================================
// SCOPES
// =============================================================================

// Scope identifies one configuration layer. The set of scopes is
// closed; names arriving from user input must pass through ParseScope.
type Scope string

const (
	// ScopeInstall holds installation-wide defaults.
	ScopeInstall Scope = "install"
	// ScopeUser holds per-user preferences.
	ScopeUser Scope = "user"
	// ScopeLab holds per-lab settings shared across a lab's members.
	ScopeLab Scope = "lab"
	// ScopeProject holds per-project overrides.
	ScopeProject Scope = "project"
	// ScopeRuntime holds ephemeral runtime overrides.
	ScopeRuntime Scope = "runtime"
)

// scopeLevels fixes each scope's precedence. Higher wins.
var scopeLevels = map[Scope]int{
	ScopeInstall: 10,
	ScopeUser:    20,
	ScopeLab:     30,
	ScopeProject: 40,
	ScopeRuntime: 50,
}

// Scopes returns all known scopes ordered by ascending precedence.
func Scopes() []Scope {
	return []Scope{ScopeInstall, ScopeUser, ScopeLab, ScopeProject, ScopeRuntime}
}

// Level returns the scope's fixed precedence level, or 0 for an
// unknown scope.
func (s Scope) Level() int {
	return scopeLevels[s]
}

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool {
	_, ok := scopeLevels[s]
	return ok
}

// String returns the scope name.
func (s Scope) String() string {
	return string(s)
}

// ParseScope converts a scope name from configuration or a CLI flag
// into a Scope, rejecting unknown names.
func ParseScope(name string) (Scope, error) {
	s := Scope(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q (known: install, user, lab, project, runtime)", ErrInvalidScope, name)
	}
	return s, nil
}
