// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"sync"
)

// =============================================================================
// PROCESS-DEFAULT RESOLVER (FACADE)
// =============================================================================

// The facade binds the package-level convenience functions to one
// resolver chosen by the application's composition root. Nothing here
// constructs a resolver implicitly: tests and embedders can run any
// number of independent resolvers and never touch the default.

var (
	defaultResolver *Resolver
	defaultMu       sync.RWMutex
)

// SetDefault installs the process-default resolver used by GetConfig,
// SetConfig and DeleteConfig. Thread-safe.
func SetDefault(r *Resolver) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultResolver = r
}

// Default returns the process-default resolver, or nil when none has
// been installed.
func Default() *Resolver {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultResolver
}

// ResetDefaultForTesting clears the default resolver between tests.
func ResetDefaultForTesting() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultResolver = nil
}

// GetConfig resolves key hierarchically through the default resolver.
// Without an installed resolver it returns def.
func GetConfig(key string, def any) any {
	r := Default()
	if r == nil {
		return def
	}
	return r.Get(key, def)
}

// GetConfigIn looks up key inside one scope through the default
// resolver. Without an installed resolver it returns def.
func GetConfigIn(scope Scope, key string, def any) any {
	r := Default()
	if r == nil {
		return def
	}
	return r.GetIn(scope, key, def)
}

// SetConfig persists value at key in the user scope through the
// default resolver.
func SetConfig(key string, value any) error {
	r := Default()
	if r == nil {
		return fmt.Errorf("no default resolver installed")
	}
	return r.Set(ScopeUser, key, value)
}

// SetConfigIn persists value at key in the given scope through the
// default resolver.
func SetConfigIn(scope Scope, key string, value any) error {
	r := Default()
	if r == nil {
		return fmt.Errorf("no default resolver installed")
	}
	return r.Set(scope, key, value)
}

// DeleteConfig removes key from the given scope through the default
// resolver.
func DeleteConfig(scope Scope, key string) error {
	r := Default()
	if r == nil {
		return fmt.Errorf("no default resolver installed")
	}
	return r.Delete(scope, key)
}
