// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jeranaias/labconfig/internal/pathtree"
)

// =============================================================================
// EFFECTIVE CONFIGURATION & CHANGE HASH
// =============================================================================

// EffectiveConfig folds every active scope from lowest to highest
// precedence into one merged tree, so higher-precedence scopes
// overwrite lower ones key by key. The result is a deep copy.
func (r *Resolver) EffectiveConfig() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.effectiveConfigLocked()
}

// effectiveConfigLocked builds the merged tree. Caller must hold at
// least the read lock.
func (r *Resolver) effectiveConfigLocked() map[string]any {
	merged := make(map[string]any)
	for _, scope := range Scopes() { // ascending precedence
		state := r.scopes[scope]
		if state == nil || !state.active {
			continue
		}
		pathtree.Merge(merged, state.data)
	}
	return merged
}

// ConfigHash returns the SHA-256 hex digest of the effective
// configuration's canonical JSON encoding (encoding/json emits map
// keys sorted). Callers use it to cheaply detect "has anything
// changed" without diffing trees. The digest is cached until the next
// successful mutation on any scope.
func (r *Resolver) ConfigHash() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hash != "" {
		return r.hash, nil
	}

	encoded, err := json.Marshal(r.effectiveConfigLocked())
	if err != nil {
		return "", fmt.Errorf("%w: encode effective config: %v", ErrSerialization, err)
	}

	digest := sha256.Sum256(encoded)
	r.hash = hex.EncodeToString(digest[:])
	return r.hash, nil
}
