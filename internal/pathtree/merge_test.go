// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pathtree

import (
	"reflect"
	"testing"
)

// =============================================================================
// MERGE TESTS
// =============================================================================

func TestMerge_MapsMergeRecursively(t *testing.T) {
	dst := map[string]any{
		"ui": map[string]any{"theme": "dark", "compact": false},
	}
	src := map[string]any{
		"ui": map[string]any{"theme": "light"},
	}

	Merge(dst, src)

	want := map[string]any{
		"ui": map[string]any{"theme": "light", "compact": false},
	}
	if !reflect.DeepEqual(dst, want) {
		t.Errorf("Merge result = %v, want %v", dst, want)
	}
}

func TestMerge_ScalarsAndArraysReplaceWholesale(t *testing.T) {
	dst := map[string]any{
		"tags": []any{"a", "b"},
		"n":    float64(1),
	}
	src := map[string]any{
		"tags": []any{"c"},
		"n":    map[string]any{"nested": true},
	}

	Merge(dst, src)

	if !reflect.DeepEqual(dst["tags"], []any{"c"}) {
		t.Errorf("tags = %v, want [c] (arrays replace, not append)", dst["tags"])
	}
	if !reflect.DeepEqual(dst["n"], map[string]any{"nested": true}) {
		t.Errorf("n = %v, want nested map", dst["n"])
	}
}

func TestMerge_DoesNotAliasSource(t *testing.T) {
	dst := make(map[string]any)
	src := map[string]any{
		"a": map[string]any{"b": float64(1)},
	}

	Merge(dst, src)

	// Mutating src afterwards must not leak into dst
	src["a"].(map[string]any)["b"] = float64(99)
	if got := Get(dst, "a.b", nil); got != float64(1) {
		t.Errorf("dst aliases src: got %v, want 1", got)
	}
}

// =============================================================================
// CLONE TESTS
// =============================================================================

func TestClone(t *testing.T) {
	orig := map[string]any{
		"a": map[string]any{"b": float64(1)},
		"list": []any{
			map[string]any{"x": true},
		},
	}

	clone := Clone(orig)
	if !reflect.DeepEqual(clone, orig) {
		t.Fatalf("Clone = %v, want %v", clone, orig)
	}

	clone["a"].(map[string]any)["b"] = float64(2)
	clone["list"].([]any)[0].(map[string]any)["x"] = false

	if got := Get(orig, "a.b", nil); got != float64(1) {
		t.Errorf("original mutated through clone: a.b = %v", got)
	}
	if orig["list"].([]any)[0].(map[string]any)["x"] != true {
		t.Error("original mutated through cloned slice element")
	}
}

func TestClone_Nil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Clone(nil) should return nil")
	}
}

// =============================================================================
// FLATTEN TESTS
// =============================================================================

func TestFlatten(t *testing.T) {
	tree := map[string]any{
		"ui": map[string]any{
			"theme": "dark",
			"panel": map[string]any{"width": float64(80)},
		},
		"empty": map[string]any{},
		"top":   float64(1),
	}

	got := Flatten(tree)

	want := map[string]any{
		"ui.theme":       "dark",
		"ui.panel.width": float64(80),
		"empty":          map[string]any{},
		"top":            float64(1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}
