// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pathtree

// =============================================================================
// MERGE / CLONE / FLATTEN
// =============================================================================

// Merge recursively merges src into dst. When both sides hold a map for
// the same key the maps are merged; otherwise the src value overwrites
// wholesale. Scalars and arrays are never deep-merged, only replaced.
// src values are deep-copied so dst never aliases src.
func Merge(dst, src map[string]any) {
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			Merge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
}

// Clone returns a deep copy of the tree. Callers can mutate the result
// without affecting the original.
func Clone(tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	out := make(map[string]any, len(tree))
	for key, val := range tree {
		out[key] = cloneValue(val)
	}
	return out
}

// cloneValue deep-copies maps and slices; scalars are returned as-is.
func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return Clone(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return value
	}
}

// Flatten returns every leaf of the tree keyed by its full dot path.
// An empty subtree is itself a leaf, so flattening loses no nodes.
func Flatten(tree map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", tree)
	return out
}

func flattenInto(out map[string]any, prefix string, node map[string]any) {
	for key, val := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := val.(map[string]any); ok && len(child) > 0 {
			flattenInto(out, path, child)
			continue
		}
		out[path] = val
	}
}
