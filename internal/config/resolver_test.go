// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// newTestResolver opens a resolver against a fresh database file and
// returns it along with the file path for reopen tests.
func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "settings.db")
	r, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, dbPath
}

// =============================================================================
// SCOPE ENUM TESTS
// =============================================================================

func TestParseScope(t *testing.T) {
	for _, name := range []string{"install", "user", "lab", "project", "runtime"} {
		scope, err := ParseScope(name)
		if err != nil {
			t.Errorf("ParseScope(%q) failed: %v", name, err)
		}
		if scope.String() != name {
			t.Errorf("ParseScope(%q) = %q", name, scope)
		}
	}

	if _, err := ParseScope("global"); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("ParseScope(global) error = %v, want ErrInvalidScope", err)
	}
}

func TestScopeLevels(t *testing.T) {
	want := map[Scope]int{
		ScopeInstall: 10,
		ScopeUser:    20,
		ScopeLab:     30,
		ScopeProject: 40,
		ScopeRuntime: 50,
	}
	for scope, level := range want {
		if scope.Level() != level {
			t.Errorf("%s.Level() = %d, want %d", scope, scope.Level(), level)
		}
	}

	scopes := Scopes()
	for i := 1; i < len(scopes); i++ {
		if scopes[i-1].Level() >= scopes[i].Level() {
			t.Errorf("Scopes() not ascending at index %d", i)
		}
	}
}

// =============================================================================
// HIERARCHICAL READ TESTS
// =============================================================================

func TestGet_Precedence(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeInstall, "analysis.fps", 15); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Set(ScopeUser, "analysis.fps", 24); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Set(ScopeRuntime, "analysis.fps", 60); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Runtime wins regardless of what lower scopes hold
	if got := r.Get("analysis.fps", nil); got != float64(60) {
		t.Errorf("Get = %v, want 60 (runtime wins)", got)
	}

	if err := r.Delete(ScopeRuntime, "analysis.fps"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := r.Get("analysis.fps", nil); got != float64(24) {
		t.Errorf("Get = %v, want 24 (user after runtime removed)", got)
	}
}

func TestGet_DefaultOnMiss(t *testing.T) {
	r, _ := newTestResolver(t)

	if got := r.Get("never.set", "fallback"); got != "fallback" {
		t.Errorf("Get = %v, want fallback", got)
	}
	// Invalid paths are a soft miss too
	if got := r.Get("", "fallback"); got != "fallback" {
		t.Errorf("Get of empty key = %v, want fallback", got)
	}
}

func TestGet_NullLeafFallsThrough(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeUser, "export.format", "h5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Set(ScopeProject, "export.format", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A null in a higher scope does not shadow a real value below
	if got := r.Get("export.format", "none"); got != "h5" {
		t.Errorf("Get = %v, want h5", got)
	}
	// But the scoped read sees the null as present
	if got := r.GetIn(ScopeProject, "export.format", "none"); got != nil {
		t.Errorf("GetIn = %v, want nil leaf", got)
	}
}

func TestGetIn_IgnoresPrecedence(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeUser, "ui.theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Set(ScopeRuntime, "ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := r.GetIn(ScopeUser, "ui.theme", nil); got != "dark" {
		t.Errorf("GetIn(user) = %v, want dark", got)
	}
	if got := r.GetIn(Scope("bogus"), "ui.theme", "def"); got != "def" {
		t.Errorf("GetIn(bogus) = %v, want default", got)
	}
}

// =============================================================================
// WRITE TESTS
// =============================================================================

func TestSet_NestedShapeAndIdempotence(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeUser, "a.b.c", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Set(ScopeUser, "a.b.c", 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := r.GetIn(ScopeUser, "a.b.c", nil); got != float64(2) {
		t.Errorf("a.b.c = %v, want 2", got)
	}

	// The intermediate node is an object, not a scalar
	mid := r.GetIn(ScopeUser, "a.b", nil)
	want := map[string]any{"c": float64(2)}
	if !reflect.DeepEqual(mid, want) {
		t.Errorf("a.b = %v, want %v", mid, want)
	}
}

func TestSet_InvalidScopeBeforeMutation(t *testing.T) {
	r, _ := newTestResolver(t)

	err := r.Set(Scope("galaxy"), "a.b", 1)
	if !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("Set error = %v, want ErrInvalidScope", err)
	}

	// Nothing leaked into any scope
	for _, scope := range Scopes() {
		data, err := r.ScopeData(scope)
		if err != nil {
			t.Fatalf("ScopeData failed: %v", err)
		}
		if len(data) != 0 {
			t.Errorf("scope %s mutated by rejected write: %v", scope, data)
		}
	}

	if err := r.Delete(Scope("galaxy"), "a.b"); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("Delete error = %v, want ErrInvalidScope", err)
	}
	if err := r.ActivateScope(Scope("galaxy")); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("ActivateScope error = %v, want ErrInvalidScope", err)
	}
}

func TestSet_InvalidKeyPath(t *testing.T) {
	r, _ := newTestResolver(t)

	for _, key := range []string{"", "a..b", ".a", "a."} {
		if err := r.Set(ScopeUser, key, 1); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidPath", key, err)
		}
	}
}

func TestSet_UnencodableValue(t *testing.T) {
	r, _ := newTestResolver(t)

	err := r.Set(ScopeUser, "bad.value", make(chan int))
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("Set error = %v, want ErrSerialization", err)
	}

	// Transient writes validate encodability too
	err = r.SetTransient(ScopeUser, "bad.value", func() {})
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("SetTransient error = %v, want ErrSerialization", err)
	}
}

func TestDelete_ThenMiss(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeUser, "a.b.c", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Delete(ScopeUser, "a.b.c"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got := r.GetIn(ScopeUser, "a.b.c", "X"); got != "X" {
		t.Errorf("Get after delete = %v, want X", got)
	}

	// Deleting a key that exists nowhere is a no-op
	if err := r.Delete(ScopeUser, "a.b.c"); err != nil {
		t.Errorf("second Delete returned error: %v", err)
	}
}

// =============================================================================
// SCOPE LIFECYCLE TESTS
// =============================================================================

func TestDeactivation_ExcludesButPreserves(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeProject, "ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.DeactivateScope(ScopeProject); err != nil {
		t.Fatalf("DeactivateScope failed: %v", err)
	}

	// Hierarchical read ignores the deactivated scope
	if got := r.Get("ui.theme", "none"); got != "none" {
		t.Errorf("Get = %v, want default while project inactive", got)
	}
	// Scoped read still answers
	if got := r.GetIn(ScopeProject, "ui.theme", nil); got != "light" {
		t.Errorf("GetIn = %v, want light (data preserved)", got)
	}

	if err := r.ActivateScope(ScopeProject); err != nil {
		t.Fatalf("ActivateScope failed: %v", err)
	}
	if got := r.Get("ui.theme", "none"); got != "light" {
		t.Errorf("Get = %v, want light after reactivation", got)
	}
}

func TestEndToEnd_ThemeScenario(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeUser, "ui.theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.Set(ScopeProject, "ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := r.Get("ui.theme", nil); got != "light" {
		t.Errorf("Get = %v, want light (project over user)", got)
	}

	if err := r.DeactivateScope(ScopeProject); err != nil {
		t.Fatalf("DeactivateScope failed: %v", err)
	}
	if got := r.Get("ui.theme", nil); got != "dark" {
		t.Errorf("Get = %v, want dark after project deactivated", got)
	}
}

func TestScopePath_Metadata(t *testing.T) {
	r, dbPath := newTestResolver(t)

	if err := r.SetScopePath(ScopeProject, "/data/projects/vole-maze"); err != nil {
		t.Fatalf("SetScopePath failed: %v", err)
	}
	got, err := r.ScopePath(ScopeProject)
	if err != nil {
		t.Fatalf("ScopePath failed: %v", err)
	}
	if got != "/data/projects/vole-maze" {
		t.Errorf("ScopePath = %q", got)
	}

	// Path metadata survives a reopen
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	r2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer r2.Close()

	got, err = r2.ScopePath(ScopeProject)
	if err != nil {
		t.Fatalf("ScopePath failed: %v", err)
	}
	if got != "/data/projects/vole-maze" {
		t.Errorf("ScopePath after reopen = %q", got)
	}
}

// =============================================================================
// PERSISTENCE ROUND-TRIP TESTS
// =============================================================================

func TestPersistenceRoundTrip(t *testing.T) {
	r, dbPath := newTestResolver(t)

	if err := r.Set(ScopeUser, "a.b", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.SetTransient(ScopeUser, "tmp.only", true); err != nil {
		t.Fatalf("SetTransient failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer r2.Close()

	if got := r2.GetIn(ScopeUser, "a.b", nil); got != float64(1) {
		t.Errorf("persisted value = %v, want 1", got)
	}
	if got := r2.GetIn(ScopeUser, "tmp.only", "gone"); got != "gone" {
		t.Errorf("transient value leaked to disk: %v", got)
	}
}

func TestActiveFlag_PersistsAcrossReopen(t *testing.T) {
	r, dbPath := newTestResolver(t)

	if err := r.Set(ScopeLab, "rig.camera", "flir"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := r.DeactivateScope(ScopeLab); err != nil {
		t.Fatalf("DeactivateScope failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer r2.Close()

	if got := r2.Get("rig.camera", "none"); got != "none" {
		t.Errorf("Get = %v, deactivation should survive reopen", got)
	}
	if got := r2.GetIn(ScopeLab, "rig.camera", nil); got != "flir" {
		t.Errorf("GetIn = %v, lab data should survive reopen", got)
	}
}

// =============================================================================
// INTROSPECTION TESTS
// =============================================================================

func TestScopeData_DefensiveCopy(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Set(ScopeUser, "a.b", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := r.ScopeData(ScopeUser)
	if err != nil {
		t.Fatalf("ScopeData failed: %v", err)
	}
	data["a"].(map[string]any)["b"] = float64(99)

	if got := r.GetIn(ScopeUser, "a.b", nil); got != float64(1) {
		t.Errorf("resolver state mutated through ScopeData copy: %v", got)
	}
}

func TestAllScopes(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.DeactivateScope(ScopeRuntime); err != nil {
		t.Fatalf("DeactivateScope failed: %v", err)
	}

	infos := r.AllScopes()
	if len(infos) != 5 {
		t.Fatalf("AllScopes count = %d, want 5", len(infos))
	}
	if infos[ScopeRuntime].Active {
		t.Error("runtime should report inactive")
	}
	if infos[ScopeInstall].Level != 10 {
		t.Errorf("install level = %d, want 10", infos[ScopeInstall].Level)
	}

	// Returned trees are copies
	infos[ScopeUser].Data["injected"] = true
	if got := r.GetIn(ScopeUser, "injected", "clean"); got != "clean" {
		t.Error("resolver state mutated through AllScopes copy")
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestClosedResolver(t *testing.T) {
	r, _ := newTestResolver(t)

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent
	if err := r.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}

	if err := r.Set(ScopeUser, "a", 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
	if err := r.DeactivateScope(ScopeUser); !errors.Is(err, ErrClosed) {
		t.Errorf("DeactivateScope after Close = %v, want ErrClosed", err)
	}
}
