// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "testing"

func TestFacade_NoDefaultInstalled(t *testing.T) {
	ResetDefaultForTesting()

	if got := GetConfig("any.key", "def"); got != "def" {
		t.Errorf("GetConfig = %v, want def", got)
	}
	if got := GetConfigIn(ScopeUser, "any.key", "def"); got != "def" {
		t.Errorf("GetConfigIn = %v, want def", got)
	}
	if err := SetConfig("any.key", 1); err == nil {
		t.Error("SetConfig should fail without a default resolver")
	}
	if err := DeleteConfig(ScopeUser, "any.key"); err == nil {
		t.Error("DeleteConfig should fail without a default resolver")
	}
}

func TestFacade_DelegatesToDefault(t *testing.T) {
	r, _ := newTestResolver(t)
	SetDefault(r)
	t.Cleanup(ResetDefaultForTesting)

	if Default() != r {
		t.Fatal("Default did not return installed resolver")
	}

	// SetConfig targets the user scope
	if err := SetConfig("ui.theme", "dark"); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if got := r.GetIn(ScopeUser, "ui.theme", nil); got != "dark" {
		t.Errorf("SetConfig wrote %v to user scope, want dark", got)
	}

	if err := SetConfigIn(ScopeRuntime, "ui.theme", "light"); err != nil {
		t.Fatalf("SetConfigIn failed: %v", err)
	}
	if got := GetConfig("ui.theme", nil); got != "light" {
		t.Errorf("GetConfig = %v, want light (runtime wins)", got)
	}
	if got := GetConfigIn(ScopeUser, "ui.theme", nil); got != "dark" {
		t.Errorf("GetConfigIn = %v, want dark", got)
	}

	if err := DeleteConfig(ScopeRuntime, "ui.theme"); err != nil {
		t.Fatalf("DeleteConfig failed: %v", err)
	}
	if got := GetConfig("ui.theme", nil); got != "dark" {
		t.Errorf("GetConfig after delete = %v, want dark", got)
	}
}
