// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// scopes_cmd.go - Scope listing and lifecycle commands.
//
// Command: scopes
// Short:   List scopes with level, active flag, path and key counts
//
// Commands: activate <scope> / deactivate <scope>
// Short:    Toggle a scope's participation in hierarchical resolution.
//           Deactivation keeps the scope's data; it only drops out of
//           resolution and the effective-config hash.

package cli

import (
	"fmt"

	"github.com/jeranaias/labconfig/internal/config"
	"github.com/jeranaias/labconfig/internal/pathtree"
)

// HandleScopes handles the "scopes" command.
func HandleScopes(r *config.Resolver, args Args) error {
	infos := r.AllScopes()

	entries := make([]ScopeListEntry, 0, len(infos))
	for _, scope := range config.Scopes() {
		info := infos[scope]
		entries = append(entries, ScopeListEntry{
			Name:   scope.String(),
			Level:  info.Level,
			Active: info.Active,
			Path:   info.Path,
			Keys:   len(pathtree.Flatten(info.Data)),
		})
	}

	if args.JSON {
		return NewJSONResponse("scopes", entries).Print()
	}

	fmt.Println(TitleStyle.Render("Configuration Scopes"))
	fmt.Println(RenderSeparator())
	for _, e := range entries {
		line := fmt.Sprintf("  %-10s level %-3d %-11s %d keys",
			e.Name, e.Level, activeWord(e.Active), e.Keys)
		fmt.Println(line)
		if e.Path != "" {
			fmt.Printf("             %s\n", DimStyle.Render(e.Path))
		}
	}
	fmt.Println(RenderSeparator())
	fmt.Printf("Database: %s\n", DimStyle.Render(r.DatabasePath()))
	return nil
}

func activeWord(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

// HandleActivate handles the "activate" command.
func HandleActivate(r *config.Resolver, args Args) error {
	return setScopeActive(r, args, true)
}

// HandleDeactivate handles the "deactivate" command.
func HandleDeactivate(r *config.Resolver, args Args) error {
	return setScopeActive(r, args, false)
}

func setScopeActive(r *config.Resolver, args Args, active bool) error {
	name := args.Parser.Positional(0)
	if name == "" {
		verb := "activate"
		if !active {
			verb = "deactivate"
		}
		return fmt.Errorf("usage: labconfig %s <scope>", verb)
	}

	scope, err := config.ParseScope(name)
	if err != nil {
		return err
	}

	if active {
		err = r.ActivateScope(scope)
	} else {
		err = r.DeactivateScope(scope)
	}
	if err != nil {
		return err
	}

	if args.JSON {
		data := map[string]any{"scope": scope.String(), "active": active}
		return NewJSONResponse("scopes", data).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s %s %s\n",
			SuccessStyle.Render("[OK]"), scope, RenderActive(active))
	}
	return nil
}
