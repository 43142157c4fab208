// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transfer_cmd.go - Scope export and import commands.
//
// Command: export <scope> <file>
// Short:   Snapshot a scope to a JSON or TOML file (by extension)
//
// Command: import <scope> <file>
// Short:   Load a JSON or TOML file into a scope. By default the
//          scope is replaced (after a backup snapshot next to the
//          database); --merge overlays the file onto existing data.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/labconfig/internal/config"
)

// HandleExport handles the "export" command.
func HandleExport(r *config.Resolver, args Args) error {
	scopeName := args.Parser.Positional(0)
	filePath := args.Parser.Positional(1)
	if scopeName == "" || filePath == "" {
		return fmt.Errorf("usage: labconfig export <scope> <file>")
	}

	scope, err := config.ParseScope(scopeName)
	if err != nil {
		return err
	}

	if err := r.ExportScope(scope, filePath); err != nil {
		return err
	}

	if args.JSON {
		data := TransferData{
			Scope:  scope.String(),
			File:   filePath,
			Format: fileFormat(filePath),
		}
		return NewJSONResponse("export", data).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s exported %s to %s\n",
			SuccessStyle.Render("[OK]"), scope, filePath)
	}
	return nil
}

// HandleImport handles the "import" command.
func HandleImport(r *config.Resolver, args Args) error {
	scopeName := args.Parser.Positional(0)
	filePath := args.Parser.Positional(1)
	if scopeName == "" || filePath == "" {
		return fmt.Errorf("usage: labconfig import <scope> <file> [--merge]")
	}

	scope, err := config.ParseScope(scopeName)
	if err != nil {
		return err
	}

	merge := args.Parser.BoolFlag("merge")
	if err := r.ImportScope(scope, filePath, merge); err != nil {
		return err
	}

	if args.JSON {
		data := TransferData{
			Scope:  scope.String(),
			File:   filePath,
			Format: fileFormat(filePath),
			Merge:  merge,
		}
		return NewJSONResponse("import", data).Print()
	}
	if !args.Quiet {
		mode := "replaced"
		if merge {
			mode = "merged"
		}
		fmt.Printf("%s imported %s into %s (%s)\n",
			SuccessStyle.Render("[OK]"), filePath, scope, mode)
	}
	return nil
}

func fileFormat(filePath string) string {
	if strings.HasSuffix(filePath, ".toml") {
		return "toml"
	}
	return "json"
}
