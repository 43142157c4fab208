// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status_cmd.go - Introspection commands: hash, effective, path.
//
// Command: hash
// Short:   Print the SHA-256 digest of the merged active configuration,
//          useful for cheap "has anything changed" checks in scripts.
//
// Command: effective
// Short:   Print the merged configuration across all active scopes.
//
// Command: path
// Short:   Print the database file location.

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/labconfig/internal/config"
)

// HandleHash handles the "hash" command.
func HandleHash(r *config.Resolver, args Args) error {
	hash, err := r.ConfigHash()
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("hash", HashData{Hash: hash}).Print()
	}
	fmt.Println(hash)
	return nil
}

// HandleEffective handles the "effective" command.
func HandleEffective(r *config.Resolver, args Args) error {
	merged := r.EffectiveConfig()

	if args.JSON {
		return NewJSONResponse("effective", merged).Print()
	}

	encoded, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// HandlePath handles the "path" command.
func HandlePath(r *config.Resolver, args Args) error {
	path := r.DatabasePath()
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if args.JSON {
		return NewJSONResponse("path", PathData{Path: path, Exists: exists}).Print()
	}

	fmt.Println(path)
	if !exists {
		fmt.Fprintln(os.Stderr, DimStyle.Render("(file does not exist yet)"))
	}
	return nil
}
