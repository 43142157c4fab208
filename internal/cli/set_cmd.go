// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// set_cmd.go - Key write and delete commands.
//
// Command: set <key> <value>
// Short:   Set a key in one scope (default: user)
//
// Values are parsed as JSON when possible, so "24" stores a number,
// "true" a boolean and '{"a":1}' a subtree. --string disables that
// and stores the raw text.
//
// Flags:
//   --scope NAME      Target scope (default: user)
//   --transient       Memory-only write, not persisted
//   --string          Store the value as a raw string
//   --json            Output in JSON format

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/labconfig/internal/config"
)

// HandleSet handles the "set" command.
func HandleSet(r *config.Resolver, args Args) error {
	// Count, not emptiness: set key "" is a legal write
	if args.Parser.PositionalCount() < 2 {
		return fmt.Errorf("usage: labconfig set <key> <value> [--scope NAME]")
	}
	key := args.Parser.Positional(0)
	raw := args.Parser.Positional(1)

	scope, err := config.ParseScope(args.Parser.FlagOrDefault("scope", "user"))
	if err != nil {
		return err
	}

	value := parseValue(raw, args.Parser.BoolFlag("string"))

	if args.Parser.BoolFlag("transient") {
		err = r.SetTransient(scope, key, value)
	} else {
		err = r.Set(scope, key, value)
	}
	if err != nil {
		return err
	}

	if args.JSON {
		data := SetData{Scope: scope.String(), Key: key, Value: value}
		return NewJSONResponse("set", data).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s %s = %v (%s)\n",
			SuccessStyle.Render("[OK]"), key, value, scope)
	}
	return nil
}

// HandleDelete handles the "delete" command.
func HandleDelete(r *config.Resolver, args Args) error {
	key := args.Parser.Positional(0)
	if key == "" {
		return fmt.Errorf("usage: labconfig delete <key> [--scope NAME]")
	}

	scope, err := config.ParseScope(args.Parser.FlagOrDefault("scope", "user"))
	if err != nil {
		return err
	}

	if err := r.Delete(scope, key); err != nil {
		return err
	}

	if args.JSON {
		data := SetData{Scope: scope.String(), Key: key}
		return NewJSONResponse("delete", data).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s deleted %s (%s)\n",
			SuccessStyle.Render("[OK]"), key, scope)
	}
	return nil
}

// parseValue interprets a raw CLI value. JSON syntax wins unless the
// caller forced string storage, so numbers, booleans, null, arrays
// and objects all land with their natural type.
func parseValue(raw string, forceString bool) any {
	if forceString {
		return raw
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}
