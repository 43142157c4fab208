// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// get_cmd.go - Key resolution command.
//
// Command: get <key>
// Short:   Resolve a key across active scopes (highest wins)
//
// Flags:
//   --scope NAME      Read from one scope only, ignoring precedence
//   --default VALUE   Value to print when the key is missing
//   --json            Output in JSON format

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/labconfig/internal/config"
)

// HandleGet handles the "get" command.
func HandleGet(r *config.Resolver, args Args) error {
	key := args.Parser.Positional(0)
	if key == "" {
		return fmt.Errorf("no key provided\nUsage: labconfig get <key> [--scope NAME]")
	}

	// A private sentinel distinguishes a genuine miss from a stored null
	type missType struct{}
	miss := missType{}

	var value any
	scopeName := args.Parser.Flag("scope")
	if scopeName != "" {
		scope, err := config.ParseScope(scopeName)
		if err != nil {
			return err
		}
		value = r.GetIn(scope, key, miss)
	} else {
		value = r.Get(key, miss)
	}

	found := true
	if _, isMiss := value.(missType); isMiss {
		found = false
		if def := args.Parser.Flag("default"); def != "" {
			value = def
		} else {
			value = nil
		}
	}

	if args.JSON {
		data := GetData{Key: key, Value: value, Found: found, Scope: scopeName}
		return NewJSONResponse("get", data).Print()
	}

	if !found && value == nil {
		fmt.Println(DimStyle.Render("(not set)"))
		return nil
	}
	return printValue(value)
}

// printValue renders a resolved value: scalars as plain text, trees
// and arrays as indented JSON.
func printValue(value any) error {
	switch value.(type) {
	case map[string]any, []any:
		encoded, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	case nil:
		fmt.Println("null")
	default:
		fmt.Println(ValueStyle.Render(fmt.Sprintf("%v", value)))
	}
	return nil
}
