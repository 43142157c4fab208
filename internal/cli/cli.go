// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and dispatch for labconfig.

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdGet Command = iota
	CmdSet
	CmdDelete
	CmdScopes
	CmdActivate
	CmdDeactivate
	CmdExport
	CmdImport
	CmdHash
	CmdEffective
	CmdPath
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON   bool   // Output in JSON format
	Quiet  bool   // Minimal output
	DBPath string // Override database location (--db)

	// Command arguments after the command word
	Parser *ArgParser
}

const usageText = `labconfig - layered configuration for lab tooling

Labconfig stores configuration in five fixed scopes backed by a SQLite
database. Higher scopes override lower ones when a key is resolved:

  install (10) < user (20) < lab (30) < project (40) < runtime (50)

Usage:
  labconfig get <key>                Resolve a key across active scopes
    --scope NAME                     Read from one scope only
    --default VALUE                  Value to print on a miss
  labconfig set <key> <value>        Set a key (default scope: user)
    --scope NAME                     Target scope
    --transient                      Memory-only, not persisted
    --string                         Store value as a raw string
  labconfig delete <key>             Delete a key (default scope: user)
    --scope NAME                     Target scope
  labconfig scopes                   List scopes, levels and active flags
  labconfig activate <scope>         Include a scope in resolution
  labconfig deactivate <scope>       Exclude a scope (data is kept)
  labconfig export <scope> <file>    Write a scope snapshot (.json or .toml)
  labconfig import <scope> <file>    Load a file into a scope
    --merge                          Overlay instead of replace
  labconfig hash                     Print the effective-config hash
  labconfig effective                Print the merged effective config
  labconfig path                     Print the database file location
  labconfig version                  Print version information
  labconfig help                     Show this help

Global Flags:
  --db PATH       Use an explicit database file
  --json          Output in JSON format
  -q, --quiet     Minimal output

Examples:
  labconfig set ui.theme dark                 Set in user scope
  labconfig set ui.theme light --scope project
  labconfig get ui.theme                      "light" (project wins)
  labconfig deactivate project
  labconfig get ui.theme                      "dark"
  labconfig set analysis.fps 24 --scope lab   Stored as a number
  labconfig set version v1.2 --string         Forced raw string
  labconfig export user backup.toml           TOML snapshot
  labconfig import project settings.json --merge
  labconfig scopes --json                     Machine-readable listing

Environment:
  LABCONFIG_DB    Database file override (same effect as --db)

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("labconfig version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUsageError)
	}

	if len(remaining) == 0 {
		return CmdHelp, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	parsedArgs.Parser = NewArgParser(remaining[1:])

	switch cmd {
	case "get", "g":
		return CmdGet, parsedArgs

	case "set":
		return CmdSet, parsedArgs

	case "delete", "del", "unset":
		return CmdDelete, parsedArgs

	case "scopes", "scope", "list":
		return CmdScopes, parsedArgs

	case "activate", "enable":
		return CmdActivate, parsedArgs

	case "deactivate", "disable":
		return CmdDeactivate, parsedArgs

	case "export":
		return CmdExport, parsedArgs

	case "import":
		return CmdImport, parsedArgs

	case "hash":
		return CmdHash, parsedArgs

	case "effective", "merged":
		return CmdEffective, parsedArgs

	case "path":
		return CmdPath, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns the rest.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "--json":
			parsedArgs.JSON = true
		case arg == "-q" || arg == "--quiet":
			parsedArgs.Quiet = true
		case arg == "--db":
			if i+1 >= len(args) {
				return nil, parsedArgs, fmt.Errorf("--db requires a path argument")
			}
			i++
			parsedArgs.DBPath = args[i]
		case strings.HasPrefix(arg, "--db="):
			parsedArgs.DBPath = strings.TrimPrefix(arg, "--db=")
		default:
			remaining = append(remaining, arg)
		}
		i++
	}

	return remaining, parsedArgs, nil
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) error {
	if args.JSON {
		data := map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
		}
		return NewJSONResponse("version", data).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp() error {
	PrintUsage()
	return nil
}
