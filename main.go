// labconfig - layered configuration for lab tooling.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/labconfig/internal/cli"
	"github.com/jeranaias/labconfig/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Help and version need no database
	switch cmd {
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	case cli.CmdVersion:
		if err := cli.HandleVersion(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitGeneralError)
		}
		return
	}

	resolver, err := config.Open(args.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open configuration database: %v\n", err)
		os.Exit(cli.ExitStorageError)
	}
	defer resolver.Close()

	// Package-level accessors resolve through this instance
	config.SetDefault(resolver)

	var handler func(*config.Resolver, cli.Args) error
	var name string
	switch cmd {
	case cli.CmdGet:
		handler, name = cli.HandleGet, "get"
	case cli.CmdSet:
		handler, name = cli.HandleSet, "set"
	case cli.CmdDelete:
		handler, name = cli.HandleDelete, "delete"
	case cli.CmdScopes:
		handler, name = cli.HandleScopes, "scopes"
	case cli.CmdActivate:
		handler, name = cli.HandleActivate, "activate"
	case cli.CmdDeactivate:
		handler, name = cli.HandleDeactivate, "deactivate"
	case cli.CmdExport:
		handler, name = cli.HandleExport, "export"
	case cli.CmdImport:
		handler, name = cli.HandleImport, "import"
	case cli.CmdHash:
		handler, name = cli.HandleHash, "hash"
	case cli.CmdEffective:
		handler, name = cli.HandleEffective, "effective"
	case cli.CmdPath:
		handler, name = cli.HandlePath, "path"
	default:
		cli.HandleHelp()
		return
	}

	if err := handler(resolver, args); err != nil {
		cli.DisplayError(name, err, args.JSON)
		resolver.Close()
		os.Exit(cli.GetExitCode(err))
	}
}
