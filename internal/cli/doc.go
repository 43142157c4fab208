// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the labconfig command-line interface.
//
// Commands are dispatched from main.go through Parse, which returns a
// Command constant plus the parsed Args. Each command has a
// Handle<Name> function in its own file. Output goes through the
// shared lipgloss styles in styles.go, with --json switching every
// command to the structured JSONResponse format for scripting.
package cli
