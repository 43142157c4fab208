// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all labconfig commands.
//
// STANDARDIZED PATTERN:
//   - ALWAYS return errors (never just print and return nil)
//   - Let the caller decide how to display errors
//   - Map sentinel errors to specific exit codes

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/labconfig/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitStorageError indicates a database persistence failure
	ExitStorageError = 3
	// ExitEncodingError indicates a value could not be (de)serialized
	ExitEncodingError = 4
)

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalidScope), errors.Is(err, config.ErrInvalidPath):
		return ExitUsageError
	case errors.Is(err, config.ErrPersistence):
		return ExitStorageError
	case errors.Is(err, config.ErrSerialization):
		return ExitEncodingError
	default:
		return ExitGeneralError
	}
}

// DisplayError displays an error in a consistent format. In JSON mode
// the error goes to stdout as a structured envelope; otherwise a
// styled message goes to stderr.
func DisplayError(command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		NewJSONErrorResponse(command, err).Print()
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
}
