// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Structured JSON output for scripting integration.
//
// Every command supports --json, producing one standardized envelope
// regardless of command so callers can parse output uniformly.

package cli

import (
	"encoding/json"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data any `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// GetData is returned by the get command in JSON mode.
type GetData struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Found bool   `json:"found"`
	Scope string `json:"scope,omitempty"`
}

// SetData is returned by the set and delete commands in JSON mode.
type SetData struct {
	Scope string `json:"scope"`
	Key   string `json:"key"`
	Value any    `json:"value,omitempty"`
}

// ScopeListEntry is one scope row in the scopes listing.
type ScopeListEntry struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Active bool   `json:"active"`
	Path   string `json:"path,omitempty"`
	Keys   int    `json:"keys"`
}

// HashData is returned by the hash command in JSON mode.
type HashData struct {
	Hash string `json:"hash"`
}

// PathData is returned by the path command in JSON mode.
type PathData struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// TransferData is returned by the export and import commands.
type TransferData struct {
	Scope  string `json:"scope"`
	File   string `json:"file"`
	Format string `json:"format"`
	Merge  bool   `json:"merge,omitempty"`
}
