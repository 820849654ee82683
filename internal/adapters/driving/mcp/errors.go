// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants list sessions, read RoPA tables, edit cells and
// ask questions about analysed documents.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
