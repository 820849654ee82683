// Package domain defines the core business entities for ropa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FieldKey, Schema: the closed RoPA field set and its alias table
//   - Cell, Source: one value plus the kind of writer that set it
//   - Record: one document's row of cells
//   - Session: a batch of records and its chat transcript
//   - Patch: a cell rewrite proposed by the chat collaborator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
