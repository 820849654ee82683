// Package sqlite provides a SQLite-based implementation of driven.SessionStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A session is stored across four tables:
//
//   - sessions: title and timestamps
//   - records: one row per analysed document, ordered by position
//   - cells: one row per canonical field of each record, with its provenance
//   - chat_turns: the transcript, ordered by seq
//
// The active session pointer lives in the single-row active_session table and is
// cleared by cascade when its session is deleted.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.ropa/data/sessions.db
//
// # Thread Safety
//
// All operations are thread-safe. Save replaces a session inside one transaction.
package sqlite
