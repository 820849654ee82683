package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// databaseFile is the file name inside the data directory.
const databaseFile = "sessions.db"

// Store is a SQLite-backed session store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ropa/data/sessions.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ropa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, databaseFile)

	// WAL lets readers proceed while a save is in flight.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save replaces the session, its records, cells and transcript in one transaction.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, session.ID, session.Title, toUnix(session.CreatedAt), toUnix(session.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chat_turns WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("clearing transcript: %w", err)
	}

	for pos, record := range session.Records {
		if err := insertRecord(ctx, tx, session.ID, pos, record); err != nil {
			return err
		}
	}

	for seq, turn := range session.Transcript {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chat_turns (session_id, seq, sender, text, failed, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, session.ID, seq, string(turn.Sender), turn.Text, turn.Failed, toUnix(turn.Timestamp))
		if err != nil {
			return fmt.Errorf("saving chat turn %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, sessionID string, pos int, record *domain.Record) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO records (session_id, file_name, position, mime_type, suggestion, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, record.FileName, pos, record.MIMEType, record.Suggestion, toUnix(record.ExtractedAt))
	if err != nil {
		return fmt.Errorf("saving record %q: %w", record.FileName, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (session_id, file_name, field, value, present, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing cell insert: %w", err)
	}
	defer stmt.Close()

	for field, cell := range record.Cells() {
		if _, err := stmt.ExecContext(ctx, sessionID, record.FileName, string(field),
			cell.Value, cell.Present, cell.Source.String()); err != nil {
			return fmt.Errorf("saving cell %q of %q: %w", field, record.FileName, err)
		}
	}
	return nil
}

// Get retrieves a session by ID with its records and transcript.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at FROM sessions WHERE id = ?
	`, id)

	var session domain.Session
	var createdAt, updatedAt int64
	if err := row.Scan(&session.ID, &session.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	session.CreatedAt = fromUnix(createdAt)
	session.UpdatedAt = fromUnix(updatedAt)

	records, err := s.loadRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Records = records

	transcript, err := s.loadTranscript(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Transcript = transcript

	return &session, nil
}

type recordRow struct {
	fileName    string
	mimeType    string
	suggestion  string
	extractedAt int64
}

func (s *sessionStore) loadRecords(ctx context.Context, sessionID string) ([]*domain.Record, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_name, mime_type, suggestion, extracted_at
		FROM records WHERE session_id = ? ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	var headers []recordRow
	for rows.Next() {
		var r recordRow
		if err := rows.Scan(&r.fileName, &r.mimeType, &r.suggestion, &r.extractedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		headers = append(headers, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	rows.Close()

	cells, err := s.loadCells(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.Record, 0, len(headers))
	for _, h := range headers {
		record, err := domain.RestoreRecord(h.fileName, cells[h.fileName])
		if err != nil {
			return nil, fmt.Errorf("restoring record: %w", err)
		}
		record.MIMEType = h.mimeType
		record.Suggestion = h.suggestion
		record.ExtractedAt = fromUnix(h.extractedAt)
		records = append(records, record)
	}
	return records, nil
}

func (s *sessionStore) loadCells(ctx context.Context, sessionID string) (map[string]map[domain.FieldKey]domain.Cell, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_name, field, value, present, source
		FROM cells WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying cells: %w", err)
	}
	defer rows.Close()

	cells := make(map[string]map[domain.FieldKey]domain.Cell)
	for rows.Next() {
		var fileName, field, value, source string
		var present bool
		if err := rows.Scan(&fileName, &field, &value, &present, &source); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		src, err := domain.ParseSource(source)
		if err != nil {
			return nil, fmt.Errorf("cell %q of %q: %w", field, fileName, err)
		}
		if cells[fileName] == nil {
			cells[fileName] = make(map[domain.FieldKey]domain.Cell, len(domain.Fields))
		}
		cells[fileName][domain.FieldKey(field)] = domain.Cell{Value: value, Present: present, Source: src}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cells: %w", err)
	}
	return cells, nil
}

func (s *sessionStore) loadTranscript(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sender, text, failed, created_at
		FROM chat_turns WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying transcript: %w", err)
	}
	defer rows.Close()

	var turns []domain.ChatTurn //nolint:prealloc // size unknown from query
	for rows.Next() {
		var turn domain.ChatTurn
		var sender string
		var createdAt int64
		if err := rows.Scan(&sender, &turn.Text, &turn.Failed, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat turn: %w", err)
		}
		turn.Sender = domain.Sender(sender)
		turn.Timestamp = fromUnix(createdAt)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcript: %w", err)
	}
	return turns, nil
}

// List returns summaries of every session, most recently updated first.
func (s *sessionStore) List(ctx context.Context) ([]domain.SessionSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM records r WHERE r.session_id = s.id),
			(SELECT COUNT(*) FROM chat_turns c WHERE c.session_id = s.id)
		FROM sessions s
		ORDER BY s.updated_at DESC, s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	summaries := []domain.SessionSummary{}
	for rows.Next() {
		var sum domain.SessionSummary
		var createdAt, updatedAt int64
		if err := rows.Scan(&sum.ID, &sum.Title, &createdAt, &updatedAt,
			&sum.DocumentCount, &sum.TurnCount); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sum.CreatedAt = fromUnix(createdAt)
		sum.UpdatedAt = fromUnix(updatedAt)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return summaries, nil
}

// Delete removes a session. Records, cells, turns and the active pointer cascade.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveActive records which session is active. Empty clears it.
func (s *sessionStore) SaveActive(ctx context.Context, id string) error {
	if id == "" {
		if _, err := s.store.db.ExecContext(ctx, "DELETE FROM active_session"); err != nil {
			return fmt.Errorf("clearing active session: %w", err)
		}
		return nil
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO active_session (singleton, session_id) VALUES (1, ?)
		ON CONFLICT(singleton) DO UPDATE SET session_id = excluded.session_id
	`, id)
	if err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}
	return nil
}

// LoadActive returns the recorded active session ID, or empty.
func (s *sessionStore) LoadActive(ctx context.Context) (string, error) {
	var id string
	err := s.store.db.QueryRowContext(ctx, "SELECT session_id FROM active_session WHERE singleton = 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading active session: %w", err)
	}
	return id, nil
}

// Helper functions

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
