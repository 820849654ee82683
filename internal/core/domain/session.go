package domain

import "time"

// Session is one upload batch together with its conversation.
type Session struct {
	// ID is the unique identifier for the session.
	ID string

	// Title is the display title shown in session lists.
	Title string

	// Records holds one extracted row per uploaded document, in upload order.
	Records []*Record

	// Transcript is the append-only chat history.
	Transcript []ChatTurn

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is when the session was last written.
	UpdatedAt time.Time
}

// Record returns the record for fileName.
func (s *Session) Record(fileName string) (*Record, bool) {
	for _, r := range s.Records {
		if r.FileName == fileName {
			return r, true
		}
	}
	return nil, false
}

// FileNames returns the file names of all records in order.
func (s *Session) FileNames() []string {
	names := make([]string, len(s.Records))
	for i, r := range s.Records {
		names[i] = r.FileName
	}
	return names
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Records = make([]*Record, len(s.Records))
	for i, r := range s.Records {
		cp.Records[i] = r.Clone()
	}
	cp.Transcript = append([]ChatTurn(nil), s.Transcript...)
	return &cp
}

// SessionSummary is the list view of a session.
type SessionSummary struct {
	ID            string
	Title         string
	DocumentCount int
	TurnCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Active        bool
}

// Summary returns the list view of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:            s.ID,
		Title:         s.Title,
		DocumentCount: len(s.Records),
		TurnCount:     len(s.Transcript),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
