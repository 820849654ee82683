package httpapi

import (
	"time"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

type cellView struct {
	Value  *string `json:"value"`
	Source string  `json:"source"`
}

type recordView struct {
	FileName    string              `json:"fileName"`
	MIMEType    string              `json:"mimeType,omitempty"`
	Suggestion  string              `json:"suggestion,omitempty"`
	ExtractedAt *time.Time          `json:"extractedAt,omitempty"`
	Cells       map[string]cellView `json:"cells"`
}

type turnView struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Failed    bool      `json:"failed,omitempty"`
}

type sessionView struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Active     bool         `json:"active"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Records    []recordView `json:"records"`
	Transcript []turnView   `json:"transcript"`
}

type summaryView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	DocumentCount int       `json:"documentCount"`
	TurnCount     int       `json:"turnCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Active        bool      `json:"active"`
}

type failureView struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

type batchView struct {
	SessionID string        `json:"sessionId,omitempty"`
	Records   []recordView  `json:"records"`
	Failures  []failureView `json:"failures"`
	Error     string        `json:"error,omitempty"`
}

type chatView struct {
	Answer    string    `json:"answer"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Patches   []string  `json:"patches"`
}

type tableView struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// newRecordView renders absent cells as null.
func newRecordView(r *domain.Record) recordView {
	view := recordView{
		FileName:   r.FileName,
		MIMEType:   r.MIMEType,
		Suggestion: r.Suggestion,
		Cells:      make(map[string]cellView, len(domain.Fields)),
	}
	if !r.ExtractedAt.IsZero() {
		at := r.ExtractedAt
		view.ExtractedAt = &at
	}
	for k, cell := range r.Cells() {
		cv := cellView{Source: cell.Source.String()}
		if cell.Present {
			v := cell.Value
			cv.Value = &v
		}
		view.Cells[k.String()] = cv
	}
	return view
}

func newRecordViews(records []*domain.Record) []recordView {
	views := make([]recordView, len(records))
	for i, r := range records {
		views[i] = newRecordView(r)
	}
	return views
}

func newSessionView(s *domain.Session, activeID string) sessionView {
	view := sessionView{
		ID:         s.ID,
		Title:      s.Title,
		Active:     s.ID == activeID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		Records:    newRecordViews(s.Records),
		Transcript: make([]turnView, len(s.Transcript)),
	}
	for i, t := range s.Transcript {
		view.Transcript[i] = turnView{
			Sender:    string(t.Sender),
			Text:      t.Text,
			Timestamp: t.Timestamp,
			Failed:    t.Failed,
		}
	}
	return view
}

func newSummaryView(s domain.SessionSummary) summaryView {
	return summaryView{
		ID:            s.ID,
		Title:         s.Title,
		DocumentCount: s.DocumentCount,
		TurnCount:     s.TurnCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Active:        s.Active,
	}
}
