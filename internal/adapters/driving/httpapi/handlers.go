package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// uploadField is the multipart field carrying the documents.
const uploadField = "datanya"

var contentTypes = map[domain.ExportFormat]string{
	domain.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	domain.ExportCSV:  "text/csv; charset=utf-8",
}

type questionRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

type editRequest struct {
	SessionID string `json:"sessionId"`
	FileName  string `json:"fileName" binding:"required"`
	Field     string `json:"field" binding:"required"`
	Value     string `json:"value"`
}

func (s *Server) analyze(c *gin.Context) {
	if s.ports.Analysis == nil {
		abort(c, fmt.Errorf("analysis: %w", errServiceUnavailable))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		abort(c, fmt.Errorf("%w: %s", domain.ErrNoFiles, err))
		return
	}
	uploads, err := readUploads(form.File[uploadField])
	if err != nil {
		abort(c, err)
		return
	}

	result, err := s.ports.Analysis.Analyze(c.Request.Context(), c.PostForm("sessionId"), uploads)
	if result == nil {
		abort(c, err)
		return
	}

	view := batchView{
		SessionID: result.SessionID,
		Records:   newRecordViews(result.Records),
		Failures:  make([]failureView, len(result.Failures)),
	}
	for i, f := range result.Failures {
		view.Failures[i] = failureView{FileName: f.FileName, Error: f.Err.Error()}
	}

	status := http.StatusOK
	if err != nil {
		view.Error = err.Error()
		// Uncommitted batches report the failure status; partial ones succeed.
		if result.SessionID == "" {
			status = statusFor(err)
		}
	}
	c.JSON(status, view)
}

// readUploads loads each file, reading at most one byte past the size cap so
// oversized documents are still rejected by validation.
func readUploads(files []*multipart.FileHeader) ([]domain.Upload, error) {
	uploads := make([]domain.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, domain.MaxUploadSize+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{
			FileName: fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return uploads, nil
}

func (s *Server) brainstorm(c *gin.Context) {
	if s.ports.Chat == nil {
		abort(c, fmt.Errorf("chat: %w", errServiceUnavailable))
		return
	}

	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err))
		return
	}

	result, err := s.ports.Chat.Ask(c.Request.Context(), req.SessionID, req.Question)
	if result == nil {
		abort(c, err)
		return
	}

	view := chatView{
		Answer:    result.Turn.Text,
		Failed:    result.Turn.Failed,
		Timestamp: result.Turn.Timestamp,
		Patches:   make([]string, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		view.Patches = append(view.Patches, o.String())
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) listSessions(c *gin.Context) {
	summaries, err := s.ports.Sessions.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	views := make([]summaryView, len(summaries))
	for i, sum := range summaries {
		views[i] = newSummaryView(sum)
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) createSession(c *gin.Context) {
	session, err := s.ports.Sessions.Create(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(session, s.ports.Sessions.ActiveID()))
}

func (s *Server) activeSession(c *gin.Context) {
	session, err := s.ports.Sessions.Active(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, session.ID))
}

func (s *Server) getSession(c *gin.Context) {
	session, err := s.ports.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, s.ports.Sessions.ActiveID()))
}

func (s *Server) activateSession(c *gin.Context) {
	id := c.Param("id")
	if err := s.ports.Sessions.SwitchTo(c.Request.Context(), id); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeSessionId": id})
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.ports.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) editCell(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err))
		return
	}

	ctx := c.Request.Context()
	field := domain.FieldKey(req.Field)
	if err := s.ports.Sessions.EditCell(ctx, req.SessionID, req.FileName, field, req.Value); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fileName": req.FileName,
		"field":    req.Field,
		"value":    req.Value,
		"source":   domain.SourceManual.String(),
	})
}

func (s *Server) table(c *gin.Context) {
	if s.ports.Export == nil {
		abort(c, fmt.Errorf("export: %w", errServiceUnavailable))
		return
	}
	table, err := s.ports.Export.Table(c.Request.Context(), c.Query("sessionId"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tableView{Header: table.Header, Rows: table.Rows})
}

func (s *Server) export(c *gin.Context) {
	if s.ports.Export == nil {
		abort(c, fmt.Errorf("export: %w", errServiceUnavailable))
		return
	}

	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportXLSX)))
	if !format.IsValid() {
		abort(c, fmt.Errorf("%w: export format %q", domain.ErrInvalidInput, format))
		return
	}

	// Buffered so an encoding failure can still answer with a JSON error.
	var buf bytes.Buffer
	if err := s.ports.Export.Export(c.Request.Context(), c.Query("sessionId"), format, &buf); err != nil {
		abort(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	c.Data(http.StatusOK, contentTypes[format], buf.Bytes())
}
