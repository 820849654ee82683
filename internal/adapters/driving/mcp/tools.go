package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// ListSessionsInput is the input schema for the list_sessions tool.
type ListSessionsInput struct{}

// SessionOutput summarises one session.
type SessionOutput struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	DocumentCount int    `json:"document_count"`
	TurnCount     int    `json:"turn_count"`
	UpdatedAt     string `json:"updated_at"`
	Active        bool   `json:"active"`
}

// ListSessionsOutput is the output schema for the list_sessions tool.
type ListSessionsOutput struct {
	Sessions []SessionOutput `json:"sessions"`
	Count    int             `json:"count"`
}

// GetTableInput is the input schema for the get_table tool.
type GetTableInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to read (default: the active session)"`
}

// TableOutput is a session table keyed by column header.
type TableOutput struct {
	SessionID string              `json:"session_id"`
	Header    []string            `json:"header"`
	Rows      []map[string]string `json:"rows"`
}

// EditCellInput is the input schema for the edit_cell tool.
type EditCellInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to edit (default: the active session)"`
	FileName  string `json:"file_name" jsonschema:"document whose row is edited"`
	Field     string `json:"field" jsonschema:"canonical field key such as masa_retensi"`
	Value     string `json:"value" jsonschema:"new cell value"`
}

// EditCellOutput is the output schema for the edit_cell tool.
type EditCellOutput struct {
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	Field     string `json:"field"`
	Source    string `json:"source"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to ask about (default: the active session)"`
	Question  string `json:"question" jsonschema:"question or edit request about the table"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Failed  bool     `json:"failed,omitempty"`
	Patches []string `json:"patches,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List analysis sessions, most recently updated first",
	}, s.handleListSessions)

	if s.ports.Export != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_table",
			Description: "Read the Record of Processing Activities table of a session",
		}, s.handleGetTable)
	}

	if s.ports.ReadOnly {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_cell",
		Description: "Overwrite one cell of a session table as a manual edit",
	}, s.handleEditCell)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Ask the analyst about the active session table; it may rewrite cells",
		}, s.handleAsk)
	}
}

func (s *Server) handleListSessions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSessionsInput,
) (*mcp.CallToolResult, ListSessionsOutput, error) {
	summaries, err := s.ports.Sessions.List(ctx)
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}

	output := ListSessionsOutput{
		Sessions: make([]SessionOutput, len(summaries)),
		Count:    len(summaries),
	}
	for i, sum := range summaries {
		output.Sessions[i] = SessionOutput{
			ID:            sum.ID,
			Title:         sum.Title,
			DocumentCount: sum.DocumentCount,
			TurnCount:     sum.TurnCount,
			UpdatedAt:     sum.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Active:        sum.Active,
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetTable(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetTableInput,
) (*mcp.CallToolResult, TableOutput, error) {
	id, err := s.sessionID(input.SessionID)
	if err != nil {
		return nil, TableOutput{}, err
	}
	output, err := s.table(ctx, id)
	if err != nil {
		return nil, TableOutput{}, err
	}
	return nil, output, nil
}

func (s *Server) table(ctx context.Context, id string) (TableOutput, error) {
	table, err := s.ports.Export.Table(ctx, id)
	if err != nil {
		return TableOutput{}, err
	}
	output := TableOutput{
		SessionID: id,
		Header:    table.Header,
		Rows:      make([]map[string]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		obj := make(map[string]string, len(row))
		for j, v := range row {
			if j < len(table.Header) {
				obj[table.Header[j]] = v
			}
		}
		output.Rows[i] = obj
	}
	return output, nil
}

func (s *Server) handleEditCell(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditCellInput,
) (*mcp.CallToolResult, EditCellOutput, error) {
	id, err := s.sessionID(input.SessionID)
	if err != nil {
		return nil, EditCellOutput{}, err
	}
	field := domain.FieldKey(input.Field)
	if err := s.ports.Sessions.EditCell(ctx, id, input.FileName, field, input.Value); err != nil {
		return nil, EditCellOutput{}, err
	}
	return nil, EditCellOutput{
		SessionID: id,
		FileName:  input.FileName,
		Field:     input.Field,
		Source:    domain.SourceManual.String(),
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	id, err := s.sessionID(input.SessionID)
	if err != nil {
		return nil, AskOutput{}, err
	}
	result, err := s.ports.Chat.Ask(ctx, id, input.Question)
	if result == nil {
		return nil, AskOutput{}, err
	}
	output := AskOutput{Answer: result.Turn.Text, Failed: result.Turn.Failed}
	for _, o := range result.Outcomes {
		output.Patches = append(output.Patches, o.String())
	}
	// A failed model call still produced a transcript turn worth returning.
	return nil, output, nil
}

// sessionID falls back to the active session when id is empty.
func (s *Server) sessionID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	active := s.ports.Sessions.ActiveID()
	if active == "" {
		return "", fmt.Errorf("%w: pass session_id", domain.ErrNoActiveSession)
	}
	return active, nil
}
