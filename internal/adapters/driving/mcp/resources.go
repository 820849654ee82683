package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for RoPA resources.
const uriScheme = "ropa://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sessions",
		Name:        "sessions",
		Description: "List of all analysis sessions",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)

	if s.ports.Export != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "sessions/{sessionId}/table",
			Name:        "session-table",
			Description: "RoPA table of a session",
			MIMEType:    "application/json",
		}, s.handleTableResource)
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/transcript",
		Name:        "session-transcript",
		Description: "Chat transcript of a session",
		MIMEType:    "text/plain",
	}, s.handleTranscriptResource)
}

func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, output, err := s.handleListSessions(ctx, nil, ListSessionsInput{})
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return jsonResource(req.Params.URI, output.Sessions)
}

func (s *Server) handleTableResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSessionID(req.Params.URI, "/table")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	output, err := s.table(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	return jsonResource(req.Params.URI, output)
}

func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSessionID(req.Params.URI, "/transcript")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	session, err := s.ports.Sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var b strings.Builder
	for _, turn := range session.Transcript {
		fmt.Fprintf(&b, "[%s] %s: %s\n", turn.Timestamp.Format("15:04"), turn.Sender, turn.Text)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the ID from ropa://sessions/{sessionId}<suffix>.
func extractSessionID(uri, suffix string) string {
	const prefix = uriScheme + "sessions/"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
